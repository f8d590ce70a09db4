package sqlite

import (
	"context"
	"time"

	"github.com/storekeep/storekeep/internal/auth/domain"
)

type resetTokensRepo struct {
	q querier
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO reset_tokens (id, email, token_hash, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Email, t.TokenHash, t.ExpiresAt, t.Used, t.CreatedAt)
	return mapConstraint(err)
}

func (r *resetTokensRepo) GetActiveResetTokenByHash(
	ctx context.Context,
	hash string,
) (domain.ResetToken, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, token_hash, expires_at, used, created_at
		FROM reset_tokens
		WHERE token_hash = ? AND used = 0 AND expires_at > ?`,
		hash, time.Now().UTC())

	var t domain.ResetToken
	err := row.Scan(&t.ID, &t.Email, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *resetTokensRepo) MarkResetTokenUsed(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE reset_tokens SET used = 1 WHERE id = ?`, id)
	return err
}

func (r *resetTokensRepo) DeleteResetTokens(ctx context.Context, email string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM reset_tokens WHERE email = ?`, email)
	return err
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM reset_tokens
		WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
