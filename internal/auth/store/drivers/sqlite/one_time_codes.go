package sqlite

import (
	"context"
	"time"

	"github.com/storekeep/storekeep/internal/auth/domain"
)

type oneTimeCodesRepo struct {
	q querier
}

func (r *oneTimeCodesRepo) CreateCode(ctx context.Context, c domain.OneTimeCode) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO one_time_codes (id, email, code, purpose, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Email, c.Code, string(c.Purpose), c.ExpiresAt, c.Used, c.CreatedAt)
	return mapConstraint(err)
}

func (r *oneTimeCodesRepo) GetActiveCode(
	ctx context.Context,
	email, code string,
	purpose domain.CodePurpose,
) (domain.OneTimeCode, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, code, purpose, expires_at, used, created_at
		FROM one_time_codes
		WHERE email = ? AND code = ? AND purpose = ? AND used = 0 AND expires_at > ?`,
		email, code, string(purpose), time.Now().UTC())

	var c domain.OneTimeCode
	err := row.Scan(&c.ID, &c.Email, &c.Code, &c.Purpose, &c.ExpiresAt, &c.Used, &c.CreatedAt)
	if err != nil {
		return domain.OneTimeCode{}, mapNotFound(err)
	}
	return c, nil
}

func (r *oneTimeCodesRepo) HasActiveCode(
	ctx context.Context,
	email string,
	purpose domain.CodePurpose,
) (bool, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM one_time_codes
		WHERE email = ? AND purpose = ? AND used = 0 AND expires_at > ?`,
		email, string(purpose), time.Now().UTC())

	var count int64
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *oneTimeCodesRepo) MarkCodeUsed(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE one_time_codes SET used = 1 WHERE id = ?`, id)
	return err
}

func (r *oneTimeCodesRepo) DeleteCodes(
	ctx context.Context,
	email string,
	purpose domain.CodePurpose,
) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM one_time_codes
		WHERE email = ? AND purpose = ?`,
		email, string(purpose))
	return err
}

func (r *oneTimeCodesRepo) DeleteExpiredCodes(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM one_time_codes
		WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
