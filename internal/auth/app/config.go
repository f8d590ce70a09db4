package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for bearer tokens

	SigningKeyFile string // Optional: PEM Ed25519 key, generated ephemerally when unset
	DatabaseFile   string // Path to SQLite database file (default: ./auth.db)
	PepperFile     string // Path to file containing pepper for password hashing (default: ./pepper)

	MailHost       string // host:port of the SMTP server; empty logs codes instead of sending
	MailUser       string
	MailPass       string
	MailAddress    string // From address, e.g. "StoreKeep <noreply@storekeep.example>"
	MailSkipVerify bool   // Skip TLS cert verification (dev only)

	TokenTTL      time.Duration // Bearer token lifetime (default: 168h)
	CodeTTL       time.Duration // One-time code lifetime (default: 10m)
	ResetTokenTTL time.Duration // Reset token lifetime (default: 30m)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "storekeep-auth"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		MailHost:       os.Getenv("MAIL_HOST"),
		MailUser:       os.Getenv("MAIL_USER"),
		MailPass:       os.Getenv("MAIL_PASS"),
		MailAddress:    getEnvOrDefault("MAIL_ADDRESS", "StoreKeep <noreply@localhost>"),
		MailSkipVerify: os.Getenv("MAIL_SKIP_VERIFY") == "true",

		TokenTTL:      getEnvDurationOrDefault("AUTH_TOKEN_TTL", 7*24*time.Hour),
		CodeTTL:       getEnvDurationOrDefault("AUTH_CODE_TTL", 10*time.Minute),
		ResetTokenTTL: getEnvDurationOrDefault("AUTH_RESET_TOKEN_TTL", 30*time.Minute),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Fall back to integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
