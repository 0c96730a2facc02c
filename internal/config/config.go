package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver         string
	DBConnection     string
	DBMigrateOnStart bool

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Rate limiting for /api/auth/*
	RateLimitAuth   int
	RateLimitWindow time.Duration

	// Timezone used for "today" on the dashboard (IANA name or "Local")
	Timezone string

	// Observability (optional)
	SentryDSN string

	// Export archive storage (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services
	S3PresignExpiry time.Duration // Expiry for archived export download links
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Personal Hub"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:         envString("DB_DRIVER", "sqlite"),
		DBConnection:     envString("DB_CONNECTION", "./data/hub.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"),
		DBMigrateOnStart: envBool("DB_MIGRATE_ON_START", true),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		RateLimitAuth:   envInt("RATE_LIMIT_AUTH", 5),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

		Timezone: envString("TIMEZONE", "Local"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects settings that are only acceptable for local development.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 characters")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageEnabled reports whether export archiving has a bucket to write to.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

// Location resolves Timezone, falling back to the server's local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("config invalid timezone, using local", "timezone", c.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:  c.AppName,
		AppEnv:   c.AppEnv,
		Port:     c.Port,
		Timezone: c.Timezone,
	}
}
