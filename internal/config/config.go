package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

// Config holds all environment-driven settings for the API.
type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	AdminEmail     string
	AdminPassword  string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development. In production it refuses to start without
// a real JWT secret and admin bootstrap credentials.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/portfolio?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:      getDuration("JWT_EXPIRY", 7*24*time.Hour),
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 0.1),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 5),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == devJWTSecret {
			slog.Error("JWT_SECRET must be set in production environment")
			os.Exit(1)
		}
		if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
			slog.Error("ADMIN_EMAIL and ADMIN_PASSWORD must be set in production environment")
			os.Exit(1)
		}
	}

	return cfg
}

// IsProduction reports whether the API runs in production mode. Error
// details and the demo credentials endpoint are withheld in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// MissingRequired returns the names of required settings that are unset,
// used by the readiness probe.
func (c Config) MissingRequired() []string {
	var missing []string
	if c.JWTSecret == "" || c.JWTSecret == devJWTSecret {
		missing = append(missing, "JWT_SECRET")
	}
	if c.AdminEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if c.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if c.DatabaseDSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	return missing
}

// MediaConfigured reports whether object storage settings are complete
// enough to serve uploads.
func (c Config) MediaConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3PublicURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
