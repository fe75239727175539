package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Token expiry policy modes.
const (
	TokenModeRolling = "rolling"
	TokenModeFixed   = "fixed"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Tokens   TokenConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	PublicBaseURL      string // base for links embedded in emails, no trailing slash
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is; otherwise built from components
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds bearer-token signing settings for administrators.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// TokenConfig holds the stage-token expiry policy. Rolling mode stamps each
// issued token now+TTL; fixed mode stamps every token with the same
// deadline.
type TokenConfig struct {
	Mode     string
	TTL      time.Duration
	Deadline time.Time
}

// EmailConfig holds SMTP settings. An empty SMTPHost switches the mailer to
// simulated dispatch.
type EmailConfig struct {
	FromAddress string
	FromName    string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "8"))

	tokens, err := loadTokenConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "graduation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: jwtExpire,
		},
		Tokens: tokens,
		Email: EmailConfig{
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@example.com"),
			FromName:    getEnv("EMAIL_FROM_NAME", "Graduation Ceremony"),
			SMTPHost:    getEnv("SMTP_HOST", ""),
			SMTPPort:    getEnvInt("SMTP_PORT", 587),
			SMTPUser:    getEnv("SMTP_USER", ""),
			SMTPPass:    getEnv("SMTP_PASS", ""),
		},
	}
	return cfg, nil
}

func loadTokenConfig() (TokenConfig, error) {
	mode := getEnv("REGISTRATION_TOKEN_MODE", TokenModeRolling)
	switch mode {
	case TokenModeRolling:
		hours, err := strconv.Atoi(getEnv("REGISTRATION_TOKEN_TTL_HOURS", "48"))
		if err != nil || hours <= 0 {
			return TokenConfig{}, fmt.Errorf("invalid REGISTRATION_TOKEN_TTL_HOURS")
		}
		return TokenConfig{Mode: mode, TTL: time.Duration(hours) * time.Hour}, nil
	case TokenModeFixed:
		raw := os.Getenv("REGISTRATION_TOKEN_DEADLINE")
		deadline, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return TokenConfig{}, fmt.Errorf("invalid REGISTRATION_TOKEN_DEADLINE %q: %w", raw, err)
		}
		return TokenConfig{Mode: mode, Deadline: deadline}, nil
	default:
		return TokenConfig{}, fmt.Errorf("invalid REGISTRATION_TOKEN_MODE %q", mode)
	}
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
