package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const EnvironmentProduction = "production"

// Config holds the application configuration
type Config struct {
	Environment string `env:"APP_ENV,default=development"`
	ServerPort  int    `env:"PORT,default=8080"`

	// Database configuration
	DBHost     string `env:"DB_HOST,default=localhost"`
	DBPort     int    `env:"DB_PORT,default=5432"`
	DBUser     string `env:"DB_USER,default=owner"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME,default=negocios"`

	OTP  OTPConfig
	SMTP SMTPConfig

	// PasswordHashCost is the bcrypt cost for login credentials
	PasswordHashCost int `env:"PASSWORD_HASH_COST,default=12"`

	FrontendURL string `env:"FRONTEND_URL,default=http://localhost:4200"`

	// CORSAllowedOrigins defaults to FrontendURL when unset
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`

	// JWTSecret validates bearer tokens on admin routes; admin routes are
	// disabled when empty
	JWTSecret string `env:"JWT_SECRET"`
}

// OTPConfig tunes the one-time code engine
type OTPConfig struct {
	ExpiresMinutes  int           `env:"OTP_EXPIRES_MINUTES,default=15"`
	MaxAttempts     int           `env:"OTP_MAX_ATTEMPTS,default=5"`
	HashCost        int           `env:"OTP_HASH_COST,default=10"`
	CleanupInterval time.Duration `env:"OTP_CLEANUP_INTERVAL,default=1h"`
}

// TTL is the code lifetime as a duration
func (c OTPConfig) TTL() time.Duration {
	return time.Duration(c.ExpiresMinutes) * time.Minute
}

// SMTPConfig holds outbound mail settings
type SMTPConfig struct {
	Host     string `env:"MAIL_HOST,default=smtp.gmail.com"`
	Port     int    `env:"MAIL_PORT,default=587"`
	Username string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASS"`
	From     string `env:"MAIL_FROM,default=Admin App <noreply@adminapp.com>"`
}

// Configured reports whether credentials are present
func (c SMTPConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// LoadConfig loads configuration from environment variables
func LoadConfig(ctx context.Context) (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot work with
func (c *Config) Validate() error {
	if c.OTP.ExpiresMinutes <= 0 {
		return fmt.Errorf("OTP_EXPIRES_MINUTES must be positive, got %d", c.OTP.ExpiresMinutes)
	}
	if c.OTP.MaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be positive, got %d", c.OTP.MaxAttempts)
	}
	if c.OTP.CleanupInterval < 0 {
		return fmt.Errorf("OTP_CLEANUP_INTERVAL must not be negative")
	}
	if err := validateCost("OTP_HASH_COST", c.OTP.HashCost); err != nil {
		return err
	}
	return validateCost("PASSWORD_HASH_COST", c.PasswordHashCost)
}

func validateCost(name string, cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return nil
}

// AllowedOrigins lists the browser origins accepted by CORS
func (c *Config) AllowedOrigins() []string {
	if len(c.CORSAllowedOrigins) > 0 {
		return c.CORSAllowedOrigins
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

// PostgresDSN returns the keyword/value connection string used by pgxpool
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// MigrationURL returns the URL form golang-migrate expects
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
