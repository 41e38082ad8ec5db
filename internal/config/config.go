package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort   string `env:"PORT" envDefault:"5000"`
	DatabaseType string `env:"DB_TYPE" envDefault:"sqlite"`
	DatabasePath string `env:"DB_PATH" envDefault:"./data/bettracker.db"`
	DatabaseURL  string `env:"DATABASE_URL"`

	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"0s"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`

	// FrontendURL is where reset links and OAuth results land.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	// APIURL is the public base of this server, used to build OAuth callback URLs.
	APIURL string `env:"API_URL" envDefault:"http://localhost:5000"`

	OAuth OAuthConfig
	Email EmailConfig
	Log   LogConfig
}

// OAuthConfig holds provider credentials. A provider with an empty client ID is disabled.
type OAuthConfig struct {
	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	FacebookClientID     string `env:"FACEBOOK_APP_ID"`
	FacebookClientSecret string `env:"FACEBOOK_APP_SECRET"`
}

// EmailConfig selects and configures the password reset notifier.
// An empty Provider means reset links are only written to the log.
type EmailConfig struct {
	Provider  string `env:"EMAIL_PROVIDER"`
	From      string `env:"EMAIL_FROM"`
	FromName  string `env:"EMAIL_FROM_NAME" envDefault:"Bet Tracker"`
	AWSRegion string `env:"AWS_REGION" envDefault:"us-east-1"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	SMTPTLS      bool   `env:"SMTP_TLS" envDefault:"true"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

const minSecretLength = 16

// Load reads an optional dotenv file and then the process environment.
// Values already present in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		// a missing file is fine, production injects real env vars
		_ = godotenv.Load(f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.Email.Provider = strings.ToLower(strings.TrimSpace(cfg.Email.Provider))
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL must not be negative"))
	}
	if c.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}

	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_TYPE %q", c.DatabaseType))
	}

	switch c.Email.Provider {
	case "", "log":
	case "ses":
		if c.Email.From == "" {
			errs = append(errs, errors.New("EMAIL_FROM is required for ses"))
		}
	case "smtp":
		if c.Email.From == "" {
			errs = append(errs, errors.New("EMAIL_FROM is required for smtp"))
		}
		if c.Email.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for smtp"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.Email.Provider))
	}

	if c.OAuth.GoogleClientID != "" && c.OAuth.GoogleClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_SECRET is required when GOOGLE_CLIENT_ID is set"))
	}
	if c.OAuth.FacebookClientID != "" && c.OAuth.FacebookClientSecret == "" {
		errs = append(errs, errors.New("FACEBOOK_APP_SECRET is required when FACEBOOK_APP_ID is set"))
	}

	return errors.Join(errs...)
}
