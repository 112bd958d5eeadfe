package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port string `env:"PORT, default=8080"`
	Env  string `env:"ENV,  default=development"`

	DatabaseDSN string `env:"DATABASE_DSN, default=file:teamboard.db?cache=shared&_fk=1"`
	SeedDemo    bool   `env:"SEED_DEMO_DATA, default=true"`

	JWTSecret           string `env:"JWT_SECRET"`
	JWTExpirationHours  int    `env:"JWT_EXPIRATION_HOURS, default=72"`
	JWTIssuer           string `env:"JWT_ISSUER, default=teamboard"`
	JWTAudience         string `env:"JWT_AUDIENCE, default=teamboard"`
	AuthContextKey      string `env:"AUTH_CONTEXT_KEY, default=user"`
	AuthScheme          string `env:"AUTH_SCHEME, default=Bearer"`
	PasswordResetTTLHrs int    `env:"PASSWORD_RESET_TTL_HOURS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &cfg, nil
}

func (c *Config) GetSigningKey() string {
	return c.JWTSecret
}

func (c *Config) GetContextKey() string {
	return c.AuthContextKey
}

func (c *Config) GetTokenExpiration() int {
	return c.JWTExpirationHours
}

func (c *Config) GetAuthScheme() string {
	return c.AuthScheme
}

func (c *Config) GetIssuer() string {
	return c.JWTIssuer
}

func (c *Config) GetAudience() []string {
	return []string{c.JWTAudience}
}

// PasswordResetTTL is the window a reset token stays redeemable.
func (c *Config) PasswordResetTTL() time.Duration {
	return time.Duration(c.PasswordResetTTLHrs) * time.Hour
}
