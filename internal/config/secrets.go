package config

import (
	"fmt"
	"os"
)

// Secrets are the credentials read from the environment (optionally seeded
// from a .env file by the caller). They never appear in the YAML config.
type Secrets struct {
	Username   string
	Password   string
	TOTPSecret string
}

// SecretsFromEnv reads POINTEUSE_USERNAME, POINTEUSE_PASSWORD and
// POINTEUSE_TOTP_SECRET.
func SecretsFromEnv() Secrets {
	return Secrets{
		Username:   os.Getenv("POINTEUSE_USERNAME"),
		Password:   os.Getenv("POINTEUSE_PASSWORD"),
		TOTPSecret: os.Getenv("POINTEUSE_TOTP_SECRET"),
	}
}

// Validate reports missing required credentials. The TOTP secret is not
// required at startup: some tenants never present the code step, and the
// generator fails loudly if the step appears with no secret configured.
func (s Secrets) Validate() error {
	if s.Username == "" {
		return fmt.Errorf("config: POINTEUSE_USERNAME is required")
	}
	if s.Password == "" {
		return fmt.Errorf("config: POINTEUSE_PASSWORD is required")
	}
	return nil
}

// ApplyEnv overlays optional per-run environment overrides on the file
// configuration.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("POINTEUSE_USER_ID"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("POINTEUSE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
}
