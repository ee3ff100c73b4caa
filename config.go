package pointeuse

import (
	"github.com/hazyhaar/pointeuse/internal/config"
)

// Config is the top-level pointeuse configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// TimeoutConfig bounds every wait in the run.
type TimeoutConfig = config.TimeoutConfig

// LabelConfig overrides the dropdown display text per punch kind.
type LabelConfig = config.LabelConfig

// Slot is one scheduled punch in YAML form.
type Slot = config.Slot

// SinkConfig defines an output backend.
type SinkConfig = config.SinkConfig

// Secrets carries the credentials read from the environment.
type Secrets = config.Secrets

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// SecretsFromEnv reads credentials from POINTEUSE_* environment variables.
func SecretsFromEnv() Secrets {
	return config.SecretsFromEnv()
}
