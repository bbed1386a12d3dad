package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds path and logging overrides from the environment.
type EnvConfig struct {
	ConfigPath string `env:"TOMETRIC_CONFIG"`
	DBPath     string `env:"TOMETRIC_DB"`
	FactsPath  string `env:"TOMETRIC_FACTS"`
	LogPath    string `env:"TOMETRIC_LOG"`
	LogLevel   string `env:"TOMETRIC_LOG_LEVEL" envDefault:"warn"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads EnvConfig and fills unset paths with XDG defaults.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := ParseEnv(&cfg); err != nil {
		return EnvConfig{}, err
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfigPath()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.FactsPath == "" {
		cfg.FactsPath = DefaultFactsPath()
	}
	return cfg, nil
}
