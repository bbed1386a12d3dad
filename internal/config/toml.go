// Package config provides configuration helpers and TOML parsing.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownKey is returned when the config file has keys nobody reads.
var ErrUnknownKey = errors.New("config: unknown key")

// FileConfig represents the TOML configuration file. The JSON tags follow
// the options document of the web version.
type FileConfig struct {
	General      GeneralConfig                `toml:"general" json:"general"`
	Game         GameConfig                   `toml:"game" json:"game"`
	Measurements map[string]MeasurementConfig `toml:"measurements,omitempty" json:"measurements,omitempty"`
}

// GeneralConfig maps general settings.
type GeneralConfig struct {
	Precision      *float64 `toml:"precision,omitempty" json:"precision,omitempty"`
	OddConversions *bool    `toml:"odd-conversions,omitempty" json:"oddConversions,omitempty"`
	Scientific     *bool    `toml:"scientific,omitempty" json:"scientific,omitempty"`
}

// GameConfig maps progression settings.
type GameConfig struct {
	Timed             *bool    `toml:"timed,omitempty" json:"timed,omitempty"`
	SecondsPerProblem *int     `toml:"seconds-per-problem,omitempty" json:"secondsPerProblem,omitempty"`
	LevelUpQuota      *int     `toml:"level-up-quota,omitempty" json:"levelUpQuota,omitempty"`
	Difficulty        *float64 `toml:"difficulty,omitempty" json:"difficulty,omitempty"`
	DifficultyStep    *float64 `toml:"difficulty-step,omitempty" json:"difficultyStep,omitempty"`
}

// MeasurementConfig enables a category and its units.
type MeasurementConfig struct {
	On        *bool                 `toml:"on,omitempty" json:"on,omitempty"`
	Customary map[string]UnitConfig `toml:"customary,omitempty" json:"customary,omitempty"`
	Metric    map[string]UnitConfig `toml:"metric,omitempty" json:"metric,omitempty"`
}

// UnitConfig enables a single unit.
type UnitConfig struct {
	On *bool `toml:"on,omitempty" json:"on,omitempty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return FileConfig{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// WriteConfig encodes cfg as TOML and atomically replaces path.
func WriteConfig(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := fmt.Fprintln(writer, "# tometric configuration"); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := toml.NewEncoder(writer).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
