package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/conversion"
	"github.com/FireLemons/ToMetric/internal/model"
)

var (
	// ErrUnknownMeasurement is returned for a category that does not exist.
	ErrUnknownMeasurement = errors.New("config: unknown measurement")
	// ErrUnknownUnit is returned for a unit key outside its category.
	ErrUnknownUnit = errors.New("config: unknown unit")
	// ErrInvalidOptions is returned when resolved options are out of range.
	ErrInvalidOptions = errors.New("config: invalid options")
)

// Default option values.
const (
	DefaultPrecision         = 10.0
	DefaultLevelUpQuota      = 2
	DefaultDifficulty        = 5.0
	DefaultDifficultyStep    = 5.0
	DefaultSecondsPerProblem = 30
)

// Defaults returns the built-in options: every unit on, no odd conversions.
func Defaults() model.Options {
	return model.Options{
		Measurements: catalog.DefaultMeasurements(),
		General: model.General{
			Precision: DefaultPrecision,
		},
		Game: model.Game{
			SecondsPerProblem: DefaultSecondsPerProblem,
			LevelUpQuota:      DefaultLevelUpQuota,
			Difficulty:        DefaultDifficulty,
			DifficultyStep:    DefaultDifficultyStep,
		},
	}
}

// Apply merges set values of cfg onto base. base is not modified.
func Apply(base model.Options, cfg FileConfig) (model.Options, error) {
	out := base
	out.Measurements = cloneMeasurements(base.Measurements)

	setFloat(&out.General.Precision, cfg.General.Precision)
	setBool(&out.General.OddConversions, cfg.General.OddConversions)
	setBool(&out.General.Scientific, cfg.General.Scientific)

	setBool(&out.Game.Timed, cfg.Game.Timed)
	setInt(&out.Game.SecondsPerProblem, cfg.Game.SecondsPerProblem)
	setInt(&out.Game.LevelUpQuota, cfg.Game.LevelUpQuota)
	setFloat(&out.Game.Difficulty, cfg.Game.Difficulty)
	setFloat(&out.Game.DifficultyStep, cfg.Game.DifficultyStep)

	names := make([]string, 0, len(cfg.Measurements))
	for name := range cfg.Measurements {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !catalog.HasCategory(name) {
			return model.Options{}, fmt.Errorf("%w: %q", ErrUnknownMeasurement, name)
		}
		mc := cfg.Measurements[name]
		m := out.Measurements[name]
		if m.Customary == nil {
			m.Customary = map[string]bool{}
		}
		if m.Metric == nil {
			m.Metric = map[string]bool{}
		}
		setBool(&m.On, mc.On)
		customary, metric := catalog.Units(conversion.Category(name))
		if err := applyUnits(name, m.Customary, mc.Customary, customary); err != nil {
			return model.Options{}, err
		}
		if err := applyUnits(name, m.Metric, mc.Metric, metric); err != nil {
			return model.Options{}, err
		}
		out.Measurements[name] = m
	}
	return out, nil
}

func applyUnits(category string, target map[string]bool, units map[string]UnitConfig, known []catalog.Unit) error {
	valid := make(map[string]struct{}, len(known))
	for _, u := range known {
		valid[u.Key] = struct{}{}
	}
	for key, uc := range units {
		if _, ok := valid[key]; !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownUnit, category, key)
		}
		if uc.On != nil {
			target[key] = *uc.On
		}
	}
	return nil
}

// Validate checks option ranges.
func Validate(opts model.Options) error {
	switch {
	case !(opts.General.Precision > 0):
		return fmt.Errorf("%w: precision must be > 0", ErrInvalidOptions)
	case opts.Game.SecondsPerProblem < 1:
		return fmt.Errorf("%w: seconds-per-problem must be >= 1", ErrInvalidOptions)
	case opts.Game.LevelUpQuota < 1:
		return fmt.Errorf("%w: level-up-quota must be >= 1", ErrInvalidOptions)
	case !(opts.Game.Difficulty >= 1):
		return fmt.Errorf("%w: difficulty must be >= 1", ErrInvalidOptions)
	case !(opts.Game.DifficultyStep > 0):
		return fmt.Errorf("%w: difficulty-step must be > 0", ErrInvalidOptions)
	}
	return nil
}

// Resolve loads the config file at path, merges it onto the defaults and
// validates the result.
func Resolve(path string) (model.Options, error) {
	fileCfg, err := LoadConfig(path)
	if err != nil {
		return model.Options{}, err
	}
	opts, err := Apply(Defaults(), fileCfg)
	if err != nil {
		return model.Options{}, err
	}
	if err := Validate(opts); err != nil {
		return model.Options{}, err
	}
	return opts, nil
}

func cloneMeasurements(in map[string]model.Measurement) map[string]model.Measurement {
	out := make(map[string]model.Measurement, len(in))
	for name, m := range in {
		c := model.Measurement{
			On:        m.On,
			Customary: make(map[string]bool, len(m.Customary)),
			Metric:    make(map[string]bool, len(m.Metric)),
		}
		for k, v := range m.Customary {
			c.Customary[k] = v
		}
		for k, v := range m.Metric {
			c.Metric[k] = v
		}
		out[name] = c
	}
	return out
}

func setBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func setInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}

func setFloat(target *float64, value *float64) {
	if value != nil {
		*target = *value
	}
}
