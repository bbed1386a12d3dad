package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestResolveMergesFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
[general]
precision = 5.0
odd-conversions = true

[game]
timed = true
seconds-per-problem = 20

[measurements.temperature]
on = false

[measurements.distance.metric.millimeters]
on = false
`)
	opts, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, opts.General.Precision)
	assert.True(t, opts.General.OddConversions)
	assert.False(t, opts.General.Scientific)
	assert.True(t, opts.Game.Timed)
	assert.Equal(t, 20, opts.Game.SecondsPerProblem)
	assert.Equal(t, DefaultLevelUpQuota, opts.Game.LevelUpQuota)
	assert.False(t, opts.Measurements["temperature"].On)
	assert.True(t, opts.Measurements["temperature"].Customary["fahrenheit"])
	assert.False(t, opts.Measurements["distance"].Metric["millimeters"])
	assert.True(t, opts.Measurements["distance"].Metric["meters"])
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeFile(t, "config.toml", "[general]\nprecison = 5.0\n")
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestApplyUnknownMeasurement(t *testing.T) {
	on := true
	_, err := Apply(Defaults(), FileConfig{Measurements: map[string]MeasurementConfig{
		"luminosity": {On: &on},
	}})
	assert.ErrorIs(t, err, ErrUnknownMeasurement)

	_, err = Apply(Defaults(), FileConfig{Measurements: map[string]MeasurementConfig{
		"mass": {Metric: map[string]UnitConfig{"stones": {On: &on}}},
	}})
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestApplyDoesNotMutateBase(t *testing.T) {
	base := Defaults()
	off := false
	_, err := Apply(base, FileConfig{Measurements: map[string]MeasurementConfig{
		"mass": {Metric: map[string]UnitConfig{"grams": {On: &off}}},
	}})
	require.NoError(t, err)
	assert.True(t, base.Measurements["mass"].Metric["grams"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FileConfig)
	}{
		{"precision", func(c *FileConfig) { c.General.Precision = ptr(0.0) }},
		{"seconds", func(c *FileConfig) { c.Game.SecondsPerProblem = ptr(0) }},
		{"quota", func(c *FileConfig) { c.Game.LevelUpQuota = ptr(0) }},
		{"difficulty", func(c *FileConfig) { c.Game.Difficulty = ptr(0.5) }},
		{"step", func(c *FileConfig) { c.Game.DifficultyStep = ptr(-1.0) }},
	}
	require.NoError(t, Validate(Defaults()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg FileConfig
			tt.mutate(&cfg)
			opts, err := Apply(Defaults(), cfg)
			require.NoError(t, err)
			assert.ErrorIs(t, Validate(opts), ErrInvalidOptions)
		})
	}
}

func TestParseOptionsJSON(t *testing.T) {
	raw := []byte(`{
  "measurements": {
    "distance": {
      "on": true,
      "displayText": "Distance",
      "img": "img/distance.jpg",
      "customary": {"inches": {"on": false, "name": "Inches"}},
      "metric": {"meters": {"on": true}}
    },
    "speed": {"on": false}
  },
  "general": {"oddConversions": true, "precision": 7.5}
}`)
	cfg, err := ParseOptionsJSON(raw)
	require.NoError(t, err)

	opts, err := Apply(Defaults(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 7.5, opts.General.Precision)
	assert.True(t, opts.General.OddConversions)
	assert.False(t, opts.Measurements["distance"].Customary["inches"])
	assert.False(t, opts.Measurements["speed"].On)
}

func TestParseOptionsJSONRejectsBadTypes(t *testing.T) {
	for _, raw := range []string{
		`{"general": {"precision": "ten"}}`,
		`{"general": {"precision": 0}}`,
		`{"measurements": {"mass": {"on": "yes"}}}`,
		`{"game": {"levelUpQuota": 0}}`,
		`not json`,
	} {
		_, err := ParseOptionsJSON([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidOptions, raw)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	opts := Defaults()
	opts.General.Scientific = true
	opts.Measurements["mass"].Customary["ounces"] = false

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	require.NoError(t, WriteConfig(path, FromOptions(opts)))

	got, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, opts, got)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("TOMETRIC_DB", "/tmp/x.db")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, filepath.Join("/cfg", "tometric", "config.toml"), cfg.ConfigPath)
	assert.Equal(t, filepath.Join("/cfg", "tometric", "facts.txt"), cfg.FactsPath)
}
