package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/FireLemons/ToMetric/internal/model"
)

const optionsSchemaURL = "schema://tometric/options.json"

// optionsSchema describes the options document saved by the web version.
// Presentation keys such as displayText or img are allowed and ignored.
const optionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "measurements": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "on": {"type": "boolean"},
          "customary": {"$ref": "#/$defs/units"},
          "metric": {"$ref": "#/$defs/units"}
        }
      }
    },
    "general": {
      "type": "object",
      "properties": {
        "oddConversions": {"type": "boolean"},
        "precision": {"type": "number", "exclusiveMinimum": 0},
        "scientific": {"type": "boolean"}
      }
    },
    "game": {
      "type": "object",
      "properties": {
        "timed": {"type": "boolean"},
        "secondsPerProblem": {"type": "integer", "minimum": 1},
        "levelUpQuota": {"type": "integer", "minimum": 1},
        "difficulty": {"type": "number", "minimum": 1},
        "difficultyStep": {"type": "number", "exclusiveMinimum": 0}
      },
      "additionalProperties": false
    }
  },
  "$defs": {
    "units": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "on": {"type": "boolean"}
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(optionsSchema), &doc); err != nil {
			compileErr = fmt.Errorf("parse options schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(optionsSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(optionsSchemaURL)
	})
	return compiledSchema, compileErr
}

// ParseOptionsJSON validates raw against the options schema and decodes it.
func ParseOptionsJSON(raw []byte) (FileConfig, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return FileConfig{}, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidOptions, err)
	}
	compiled, err := schema()
	if err != nil {
		return FileConfig{}, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return FileConfig{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	var cfg FileConfig
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return cfg, nil
}

// LoadOptionsJSON reads and validates an options document from path.
func LoadOptionsJSON(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read options: %w", err)
	}
	return ParseOptionsJSON(raw)
}

// FromOptions returns a FileConfig with every value of opts set.
func FromOptions(opts model.Options) FileConfig {
	cfg := FileConfig{
		General: GeneralConfig{
			Precision:      ptr(opts.General.Precision),
			OddConversions: ptr(opts.General.OddConversions),
			Scientific:     ptr(opts.General.Scientific),
		},
		Game: GameConfig{
			Timed:             ptr(opts.Game.Timed),
			SecondsPerProblem: ptr(opts.Game.SecondsPerProblem),
			LevelUpQuota:      ptr(opts.Game.LevelUpQuota),
			Difficulty:        ptr(opts.Game.Difficulty),
			DifficultyStep:    ptr(opts.Game.DifficultyStep),
		},
		Measurements: make(map[string]MeasurementConfig, len(opts.Measurements)),
	}
	for name, m := range opts.Measurements {
		mc := MeasurementConfig{
			On:        ptr(m.On),
			Customary: make(map[string]UnitConfig, len(m.Customary)),
			Metric:    make(map[string]UnitConfig, len(m.Metric)),
		}
		for k, v := range m.Customary {
			mc.Customary[k] = UnitConfig{On: ptr(v)}
		}
		for k, v := range m.Metric {
			mc.Metric[k] = UnitConfig{On: ptr(v)}
		}
		cfg.Measurements[name] = mc
	}
	return cfg
}

func ptr[T any](v T) *T { return &v }
