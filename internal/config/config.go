// Package config loads asyncgen settings from defaults, the global and local
// config files and ASYNCGEN_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eventforge/asyncgen/internal/discovery"
	"github.com/eventforge/asyncgen/internal/typemap"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "ASYNCGEN_"

// LocalConfigFile is the default local config path.
const LocalConfigFile = ".asyncgen.json"

// Configuration represents the asyncgen configuration.
type Configuration struct {
	OutputFormat    string            `koanf:"output_format" validate:"oneof=text json dump"`
	CollisionPolicy string            `koanf:"collision_policy" validate:"oneof=error suffix first-wins"`
	ShowProgress    bool              `koanf:"show_progress"`    // Show a spinner while the pipeline runs
	FailOnWarnings  bool              `koanf:"fail_on_warnings"` // Treat validation warnings as errors
	MaxFiles        int               `koanf:"max_files" validate:"min=1,max=10000"`
	Types           map[string]string `koanf:"types"` // Target type-name overrides, keyed like typemap.TargetKeys
}

// GlobalConfigPath returns ~/.asyncgen/config.json, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".asyncgen", "config.json")
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.CollisionPolicy = strings.ToLower(strings.TrimSpace(cfg.CollisionPolicy))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the type overrides.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := c.Target(); err != nil {
		return fmt.Errorf("config validation failed: types: %w", err)
	}
	return nil
}

// Policy returns the parsed collision policy.
func (c *Configuration) Policy() (discovery.CollisionPolicy, error) {
	return discovery.ParseCollisionPolicy(c.CollisionPolicy)
}

// Target returns the default type vocabulary with the configured overrides.
func (c *Configuration) Target() (typemap.Target, error) {
	return typemap.DefaultTarget().WithOverrides(c.Types)
}

// envTransform converts environment variable names to config keys.
// Example: ASYNCGEN_MAX_FILES -> max_files, ASYNCGEN_TYPES_DECIMAL -> types.decimal
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "types_"); ok {
		return "types." + rest
	}
	return key
}
