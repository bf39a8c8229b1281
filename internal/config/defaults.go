package config

import "github.com/eventforge/asyncgen/internal/loader"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"output_format":    string(OutputFormatText),
		"collision_policy": "error",
		"show_progress":    true,
		"fail_on_warnings": false,
		"max_files":        loader.DefaultMaxFiles,
	}
}
