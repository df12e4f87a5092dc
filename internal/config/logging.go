package config

import "enemyintel/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, text
	File       string          `yaml:"file"`       // empty = stderr
	DebugMode  bool            `yaml:"debug_mode"` // forces debug level
	Categories map[string]bool `yaml:"categories"` // per-category toggles
}

// Options converts the section for logging.Initialize.
func (c LoggingConfig) Options() logging.Options {
	return logging.Options{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		DebugMode:  c.DebugMode,
		Categories: c.Categories,
	}
}
