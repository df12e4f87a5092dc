package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"enemyintel/internal/stats"
)

// Config holds all enemyintel configuration.
type Config struct {
	// Data sources and cache artifacts
	Data DataConfig `yaml:"data"`

	// Reasoning service
	LLM LLMConfig `yaml:"llm"`

	// HTTP adapter
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the workbook and the two cache artifacts. Relative
// file names are resolved against Dir.
type DataConfig struct {
	Dir          string   `yaml:"dir"`
	Workbook     string   `yaml:"workbook"`
	DatasetCache string   `yaml:"dataset_cache"`
	AdvisoryDB   string   `yaml:"advisory_db"`
	Levels       []string `yaml:"levels,omitempty"` // empty = all eight
	Watch        bool     `yaml:"watch"`
}

// LLMConfig configures the reasoning service client.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // anthropic, gemini, none
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	MaxTokens int    `yaml:"max_tokens"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:          "data",
			Workbook:     "elden_ring_data.xlsx",
			DatasetCache: "elden_cache.zst",
			AdvisoryDB:   "advisory.db",
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-5-20250929",
			Timeout:   "90s",
			MaxTokens: 500,
		},
		Server: ServerConfig{
			Addr:         ":5001",
			ReadTimeout:  "15s",
			WriteTimeout: "120s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "anthropic"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
		if strings.HasPrefix(c.LLM.Model, "claude") {
			c.LLM.Model = ""
		}
	}
	if model := os.Getenv("CLAUDE_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if model := os.Getenv("ENEMYINTEL_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if path := os.Getenv("ENEMYINTEL_DATA_FILE"); path != "" {
		c.Data.Workbook = path
	}
	if dir := os.Getenv("ENEMYINTEL_CACHE_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
}

func (c *Config) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || c.Data.Dir == "" {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// WorkbookPath is the resolved workbook location.
func (c *Config) WorkbookPath() string { return c.resolve(c.Data.Workbook) }

// DatasetCachePath is the resolved dataset cache location.
func (c *Config) DatasetCachePath() string { return c.resolve(c.Data.DatasetCache) }

// AdvisoryDBPath is the resolved advisory store location.
func (c *Config) AdvisoryDBPath() string { return c.resolve(c.Data.AdvisoryDB) }

// GetLevels returns the configured levels, or all of them.
func (c *Config) GetLevels() []stats.Level {
	if len(c.Data.Levels) == 0 {
		return stats.Levels
	}
	out := make([]stats.Level, 0, len(c.Data.Levels))
	for _, raw := range c.Data.Levels {
		if l, ok := stats.ParseLevel(raw); ok {
			out = append(out, l)
		}
	}
	return out
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetLLMTimeout returns the reasoning call timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 90*time.Second)
}

// GetReadTimeout returns the HTTP read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout. It must outlast an
// advisory call.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 120*time.Second)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "anthropic", "gemini", "none", "":
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	if c.Data.Workbook == "" {
		return fmt.Errorf("data.workbook is required")
	}
	if c.Data.DatasetCache == "" {
		return fmt.Errorf("data.dataset_cache is required")
	}
	for _, raw := range c.Data.Levels {
		if _, ok := stats.ParseLevel(raw); !ok {
			return fmt.Errorf("unknown level %q in data.levels", raw)
		}
	}
	return nil
}
