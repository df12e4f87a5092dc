// Package logging provides config-driven categorized logging for enemyintel.
// Each category is a named zap logger sharing one core; categories can be
// switched off individually, in which case Get returns a no-op logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config, shutdown
	CategoryIngest   Category = "ingest"   // Workbook reading and normalization
	CategoryCache    Category = "cache"    // Dataset cache artifact
	CategoryQuery    Category = "query"    // Search, details, region aggregation
	CategoryAdvisory Category = "advisory" // Advisory cache and prompts
	CategoryReasoner Category = "reasoner" // Reasoning-service calls
	CategoryAPI      Category = "api"      // HTTP adapter
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategoryBoot, CategoryIngest, CategoryCache, CategoryQuery,
	CategoryAdvisory, CategoryReasoner, CategoryAPI,
}

// Options mirrors config.LoggingConfig so this package stays import-free of
// config.
type Options struct {
	Level      string          // debug|info|warn|error
	Format     string          // json|text
	File       string          // optional; stderr when empty
	DebugMode  bool            // forces debug level
	Categories map[string]bool // missing entries are enabled
}

// Logger is a printf-style category logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	opts       Options
	loggers    = make(map[Category]*Logger)
	flushPrev  func() error
	levelNames = map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
)

// Initialize builds the shared zap core from o. It may be called again to
// reconfigure; previously returned loggers keep their old core.
func Initialize(o Options) error {
	level, ok := levelNames[o.Level]
	if !ok {
		if o.Level != "" {
			return fmt.Errorf("unknown log level %q", o.Level)
		}
		level = zapcore.InfoLevel
	}
	if o.DebugMode {
		level = zapcore.DebugLevel
	}

	var cfg zap.Config
	switch o.Format {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "text":
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = false
	default:
		return fmt.Errorf("unknown log format %q", o.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{o.File}
		cfg.ErrorOutputPaths = []string{o.File}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	replace(l, o)
	Get(CategoryBoot).Debug("logging initialized: level=%s format=%s file=%q", level, o.Format, o.File)
	return nil
}

// SetBase installs an already-built zap logger, e.g. zap.NewNop() or
// zaptest in tests.
func SetBase(l *zap.Logger) {
	replace(l, Options{})
}

func replace(l *zap.Logger, o Options) {
	mu.Lock()
	defer mu.Unlock()
	if flushPrev != nil {
		_ = flushPrev()
	}
	base = l
	opts = o
	loggers = make(map[Category]*Logger)
	flushPrev = l.Sync
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) a logger for the given category. A disabled
// category gets a no-op logger.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{category: category, sugar: base.Named(string(category)).Sugar()}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a logger carrying structured key-value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// =============================================================================
// CONVENIENCE FUNCTIONS - no-ops if the category is disabled
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Ingest(format string, args ...interface{})      { Get(CategoryIngest).Info(format, args...) }
func IngestDebug(format string, args ...interface{}) { Get(CategoryIngest).Debug(format, args...) }
func IngestWarn(format string, args ...interface{})  { Get(CategoryIngest).Warn(format, args...) }
func IngestError(format string, args ...interface{}) { Get(CategoryIngest).Error(format, args...) }

func Cache(format string, args ...interface{})      { Get(CategoryCache).Info(format, args...) }
func CacheDebug(format string, args ...interface{}) { Get(CategoryCache).Debug(format, args...) }
func CacheWarn(format string, args ...interface{})  { Get(CategoryCache).Warn(format, args...) }

func QueryDebug(format string, args ...interface{}) { Get(CategoryQuery).Debug(format, args...) }

func Advisory(format string, args ...interface{})      { Get(CategoryAdvisory).Info(format, args...) }
func AdvisoryDebug(format string, args ...interface{}) { Get(CategoryAdvisory).Debug(format, args...) }
func AdvisoryError(format string, args ...interface{}) { Get(CategoryAdvisory).Error(format, args...) }

func Reasoner(format string, args ...interface{})      { Get(CategoryReasoner).Info(format, args...) }
func ReasonerDebug(format string, args ...interface{}) { Get(CategoryReasoner).Debug(format, args...) }
func ReasonerWarn(format string, args ...interface{})  { Get(CategoryReasoner).Warn(format, args...) }

func API(format string, args ...interface{})      { Get(CategoryAPI).Info(format, args...) }
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Error(format, args...) }
