// Package service is the single owner of the loaded Dataset and both caches.
// Every operation is total: failures become zero values, a false "found"
// flag or fallback text, and are logged in their category.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"enemyintel/internal/advisory"
	"enemyintel/internal/dataset"
	"enemyintel/internal/ingest"
	"enemyintel/internal/logging"
	"enemyintel/internal/query"
	"enemyintel/internal/sheet"
	"enemyintel/internal/stats"
)

// Options wires a Service.
type Options struct {
	// WorkbookPath is the tabular source.
	WorkbookPath string
	// Cache stores the normalized Dataset; nil disables it.
	Cache *dataset.Cache
	// Loader reads the workbook; nil means all eight levels.
	Loader *ingest.Loader
	// Advisory memoizes reasoning text; nil serves FallbackText always.
	Advisory *advisory.Cache
}

// snapshot is the immutable state readers see. Reloads swap it whole.
type snapshot struct {
	data     *dataset.Dataset
	engine   *query.Engine
	source   string
	loadedAt time.Time
}

// Service owns the Dataset and both caches.
type Service struct {
	workbook string
	cache    *dataset.Cache
	loader   *ingest.Loader
	advice   *advisory.Cache

	loadMu sync.Mutex
	state  atomic.Pointer[snapshot]
}

// New returns a Service holding an empty Dataset. Call Load before serving.
func New(opts Options) *Service {
	loader := opts.Loader
	if loader == nil {
		loader = ingest.NewLoader(nil)
	}
	advice := opts.Advisory
	if advice == nil {
		advice, _ = advisory.New(context.Background(), nil, nil)
	}
	s := &Service{
		workbook: opts.WorkbookPath,
		cache:    opts.Cache,
		loader:   loader,
		advice:   advice,
	}
	s.install(dataset.New(), SourceNone)
	return s
}

// Load sources.
const (
	SourceNone     = "none"
	SourceCache    = "cache"
	SourceWorkbook = "workbook"
)

// LoadReport describes one Load.
type LoadReport struct {
	Source      string              `json:"source"`
	Levels      []stats.Level       `json:"ng_levels"`
	Records     int                 `json:"enemies_loaded"`
	Diagnostics []ingest.Diagnostic `json:"-"`
	// SourceErr is set when the workbook could not be opened.
	SourceErr error `json:"-"`
}

func (s *Service) install(d *dataset.Dataset, source string) {
	s.state.Store(&snapshot{
		data:     d,
		engine:   query.NewEngine(d),
		source:   source,
		loadedAt: time.Now(),
	})
}

func (s *Service) current() *snapshot { return s.state.Load() }

// Load fills the Dataset. Unless force is set a readable dataset cache is
// used as-is; otherwise, or when the cache is missing or corrupt, the
// workbook is ingested and, if it produced any records, saved back to the
// cache. An unavailable workbook keeps whatever is already loaded; only a
// first load ends up with an empty Dataset.
func (s *Service) Load(force bool) LoadReport {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if !force && s.cache != nil {
		d, err := s.cache.Load()
		switch {
		case err == nil:
			s.install(d, SourceCache)
			datasetLoads.WithLabelValues(SourceCache).Inc()
			logging.Cache("loaded dataset from cache %s: %d records", s.cache.Path(), d.Len())
			return LoadReport{Source: SourceCache, Levels: d.Levels(), Records: d.Len()}
		case errors.Is(err, dataset.ErrCacheMissing):
			logging.CacheDebug("no dataset cache at %s", s.cache.Path())
		default:
			logging.CacheWarn("dataset cache unusable, re-ingesting: %v", err)
			if err := s.cache.Remove(); err != nil {
				logging.CacheWarn("failed to remove unusable cache: %v", err)
			}
		}
	}

	d, diags, err := s.loader.LoadWorkbook(s.workbook)
	report := LoadReport{Source: SourceWorkbook, Diagnostics: diags, SourceErr: err}
	if err != nil {
		datasetLoads.WithLabelValues("unavailable").Inc()
		if prev := s.current(); errors.Is(err, sheet.ErrSourceUnavailable) && prev.source != SourceNone {
			logging.IngestError("workbook unavailable, keeping loaded dataset: %v", err)
			report.Source = prev.source
			report.Levels = prev.data.Levels()
			report.Records = prev.data.Len()
			return report
		}
	} else {
		datasetLoads.WithLabelValues(SourceWorkbook).Inc()
	}
	for _, diag := range diags {
		logging.IngestWarn("level skipped: %s", diag)
	}

	if !d.Empty() && s.cache != nil {
		if err := s.cache.Save(d); err != nil {
			logging.CacheWarn("failed to save dataset cache: %v", err)
		} else {
			logging.Cache("saved dataset cache %s", s.cache.Path())
		}
	}
	s.install(d, SourceWorkbook)
	report.Levels = d.Levels()
	report.Records = d.Len()
	logging.Ingest("dataset ready: %d records across %d levels", report.Records, len(report.Levels))
	return report
}

// ReloadResult is what a forced reload reports.
type ReloadResult struct {
	Status        string        `json:"status"`
	EnemiesLoaded int           `json:"enemies_loaded"`
	NGLevels      []stats.Level `json:"ng_levels"`
	Error         string        `json:"error,omitempty"`
}

// Reload re-ingests the workbook, bypassing the dataset cache. If the
// workbook cannot be opened the loaded data is kept and Error says why.
func (s *Service) Reload() ReloadResult {
	r := s.Load(true)
	res := ReloadResult{Status: "reloaded", EnemiesLoaded: r.Records, NGLevels: nonNil(r.Levels)}
	if r.SourceErr != nil {
		res.Error = r.SourceErr.Error()
	}
	return res
}

// Health is a liveness summary.
type Health struct {
	Status       string        `json:"status"`
	DataLoaded   bool          `json:"data_loaded"`
	NGLevels     []stats.Level `json:"ng_levels"`
	TotalEnemies int           `json:"total_enemies"`
	Source       string        `json:"source"`
}

func (s *Service) Health() Health {
	snap := s.current()
	levels := snap.data.Levels()
	return Health{
		Status:       "healthy",
		DataLoaded:   len(levels) > 0,
		NGLevels:     nonNil(levels),
		TotalEnemies: snap.data.Len(),
		Source:       snap.source,
	}
}

// Advisory exposes the advisory cache.
func (s *Service) Advisory() *advisory.Cache { return s.advice }

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
