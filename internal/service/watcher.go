package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"enemyintel/internal/logging"
)

// DefaultDebounce is how long the workbook must stay quiet before a reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher force-reloads a Service when its workbook changes on disk. It
// watches the containing directory so editors that replace the file by
// rename are still seen.
type Watcher struct {
	mu       sync.RWMutex
	svc      *Service
	watcher  *fsnotify.Watcher
	dir      string
	name     string
	lastSeen time.Time // zero when nothing is pending
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventTime time.Time
	LastEventType string
}

// NewWatcher prepares a watcher for s's workbook. debounce <= 0 uses
// DefaultDebounce.
func NewWatcher(s *Service, debounce time.Duration) (*Watcher, error) {
	if s.workbook == "" {
		return nil, errors.New("no workbook path to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(s.workbook)
	if err != nil {
		abs = s.workbook
	}
	return &Watcher{
		svc:      s,
		watcher:  fw,
		dir:      filepath.Dir(abs),
		name:     filepath.Base(abs),
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Unlock()
		return err
	}
	w.running = true
	w.mu.Unlock()

	logging.Ingest("watching %s for changes", filepath.Join(w.dir, w.name))
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		logging.IngestError("watcher close: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 5)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.IngestError("watcher: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-tick.C:
			w.processSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != w.name {
		return
	}
	var kind string
	switch {
	case event.Has(fsnotify.Create):
		kind = "create"
	case event.Has(fsnotify.Write):
		kind = "modify"
	default:
		// Remove and Rename mean the workbook left; a file renamed onto
		// the workbook name arrives as Create.
		return
	}
	logging.IngestDebug("workbook %s event", kind)

	w.mu.Lock()
	now := time.Now()
	w.lastSeen = now
	w.stats.Events++
	w.stats.LastEventTime = now
	w.stats.LastEventType = kind
	w.mu.Unlock()
}

func (w *Watcher) processSettled() {
	w.mu.Lock()
	if w.lastSeen.IsZero() || time.Since(w.lastSeen) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.lastSeen = time.Time{}
	w.mu.Unlock()

	r := w.svc.Load(true)
	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()
	logging.Ingest("workbook changed, reloaded %d records", r.Records)
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}
