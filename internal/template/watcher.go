package template

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// Source holds the current template snapshot. Each successful reload stores a
// new pointer; readers compare pointers to detect a change.
type Source struct {
	current atomic.Pointer[models.TemplateConfig]
}

// NewStaticSource serves one snapshot forever.
func NewStaticSource(cfg *models.TemplateConfig) *Source {
	s := &Source{}
	s.current.Store(cfg)
	return s
}

func (s *Source) Current() *models.TemplateConfig {
	return s.current.Load()
}

func (s *Source) swap(cfg *models.TemplateConfig) {
	s.current.Store(cfg)
}

// Watcher reloads a template file into a Source whenever the file changes.
// The parent directory is watched so editors that replace the file by rename
// are picked up too.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	source   *Source
	path     string
	log      *slog.Logger
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
}

// NewWatcher loads path once and returns a watcher that keeps the returned
// Source current after Start.
func NewWatcher(path string, log *slog.Logger) (*Watcher, *Source, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	src := NewStaticSource(cfg)
	w := &Watcher{
		watcher:  fw,
		source:   src,
		path:     path,
		log:      log,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	return w, src, nil
}

// ErrWatcherStopped is returned by Start once Stop has been called.
var ErrWatcherStopped = errors.New("template watcher stopped")

// Start begins watching. It does not block. A Watcher is one-shot: after Stop
// it cannot be started again.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.stopped = true
		w.mu.Unlock()
		w.close()
		return err
	}
	w.log.Info("watching template", "path", w.path)

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop, waits for it to exit and releases the file
// watch. It is safe to call more than once and on a watcher never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	w.close()
}

func (w *Watcher) close() {
	if err := w.watcher.Close(); err != nil {
		w.log.Error("failed to close template watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

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
			w.log.Error("template watcher error", "error", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// flush reloads once the file has been quiet for the debounce window. A
// document that fails to parse leaves the previous snapshot in place.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("keeping previous template", "path", w.path, "error", err)
		return
	}
	w.source.swap(cfg)
	w.log.Info("template reloaded", "path", w.path)
}
