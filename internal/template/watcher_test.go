package template

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

func writeDoc(t *testing.T, path, title string) {
	t.Helper()
	doc := "dashboard:\n  analytics:\n    items:\n      - {id: chart_1, title: " + title + ", enabled: true}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWatcher_SwapsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	writeDoc(t, path, "First")

	w, src, err := NewWatcher(path, slog.New(logger.NewTestHandler(slog.LevelInfo)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.debounce = 20 * time.Millisecond
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	before := src.Current()
	if before.Dashboard.Analytics.Items[0].Title != "First" {
		t.Fatalf("unexpected initial title %q", before.Dashboard.Analytics.Items[0].Title)
	}

	writeDoc(t, path, "Second")
	ok := waitFor(t, func() bool {
		cur := src.Current()
		return cur != before && cur.Dashboard.Analytics.Items[0].Title == "Second"
	})
	if !ok {
		t.Fatal("template was not reloaded")
	}
}

func TestWatcher_KeepsSnapshotOnBadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.json")
	if err := os.WriteFile(path, []byte(`{"header":{"companyName":"Acme"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	w, src, err := NewWatcher(path, slog.New(logger.NewTestHandler(slog.LevelInfo)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.debounce = 20 * time.Millisecond
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	before := src.Current()
	if err := os.WriteFile(path, []byte(`{"header":`), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if src.Current() != before {
		t.Error("expected previous snapshot to stay after a bad write")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	writeDoc(t, path, "Only")
	w, _, err := NewWatcher(path, slog.New(logger.NewTestHandler(slog.LevelInfo)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_StartAfterStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	writeDoc(t, path, "Only")
	w, _, err := NewWatcher(path, slog.New(logger.NewTestHandler(slog.LevelInfo)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Stop()

	if err := w.Start(context.Background()); !errors.Is(err, ErrWatcherStopped) {
		t.Fatalf("expected ErrWatcherStopped, got %v", err)
	}
	w.Stop()
}

func TestWatcher_StopWithoutStartReleasesWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	writeDoc(t, path, "Only")
	w, _, err := NewWatcher(path, slog.New(logger.NewTestHandler(slog.LevelInfo)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Stop()

	if err := w.watcher.Add(filepath.Dir(path)); !errors.Is(err, fsnotify.ErrClosed) {
		t.Errorf("expected closed fsnotify watcher, got %v", err)
	}
	if err := w.Start(context.Background()); !errors.Is(err, ErrWatcherStopped) {
		t.Errorf("expected ErrWatcherStopped, got %v", err)
	}
}

func TestNewWatcher_MissingFile(t *testing.T) {
	if _, _, err := NewWatcher(filepath.Join(t.TempDir(), "nope.yaml"), slog.Default()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
