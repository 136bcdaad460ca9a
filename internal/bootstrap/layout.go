package bootstrap

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
	"github.com/GregMSThompson/dashboard-backend/internal/store"
	"github.com/GregMSThompson/dashboard-backend/internal/template"
)

// InitLayoutStore builds the layout store over the configured backends. The
// clients it needs must already be open on bs.
func InitLayoutStore(ctx context.Context, cfg *config.Config, bs *Bootstrap) (services.LayoutStore, error) {
	var mem *store.MemoryStore
	memory := func() *store.MemoryStore {
		if mem == nil {
			mem = store.NewMemoryStore(cfg.SessionTTL)
		}
		return mem
	}

	var durable interface {
		Get(ctx context.Context, owner, key string) ([]byte, error)
		Put(ctx context.Context, owner, key string, payload []byte) error
	}
	switch cfg.DurableBackend {
	case config.BackendFirestore:
		durable = store.NewDashboardStore(bs.Firestore)
	case config.BackendSQLite:
		s, err := store.NewSQLiteLayoutStore(ctx, bs.SQLite)
		if err != nil {
			return nil, err
		}
		durable = s
	default:
		durable = memory()
	}

	var session interface {
		Get(ctx context.Context, owner, sessionID, key string) ([]byte, error)
		Put(ctx context.Context, owner, sessionID, key string, payload []byte) error
	}
	switch cfg.SessionBackend {
	case config.BackendRedis:
		session = store.NewRedisSessionStore(bs.Redis, cfg.SessionTTL)
	default:
		session = memory().Session()
	}

	return services.NewLayoutStore(durable, session), nil
}

// InitTemplates serves the document at path and keeps it current, or the
// built-in document when path is empty.
func InitTemplates(ctx context.Context, path string, log *slog.Logger) (*template.Source, *template.Watcher, error) {
	if path == "" {
		log.Info("no template path configured, using built-in document")
		return template.NewStaticSource(template.Default()), nil, nil
	}
	w, src, err := template.NewWatcher(path, log)
	if err != nil {
		return nil, nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, nil, err
	}
	return src, w, nil
}

