package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
	"github.com/GregMSThompson/dashboard-backend/internal/template"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	SQLite    *sql.DB
	Redis     *redis.Client
	Layout    services.LayoutStore
	Templates *template.Source

	watcher *template.Watcher
	cancel  context.CancelFunc
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx, cancel := context.WithCancel(context.Background())
	bs := &Bootstrap{cancel: cancel}

	bs.Log = logger.New(cfg.LogLevel, logger.HandlerFor(cfg.LogFormat))
	if err = cfg.Validate(); err != nil {
		return bs, err
	}

	if cfg.DurableBackend == config.BackendFirestore {
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	if cfg.DurableBackend == config.BackendSQLite {
		bs.SQLite, err = OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return bs, err
		}
	}
	if cfg.SessionBackend == config.BackendRedis {
		password, err := RedisPassword(applicationCtx, cfg)
		if err != nil {
			return bs, err
		}
		bs.Redis, err = InitRedis(applicationCtx, cfg.RedisAddr, password, cfg.RedisDB)
		if err != nil {
			return bs, err
		}
	}
	if !cfg.AuthDisabled {
		bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}

	bs.Layout, err = InitLayoutStore(applicationCtx, cfg, bs)
	if err != nil {
		return bs, err
	}

	bs.Templates, bs.watcher, err = InitTemplates(applicationCtx, cfg.TemplatePath, bs.Log)
	if err != nil {
		return bs, err
	}

	bs.Log.Info("bootstrap complete",
		"durable_backend", cfg.DurableBackend,
		"session_backend", cfg.SessionBackend,
		"auth_disabled", cfg.AuthDisabled,
	)
	return bs, nil
}

// Close releases everything Run opened. It is safe on a partial Bootstrap.
func (bs *Bootstrap) Close() {
	if bs == nil {
		return
	}
	if bs.watcher != nil {
		bs.watcher.Stop()
	}
	if bs.cancel != nil {
		bs.cancel()
	}
	if bs.Redis != nil {
		if err := bs.Redis.Close(); err != nil {
			bs.Log.Error("failed to close redis", "error", err)
		}
	}
	if bs.SQLite != nil {
		if err := bs.SQLite.Close(); err != nil {
			bs.Log.Error("failed to close sqlite", "error", err)
		}
	}
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Error("failed to close firestore", "error", err)
		}
	}
}
