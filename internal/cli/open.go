package cli

import (
	"context"
	"fmt"

	"github.com/GregMSThompson/dashboard-backend/internal/bootstrap"
	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
	"github.com/GregMSThompson/dashboard-backend/internal/store"
)

// Open connects to the durable scope the API would use for t.
func Open(ctx context.Context, t Target) (*Backend, error) {
	switch t.Backend {
	case config.BackendSQLite:
		return openSQLite(ctx, t.Path)
	case config.BackendFirestore:
		return openFirestore(ctx, t.ProjectID)
	default:
		return nil, fmt.Errorf("backend %q has no persisted layouts to inspect", t.Backend)
	}
}

func openSQLite(ctx context.Context, path string) (*Backend, error) {
	db, err := bootstrap.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	kv, err := store.NewSQLiteLayoutStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Backend{
		Layout: services.NewLayoutStore(kv, nil),
		Admin:  kv,
		Close:  db.Close,
	}, nil
}

func openFirestore(ctx context.Context, projectID string) (*Backend, error) {
	client, err := bootstrap.InitFirestore(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore: %w", err)
	}
	kv := store.NewDashboardStore(client)
	return &Backend{
		Layout: services.NewLayoutStore(kv, nil),
		Admin:  kv,
		Close:  client.Close,
	}, nil
}
