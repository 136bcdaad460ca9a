// Package cli implements layoutctl, the operator tool for template documents
// and persisted dashboard layouts.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
)

type layoutReader interface {
	LoadDurable(ctx context.Context, uid string) (services.DurableLayout, error)
}

type layoutAdmin interface {
	Clear(ctx context.Context, owner string) (int, error)
	Owners(ctx context.Context) ([]string, error)
}

// Backend is an opened durable layout database.
type Backend struct {
	Layout layoutReader
	Admin  layoutAdmin
	Close  func() error
}

// Target names the durable scope to open.
type Target struct {
	Backend   string
	Path      string
	ProjectID string
}

// Opener opens the durable scope named by t.
type Opener func(ctx context.Context, t Target) (*Backend, error)

type app struct {
	open   Opener
	target Target
}

// NewRootCmd creates the top-level "layoutctl" command. Flag defaults come
// from cfg so the tool reads the same environment as the API.
func NewRootCmd(cfg *config.Config, open Opener) *cobra.Command {
	a := &app{open: open}
	root := &cobra.Command{
		Use:           "layoutctl",
		Short:         "Inspect dashboard templates and persisted layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.target.Backend, "backend", cfg.DurableBackend, "durable backend: firestore or sqlite")
	flags.StringVar(&a.target.Path, "db", cfg.SQLitePath, "path to the SQLite layout database")
	flags.StringVar(&a.target.ProjectID, "project", cfg.ProjectID, "GCP project for the firestore backend")

	root.AddCommand(
		newProjectCmd(),
		newOwnersCmd(a),
		newInspectCmd(a),
		newResetCmd(a),
	)
	return root
}

// withBackend opens the database for the length of fn.
func (a *app) withBackend(ctx context.Context, fn func(*Backend) error) error {
	b, err := a.open(ctx, a.target)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
