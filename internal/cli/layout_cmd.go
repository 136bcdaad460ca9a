package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

func newOwnersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "owners",
		Short: "List users with a persisted layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd.Context(), func(b *Backend) error {
				owners, err := b.Admin.Owners(cmd.Context())
				if err != nil {
					return err
				}
				if len(owners) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No layouts found.")
					return nil
				}
				for _, o := range owners {
					fmt.Fprintln(cmd.OutOrStdout(), o)
				}
				return nil
			})
		},
	}
}

type durableView struct {
	UID           string                         `json:"uid"`
	Cards         []models.AnalyticsCard         `json:"cards"`
	Geometry      map[string]models.CardGeometry `json:"geometry"`
	LegacyDropped int                            `json:"legacyDropped,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect UID",
		Short: "Print a user's persisted cards and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd.Context(), func(b *Backend) error {
				layout, err := b.Layout.LoadDurable(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				view := durableView{
					UID:           args[0],
					Cards:         layout.Cards,
					Geometry:      layout.Geometry,
					LegacyDropped: layout.LegacyDropped,
				}
				if view.Cards == nil {
					view.Cards = []models.AnalyticsCard{}
				}
				return writeJSON(cmd.OutOrStdout(), view)
			})
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset UID",
		Short: "Delete a user's persisted cards and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset %s without --yes", args[0])
			}
			return a.withBackend(cmd.Context(), func(b *Backend) error {
				n, err := b.Admin.Clear(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s) for %s.\n", n, args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
