package cli

import (
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
	"github.com/GregMSThompson/dashboard-backend/internal/template"
)

type projectionView struct {
	Cards       []models.AnalyticsCard         `json:"cards"`
	Geometry    map[string]models.CardGeometry `json:"geometry"`
	Departments []string                       `json:"departments"`
}

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project [FILE]",
		Short: "Print the cards and departments a template document projects",
		Long:  "Print the cards and departments a template document projects. Without FILE the built-in document is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl := template.Default()
			if len(args) == 1 {
				var err error
				if tmpl, err = template.Load(args[0]); err != nil {
					return err
				}
			}
			p := services.Project(tmpl)
			view := projectionView{
				Cards:       p.Cards,
				Geometry:    p.Geometry,
				Departments: p.Departments,
			}
			if view.Cards == nil {
				view.Cards = []models.AnalyticsCard{}
			}
			if view.Departments == nil {
				view.Departments = []string{}
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
}
