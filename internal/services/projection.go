package services

import (
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// Projection is the card registry content implied by one template snapshot.
type Projection struct {
	Cards       []models.AnalyticsCard
	Geometry    map[string]models.CardGeometry
	Departments []string
}

// Project converts a template snapshot. A nil template projects nothing.
func Project(tmpl *models.TemplateConfig) Projection {
	if tmpl == nil {
		return Projection{Geometry: map[string]models.CardGeometry{}}
	}
	cards, geometry := ProjectAnalytics(tmpl.Dashboard.Analytics.Items)
	return Projection{
		Cards:       cards,
		Geometry:    geometry,
		Departments: ProjectDepartments(tmpl.Dashboard.Departments.Items),
	}
}

// ProjectAnalytics maps enabled analytics items to cards sorted by order, and
// emits each enabled item's configured size verbatim. A repeated id keeps its
// first item.
func ProjectAnalytics(items []models.AnalyticsItem) ([]models.AnalyticsCard, map[string]models.CardGeometry) {
	cards := make([]models.AnalyticsCard, 0, len(items))
	geometry := make(map[string]models.CardGeometry, len(items))
	for _, item := range items {
		if !item.Enabled || item.ID == "" {
			continue
		}
		if _, dup := geometry[item.ID]; dup {
			continue
		}
		kind := models.KindStatus
		if item.Purpose == models.PurposeAnalytics {
			kind = models.KindAnalytics
		}
		subtitle := item.Purpose
		if subtitle == "" {
			subtitle = "Analytics"
		}
		card := models.AnalyticsCard{
			ID:           item.ID,
			Kind:         kind,
			Title:        item.Title,
			Subtitle:     subtitle,
			ChartVariant: item.Type,
			Color:        item.Color,
			Purpose:      item.Purpose,
		}
		if item.Order != nil {
			o := *item.Order
			card.Order = &o
		}
		cards = append(cards, card)
		geometry[item.ID] = models.CardGeometry{Width: item.Width, Height: item.Height}
	}
	models.SortCards(cards)
	return cards, geometry
}

// ProjectDepartments returns the display names of enabled departments, falling
// back to the internal name. Duplicates keep their first position.
func ProjectDepartments(items []models.DepartmentItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if !item.Enabled {
			continue
		}
		name := item.DisplayName
		if name == "" {
			name = item.Name
		}
		names = append(names, name)
	}
	return dedupe(names)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
