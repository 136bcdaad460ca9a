package services

import (
	"maps"
	"slices"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// ReconcileInput is everything the merge needs. Nothing in it is modified.
type ReconcileInput struct {
	// Current is the registry's authoritative card list before the merge.
	Current []models.AnalyticsCard
	// PersistedCards is the durable user-sourced list, legacy cleanup applied.
	PersistedCards []models.AnalyticsCard
	// Geometry is the persisted geometry.
	Geometry map[string]models.CardGeometry
	// CurrentDepartments is the registry's department list before the merge.
	CurrentDepartments []string
	// SessionDepartments is what the session scope holds.
	SessionDepartments []string
	Projection         Projection
}

// ReconcileResult is the next authoritative state plus what changed.
type ReconcileResult struct {
	Cards     []models.AnalyticsCard
	ConfigIDs map[string]struct{}
	// UserCards is the durable list after config-owned ids were removed.
	UserCards []models.AnalyticsCard
	// Purged is set when UserCards is shorter than PersistedCards and must be
	// written back.
	Purged bool
	// Changed reports whether Cards differs from Current. When false, Cards
	// is Current.
	Changed  bool
	Geometry map[string]models.CardGeometry
	// GeometryChanged is set when Geometry differs from the persisted map.
	GeometryChanged    bool
	Departments        []string
	DepartmentsChanged bool
}

// Reconcile merges a template projection with the user-authored layer.
// Config-sourced cards win every id conflict.
func Reconcile(in ReconcileInput) ReconcileResult {
	configIDs := make(map[string]struct{}, len(in.Projection.Cards))
	for _, c := range in.Projection.Cards {
		configIDs[c.ID] = struct{}{}
	}

	userCards := make([]models.AnalyticsCard, 0, len(in.PersistedCards))
	for _, c := range in.PersistedCards {
		if _, ok := configIDs[c.ID]; ok {
			continue
		}
		userCards = append(userCards, c.Clone())
	}

	merged := make([]models.AnalyticsCard, 0, len(in.Projection.Cards)+len(userCards))
	for _, c := range in.Projection.Cards {
		merged = append(merged, c.Clone())
	}
	for _, c := range userCards {
		merged = append(merged, c.Clone())
	}
	models.SortCards(merged)

	res := ReconcileResult{
		ConfigIDs: configIDs,
		UserCards: userCards,
		Purged:    len(userCards) != len(in.PersistedCards),
		Changed:   cardsChanged(in.Current, merged, in.Projection.Cards),
	}
	if res.Changed {
		res.Cards = merged
	} else {
		res.Cards = in.Current
	}

	geometry := make(map[string]models.CardGeometry, len(in.Geometry)+len(in.Projection.Geometry))
	maps.Copy(geometry, in.Geometry)
	maps.Copy(geometry, in.Projection.Geometry)
	res.Geometry = geometry
	res.GeometryChanged = !maps.Equal(geometry, in.Geometry)

	departments := dedupe(append(slices.Clone(in.Projection.Departments), in.SessionDepartments...))
	if slices.Equal(departments, in.CurrentDepartments) {
		res.Departments = in.CurrentDepartments
	} else {
		res.Departments = departments
		res.DepartmentsChanged = true
	}
	return res
}

// cardsChanged is true when the id sets differ, or when any config card is
// new or differs from its current version in a rendered property.
func cardsChanged(current, merged, configCards []models.AnalyticsCard) bool {
	byID := make(map[string]models.AnalyticsCard, len(current))
	for _, c := range current {
		byID[c.ID] = c
	}
	for _, c := range configCards {
		prev, ok := byID[c.ID]
		if !ok ||
			prev.Title != c.Title ||
			prev.ChartVariant != c.ChartVariant ||
			prev.Color != c.Color ||
			prev.Purpose != c.Purpose {
			return true
		}
	}

	mergedIDs := make(map[string]struct{}, len(merged))
	for _, c := range merged {
		if _, ok := byID[c.ID]; !ok {
			return true
		}
		mergedIDs[c.ID] = struct{}{}
	}
	return len(mergedIDs) != len(byID)
}
