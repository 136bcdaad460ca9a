package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

func projectItems(items ...models.AnalyticsItem) Projection {
	return Project(templateWith(items))
}

func TestReconcile_Idempotent(t *testing.T) {
	proj := projectItems(chartItem("chart_1", "1-0", true), chartItem("chart_2", "1-1", true))
	persisted := []models.AnalyticsCard{{ID: "card-u", Kind: models.KindFinance}}

	first := Reconcile(ReconcileInput{PersistedCards: persisted, Projection: proj})
	if !first.Changed {
		t.Fatal("expected first reconcile to change an empty registry")
	}
	second := Reconcile(ReconcileInput{
		Current:        first.Cards,
		PersistedCards: persisted,
		Geometry:       first.Geometry,
		Projection:     proj,
	})
	if second.Changed || second.GeometryChanged || second.Purged {
		t.Errorf("expected no change, got changed=%v geometry=%v purged=%v",
			second.Changed, second.GeometryChanged, second.Purged)
	}
	if diff := cmp.Diff(first.Cards, second.Cards); diff != "" {
		t.Errorf("cards differ (-first +second):\n%s", diff)
	}
}

func TestReconcile_ConfigWins(t *testing.T) {
	proj := projectItems(chartItem("chart_1", "1-0", true))
	res := Reconcile(ReconcileInput{
		PersistedCards: []models.AnalyticsCard{
			{ID: "chart_1", Kind: models.KindFinance, Title: "user"},
			{ID: "card-u", Kind: models.KindBalance},
		},
		Projection: proj,
	})
	if !res.Purged {
		t.Error("expected purge")
	}
	if diff := cmp.Diff([]string{"card-u"}, idsOf(res.UserCards)); diff != "" {
		t.Errorf("user cards mismatch (-want +got):\n%s", diff)
	}
	if res.Cards[0].ID != "chart_1" || res.Cards[0].Title != "Chart chart_1" {
		t.Errorf("config card should win, got %+v", res.Cards[0])
	}
}

func TestReconcile_ConfigFieldChange(t *testing.T) {
	base := chartItem("chart_1", "1-0", true)
	first := Reconcile(ReconcileInput{Projection: projectItems(base)})

	recolored := base
	recolored.Color = "#000000"
	res := Reconcile(ReconcileInput{Current: first.Cards, Geometry: first.Geometry, Projection: projectItems(recolored)})
	if !res.Changed || res.Cards[0].Color != "#000000" {
		t.Errorf("expected color change to replace registry, got changed=%v", res.Changed)
	}
}

func TestReconcile_UserEditOnConfigCardSurvivesNoop(t *testing.T) {
	proj := projectItems(chartItem("chart_1", "1-0", true))
	first := Reconcile(ReconcileInput{Projection: proj})
	edited := cloneCards(first.Cards)
	edited[0].Subtitle = "custom"

	res := Reconcile(ReconcileInput{Current: edited, Geometry: first.Geometry, Projection: proj})
	if res.Changed || res.Cards[0].Subtitle != "custom" {
		t.Errorf("unrendered edits must survive an unchanged config, got %+v", res.Cards[0])
	}
}

func TestReconcile_GeometryMerge(t *testing.T) {
	item := chartItem("chart_1", "1-0", true)
	res := Reconcile(ReconcileInput{
		Geometry: map[string]models.CardGeometry{
			"chart_1": {Width: 999, Height: 999},
			"card-u":  {Width: 300, Height: 300},
		},
		Projection: projectItems(item),
	})
	want := map[string]models.CardGeometry{
		"chart_1": {Width: 400, Height: 300},
		"card-u":  {Width: 300, Height: 300},
	}
	if diff := cmp.Diff(want, res.Geometry); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
	if !res.GeometryChanged {
		t.Error("expected geometry change")
	}
}

func TestReconcile_Departments(t *testing.T) {
	proj := Project(templateWith(nil,
		models.DepartmentItem{Name: "a", DisplayName: "Alpha", Enabled: true},
	))
	res := Reconcile(ReconcileInput{
		CurrentDepartments: []string{"Alpha"},
		SessionDepartments: []string{"Beta", "Alpha"},
		Projection:         proj,
	})
	if diff := cmp.Diff([]string{"Alpha", "Beta"}, res.Departments); diff != "" {
		t.Errorf("departments mismatch (-want +got):\n%s", diff)
	}
	if !res.DepartmentsChanged {
		t.Error("expected departments change")
	}

	again := Reconcile(ReconcileInput{
		CurrentDepartments: res.Departments,
		SessionDepartments: res.Departments,
		Projection:         proj,
	})
	if again.DepartmentsChanged {
		t.Error("expected no change on second merge")
	}
}

func idsOf(cards []models.AnalyticsCard) []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func cloneCards(cards []models.AnalyticsCard) []models.AnalyticsCard {
	out := make([]models.AnalyticsCard, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}
