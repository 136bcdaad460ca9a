package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/pkg/helpers"
)

// --- Fakes ---

type fakeLayoutStore struct {
	mu       sync.Mutex
	cards    []models.AnalyticsCard
	geometry map[string]models.CardGeometry
	legacy   int
	sessions map[string][]string

	loadErr error
	saveErr error

	loads        int
	cardSaves    int
	geoSaves     int
	sessionSaves int
}

func newFakeLayoutStore() *fakeLayoutStore {
	return &fakeLayoutStore{
		geometry: make(map[string]models.CardGeometry),
		sessions: make(map[string][]string),
	}
}

func (f *fakeLayoutStore) LoadDurable(_ context.Context, _ string) (DurableLayout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return DurableLayout{}, f.loadErr
	}
	out := DurableLayout{Geometry: maps.Clone(f.geometry), LegacyDropped: f.legacy}
	for _, c := range f.cards {
		out.Cards = append(out.Cards, c.Clone())
	}
	return out, nil
}

func (f *fakeLayoutStore) SaveCards(_ context.Context, _ string, cards []models.AnalyticsCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cardSaves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cards = slices.Clone(cards)
	f.legacy = 0
	return nil
}

func (f *fakeLayoutStore) SaveGeometry(_ context.Context, _ string, geometry map[string]models.CardGeometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geoSaves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.geometry = maps.Clone(geometry)
	return nil
}

func (f *fakeLayoutStore) LoadSession(_ context.Context, _, sessionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sessions[sessionID]), nil
}

func (f *fakeLayoutStore) SaveSession(_ context.Context, _, sessionID string, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionSaves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[sessionID] = slices.Clone(names)
	return nil
}

type fakeTemplates struct {
	mu  sync.Mutex
	cur *models.TemplateConfig
}

func (f *fakeTemplates) Current() *models.TemplateConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

func (f *fakeTemplates) set(t *models.TemplateConfig) {
	f.mu.Lock()
	f.cur = t
	f.mu.Unlock()
}

func chartItem(id, order string, enabled bool) models.AnalyticsItem {
	o := models.ParseOrder(order)
	return models.AnalyticsItem{
		ID:      id,
		Title:   "Chart " + id,
		Type:    models.ChartBar,
		Enabled: enabled,
		Width:   400,
		Height:  300,
		Order:   &o,
		Color:   "#8b5cf6",
		Purpose: models.PurposeSales,
	}
}

func templateWith(items []models.AnalyticsItem, depts ...models.DepartmentItem) *models.TemplateConfig {
	t := &models.TemplateConfig{}
	t.Dashboard.Analytics.Show = true
	t.Dashboard.Analytics.Items = items
	t.Dashboard.Departments.Show = true
	t.Dashboard.Departments.Items = depts
	return t
}

func newTestService(store *fakeLayoutStore, tmpl *models.TemplateConfig) (*dashboardService, *fakeTemplates) {
	src := &fakeTemplates{cur: tmpl}
	svc := NewDashboardService(store, src, 0)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("card-%d", n)
	}
	return svc, src
}

func cardIDs(v dto.DashboardView) []string {
	ids := make([]string, 0, len(v.Analytics.Cards))
	for _, c := range v.Analytics.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func deptNames(cards []models.DepartmentCard) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.DisplayName)
	}
	return names
}

// --- GetDashboard / reconcile tests ---

func TestGetDashboard_ConfigOrder(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith([]models.AnalyticsItem{
		chartItem("chart_2", "1-1", true),
		chartItem("chart_1", "1-0", true),
	}))

	view, err := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"chart_1", "chart_2"}, cardIDs(view)); diff != "" {
		t.Errorf("card order mismatch (-want +got):\n%s", diff)
	}
	for _, c := range view.Analytics.Cards {
		if c.Source != models.ProvenanceConfig {
			t.Errorf("card %s: expected config source, got %s", c.ID, c.Source)
		}
		if c.Geometry == nil || *c.Geometry != (models.CardGeometry{Width: 400, Height: 300}) {
			t.Errorf("card %s: unexpected geometry %+v", c.ID, c.Geometry)
		}
	}
}

func TestGetDashboard_Idempotent(t *testing.T) {
	store := newFakeLayoutStore()
	store.cards = []models.AnalyticsCard{{ID: "card-u", Kind: models.KindFinance, Title: "Mine"}}
	svc, src := newTestService(store, templateWith([]models.AnalyticsItem{chartItem("chart_1", "1-0", true)}))
	ctx := helpers.TestCtx()

	first, err := svc.GetDashboard(ctx, "uid1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same content, new snapshot pointer: reconcile runs again but nothing changes.
	src.set(templateWith([]models.AnalyticsItem{chartItem("chart_1", "1-0", true)}))
	second, err := svc.GetDashboard(ctx, "uid1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.loads != 2 {
		t.Errorf("expected 2 reconciles, got %d", store.loads)
	}
	if first.Version != second.Version {
		t.Errorf("expected no change notification, version %d -> %d", first.Version, second.Version)
	}
	if diff := cmp.Diff(first.Analytics.Cards, second.Analytics.Cards); diff != "" {
		t.Errorf("registry changed on identical reconcile (-first +second):\n%s", diff)
	}
}

func TestGetDashboard_NoReconcileWithoutTemplateChange(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	ctx := helpers.TestCtx()

	for range 3 {
		if _, err := svc.GetDashboard(ctx, "uid1", "s1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if store.loads != 1 {
		t.Errorf("expected a single load, got %d", store.loads)
	}
}

func TestGetDashboard_ConfigPrecedence(t *testing.T) {
	store := newFakeLayoutStore()
	store.cards = []models.AnalyticsCard{
		{ID: "chart_1", Kind: models.KindFinance, Title: "Stale user copy"},
		{ID: "card-u", Kind: models.KindBalance, Title: "Kept"},
	}
	svc, _ := newTestService(store, templateWith([]models.AnalyticsItem{chartItem("chart_1", "1-0", true)}))

	view, err := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var matches []dto.CardView
	for _, c := range view.Analytics.Cards {
		if c.ID == "chart_1" {
			matches = append(matches, c)
		}
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one chart_1, got %d", len(matches))
	}
	if matches[0].Title != "Chart chart_1" || matches[0].Kind != models.KindStatus {
		t.Errorf("config item should win, got %+v", matches[0].AnalyticsCard)
	}
	if diff := cmp.Diff([]string{"chart_1", "card-u"}, cardIDs(view)); diff != "" {
		t.Errorf("card order mismatch (-want +got):\n%s", diff)
	}
	if store.cardSaves != 1 {
		t.Errorf("expected purge write-back, got %d saves", store.cardSaves)
	}
	for _, c := range store.cards {
		if c.ID == "chart_1" {
			t.Error("durable store still holds superseded chart_1")
		}
	}
}

func TestGetDashboard_LegacyCleanupWritesBack(t *testing.T) {
	store := newFakeLayoutStore()
	store.legacy = 1
	svc, _ := newTestService(store, templateWith(nil))

	if _, err := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cardSaves != 1 {
		t.Errorf("expected legacy write-back, got %d saves", store.cardSaves)
	}
}

func TestGetDashboard_DisableConfigCard(t *testing.T) {
	store := newFakeLayoutStore()
	svc, src := newTestService(store, templateWith([]models.AnalyticsItem{
		chartItem("chart_1", "1-0", true),
		chartItem("chart_2", "1-1", true),
	}))
	ctx := helpers.TestCtx()

	if _, err := svc.GetDashboard(ctx, "uid1", "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src.set(templateWith([]models.AnalyticsItem{
		chartItem("chart_1", "1-0", true),
		chartItem("chart_2", "1-1", false),
	}))
	view, err := svc.GetDashboard(ctx, "uid1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"chart_1"}, cardIDs(view)); diff != "" {
		t.Errorf("card ids mismatch (-want +got):\n%s", diff)
	}
	// Geometry is only removed by an explicit delete.
	if _, ok := store.geometry["chart_2"]; !ok {
		t.Error("expected chart_2 geometry to remain in durable storage")
	}
}

func TestGetDashboard_LoadError(t *testing.T) {
	store := newFakeLayoutStore()
	store.loadErr = errors.New("boom")
	svc, _ := newTestService(store, templateWith(nil))

	_, err := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1")
	var dbe *errs.DatabaseError
	if !errors.As(err, &dbe) {
		t.Fatalf("expected DatabaseError, got %T: %v", err, err)
	}

	store.loadErr = nil
	if _, err := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestGetDashboard_SessionsAreIndependent(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	ctx := helpers.TestCtx()

	if _, err := svc.AddDepartment(ctx, "uid1", "s1", "Sales"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := svc.GetDashboard(ctx, "uid1", "s2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Departments.Cards) != 0 {
		t.Errorf("expected no departments in a fresh session, got %v", deptNames(view.Departments.Cards))
	}
}

func TestGetDashboard_HeaderLinksFiltered(t *testing.T) {
	tmpl := templateWith(nil)
	tmpl.Header.CompanyName = "Acme"
	tmpl.Header.HeaderLinks = []models.HeaderLink{
		{Name: "Home", Path: "/", Show: true},
		{Name: "Hidden", Path: "/x", Show: false},
	}
	tmpl.Dashboard.Calendar = models.CalendarConfig{Show: true, ShowUpcomingEvents: true}
	svc, _ := newTestService(newFakeLayoutStore(), tmpl)

	view, err := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Header.CompanyName != "Acme" || len(view.Header.Links) != 1 || view.Header.Links[0].Name != "Home" {
		t.Errorf("unexpected header: %+v", view.Header)
	}
	if !view.Calendar.ShowUpcomingEvents {
		t.Error("expected calendar flags to pass through")
	}
}

func TestEvictIdle(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	svc.idleTTL = time.Minute
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := helpers.TestCtx()

	if _, err := svc.GetDashboard(ctx, "uid1", "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := svc.GetDashboard(ctx, "uid1", "s2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := svc.registries[registryKey("uid1", "s1")]; ok {
		t.Error("expected idle registry to be evicted")
	}
}

// --- AddCard / wizard tests ---

func TestAddCard_Template(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith([]models.AnalyticsItem{chartItem("chart_1", "1-0", true)}))

	res, err := svc.AddCard(helpers.TestCtx(), "uid1", "s1", models.KindServer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OpenWizard || res.Card == nil {
		t.Fatalf("expected a card, got %+v", res)
	}
	if res.Card.ID != "card-1" || res.Card.Source != models.ProvenanceUser || len(res.Card.Servers) != 4 {
		t.Errorf("unexpected card: %+v", res.Card)
	}
	if res.Card.Order != nil {
		t.Error("added cards have no order")
	}
	if len(store.cards) != 1 || store.cards[0].ID != "card-1" {
		t.Errorf("expected only the user card persisted, got %+v", store.cards)
	}

	view, _ := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1")
	if diff := cmp.Diff([]string{"chart_1", "card-1"}, cardIDs(view)); diff != "" {
		t.Errorf("card order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddCard_StatusOpensWizard(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))

	res, err := svc.AddCard(helpers.TestCtx(), "uid1", "s1", models.KindStatus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OpenWizard || res.Card != nil {
		t.Errorf("expected wizard signal only, got %+v", res)
	}
	if store.cardSaves != 0 {
		t.Errorf("expected no write, got %d", store.cardSaves)
	}
}

func TestAddCard_InvalidKind(t *testing.T) {
	svc, _ := newTestService(newFakeLayoutStore(), templateWith(nil))
	_, err := svc.AddCard(helpers.TestCtx(), "uid1", "s1", "pie")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestAddCard_SaveErrorKeepsCard(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	ctx := helpers.TestCtx()
	if _, err := svc.GetDashboard(ctx, "uid1", "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.saveErr = errors.New("disk full")

	_, err := svc.AddCard(ctx, "uid1", "s1", models.KindFinance)
	var dbe *errs.DatabaseError
	if !errors.As(err, &dbe) {
		t.Fatalf("expected DatabaseError, got %T: %v", err, err)
	}
	view, _ := svc.GetDashboard(ctx, "uid1", "s1")
	if len(view.Analytics.Cards) != 1 {
		t.Errorf("expected in-memory card to survive the failed write, got %d", len(view.Analytics.Cards))
	}
}

func TestCompleteWizard_AutoTitle(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))

	card, err := svc.CompleteWizard(helpers.TestCtx(), "uid1", "s1", dto.CompleteWizardRequest{
		Purpose:      models.PurposeSales,
		ChartVariant: models.ChartLine,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.AnalyticsCard{
		ID:           "card-1",
		Kind:         models.KindStatus,
		Title:        "Sales",
		Subtitle:     "Track sales metrics",
		Value:        "$54.2K",
		ChartVariant: models.ChartLine,
		Color:        "#10b981",
		Purpose:      models.PurposeSales,
	}
	if diff := cmp.Diff(want, card.AnalyticsCard); diff != "" {
		t.Errorf("wizard card mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteWizard_UnknownPurpose(t *testing.T) {
	svc, _ := newTestService(newFakeLayoutStore(), templateWith(nil))
	card, err := svc.CompleteWizard(helpers.TestCtx(), "uid1", "s1", dto.CompleteWizardRequest{
		Purpose:      "weather",
		ChartVariant: models.ChartBar,
		Title:        "Rain",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Title != "Rain" || card.Value != "100" || card.Color != "#8b5cf6" {
		t.Errorf("unexpected card: %+v", card.AnalyticsCard)
	}
}

// --- EditCard tests ---

func TestEditCard_Patch(t *testing.T) {
	store := newFakeLayoutStore()
	store.cards = []models.AnalyticsCard{{
		ID: "card-u", Kind: models.KindStatus, Title: "Old", Subtitle: "Sub",
		ChartVariant: models.ChartBar, Purpose: models.PurposeKPI,
		Order: helpers.Ptr(models.Order{Row: 2, Col: 1}),
	}}
	svc, _ := newTestService(store, templateWith(nil))

	card, ok, err := svc.EditCard(helpers.TestCtx(), "uid1", "s1", "card-u", dto.EditCardRequest{
		Title:        helpers.Ptr("New"),
		ChartVariant: helpers.Ptr(models.ChartPie),
	})
	if err != nil || !ok {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	if card.Title != "New" || card.Subtitle != "Sub" || card.ChartVariant != models.ChartPie {
		t.Errorf("unexpected card: %+v", card.AnalyticsCard)
	}
	if card.Color != "#8b5cf6" {
		t.Errorf("expected kpi sample color, got %q", card.Color)
	}
	if card.Kind != models.KindStatus || card.Order == nil || *card.Order != (models.Order{Row: 2, Col: 1}) {
		t.Errorf("id/kind/order must be preserved: %+v", card.AnalyticsCard)
	}
	if store.cards[0].Title != "New" {
		t.Error("expected edit to be persisted")
	}
}

func TestEditCard_UnknownID(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	_, ok, err := svc.EditCard(helpers.TestCtx(), "uid1", "s1", "missing", dto.EditCardRequest{Title: helpers.Ptr("x")})
	if err != nil || ok {
		t.Fatalf("expected silent no-op, got ok=%v err=%v", ok, err)
	}
	if store.cardSaves != 0 {
		t.Errorf("expected no write, got %d", store.cardSaves)
	}
}

func TestEditCard_ConfigCardNotPersisted(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith([]models.AnalyticsItem{chartItem("chart_1", "1-0", true)}))

	_, ok, err := svc.EditCard(helpers.TestCtx(), "uid1", "s1", "chart_1", dto.EditCardRequest{Title: helpers.Ptr("Renamed")})
	if err != nil || !ok {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	if store.cardSaves != 0 || len(store.cards) != 0 {
		t.Errorf("config cards must not enter the durable list, got %+v", store.cards)
	}
}

// --- DeleteCard / ResizeCard tests ---

func TestDeleteCard_RemovesGeometry(t *testing.T) {
	store := newFakeLayoutStore()
	store.cards = []models.AnalyticsCard{{ID: "card-u", Kind: models.KindFinance}}
	store.geometry["card-u"] = models.CardGeometry{Width: 300, Height: 300}
	svc, _ := newTestService(store, templateWith(nil))

	if err := svc.DeleteCard(helpers.TestCtx(), "uid1", "s1", "card-u"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.cards) != 0 {
		t.Errorf("expected card removed from durable list, got %+v", store.cards)
	}
	if _, ok := store.geometry["card-u"]; ok {
		t.Error("expected geometry removed")
	}
}

func TestDeleteCard_UnknownID(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	if err := svc.DeleteCard(helpers.TestCtx(), "uid1", "s1", "missing"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if store.cardSaves != 0 || store.geoSaves != 0 {
		t.Error("expected no writes")
	}
}

func TestResizeCard_Clamp(t *testing.T) {
	store := newFakeLayoutStore()
	store.cards = []models.AnalyticsCard{{ID: "card-u", Kind: models.KindFinance}}
	svc, _ := newTestService(store, templateWith(nil))

	g, ok, err := svc.ResizeCard(helpers.TestCtx(), "uid1", "s1", "card-u", 10, 10000)
	if err != nil || !ok {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	want := models.CardGeometry{Width: 250, Height: 800}
	if g != want || store.geometry["card-u"] != want {
		t.Errorf("expected %+v, got %+v (stored %+v)", want, g, store.geometry["card-u"])
	}
}

func TestResizeCard_UnknownID(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	_, ok, err := svc.ResizeCard(helpers.TestCtx(), "uid1", "s1", "missing", 300, 300)
	if err != nil || ok {
		t.Fatalf("expected no-op, got ok=%v err=%v", ok, err)
	}
	if store.geoSaves != 0 {
		t.Error("expected no write")
	}
}

// --- Department tests ---

func TestAddDepartment_Idempotent(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	ctx := helpers.TestCtx()

	for range 2 {
		if _, err := svc.AddDepartment(ctx, "uid1", "s1", "Sales"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	view, _ := svc.GetDashboard(ctx, "uid1", "s1")
	if diff := cmp.Diff([]string{"Sales"}, deptNames(view.Departments.Cards)); diff != "" {
		t.Errorf("departments mismatch (-want +got):\n%s", diff)
	}
	if view.Departments.Cards[0].Source != models.ProvenanceSession {
		t.Errorf("expected session source, got %s", view.Departments.Cards[0].Source)
	}
	if store.sessionSaves != 1 {
		t.Errorf("expected one session write, got %d", store.sessionSaves)
	}
}

func TestDeleteDepartment(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil,
		models.DepartmentItem{Name: "hr", DisplayName: "HR Department", Enabled: true},
	))
	ctx := helpers.TestCtx()

	if _, err := svc.DeleteDepartment(ctx, "uid1", "s1", "Nope"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if store.sessionSaves != 1 {
		t.Fatalf("expected only the reconcile write, got %d", store.sessionSaves)
	}

	cards, err := svc.DeleteDepartment(ctx, "uid1", "s1", "HR Department")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("expected empty list, got %v", deptNames(cards))
	}
	if got, ok := store.sessions["s1"]; !ok || len(got) != 0 {
		t.Errorf("expected empty list written, got %v (present=%v)", got, ok)
	}
}

func TestDeleteDepartment_TrimsName(t *testing.T) {
	store := newFakeLayoutStore()
	svc, _ := newTestService(store, templateWith(nil))
	ctx := helpers.TestCtx()

	if _, err := svc.AddDepartment(ctx, "uid1", "s1", "  Sales "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cards, err := svc.DeleteDepartment(ctx, "uid1", "s1", " Sales  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("expected department removed, got %v", deptNames(cards))
	}
}

func TestDepartments_ConfigAndSessionMerge(t *testing.T) {
	store := newFakeLayoutStore()
	store.sessions["s1"] = []string{"Finance", "Sales"}
	svc, _ := newTestService(store, templateWith(nil,
		models.DepartmentItem{Name: "finance", Enabled: true},
		models.DepartmentItem{Name: "fin", DisplayName: "Finance", Enabled: true},
		models.DepartmentItem{Name: "ops", DisplayName: "Ops", Enabled: false},
	))

	view, err := svc.GetDashboard(helpers.TestCtx(), "uid1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.DepartmentCard{
		{DisplayName: "finance", Source: models.ProvenanceConfig},
		{DisplayName: "Finance", Source: models.ProvenanceConfig},
		{DisplayName: "Sales", Source: models.ProvenanceSession},
	}
	if diff := cmp.Diff(want, view.Departments.Cards); diff != "" {
		t.Errorf("departments mismatch (-want +got):\n%s", diff)
	}
}

// --- Catalog tests ---

func TestCardKinds(t *testing.T) {
	svc, _ := newTestService(newFakeLayoutStore(), nil)
	kinds := svc.CardKinds()
	if len(kinds) != len(models.CardKinds) {
		t.Fatalf("expected %d kinds, got %d", len(models.CardKinds), len(kinds))
	}
	for _, k := range kinds {
		if k.Wizard != (k.Kind == models.KindStatus) {
			t.Errorf("kind %s: wizard=%v", k.Kind, k.Wizard)
		}
	}
}
