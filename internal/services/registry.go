package services

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// registry is the authoritative card state of one dashboard session. All
// fields except lastUsed are guarded by mu.
type registry struct {
	mu        sync.Mutex
	uid       string
	sessionID string

	cards       []models.AnalyticsCard
	configIDs   map[string]struct{}
	departments []string
	configDepts map[string]struct{}
	geometry    map[string]models.CardGeometry

	// template is the snapshot the registry last reconciled against.
	template   *models.TemplateConfig
	reconciled bool
	version    uint64

	drags map[string]*dragSession

	lastUsed atomic.Int64
}

func newRegistry(uid, sessionID string) *registry {
	return &registry{
		uid:         uid,
		sessionID:   sessionID,
		configIDs:   map[string]struct{}{},
		configDepts: map[string]struct{}{},
		geometry:    map[string]models.CardGeometry{},
		drags:       map[string]*dragSession{},
	}
}

func (r *registry) bump() { r.version++ }

func (r *registry) indexOf(id string) int {
	return slices.IndexFunc(r.cards, func(c models.AnalyticsCard) bool { return c.ID == id })
}

func (r *registry) isConfig(id string) bool {
	_, ok := r.configIDs[id]
	return ok
}

// userCards is the durable user-sourced list.
func (r *registry) userCards() []models.AnalyticsCard {
	out := make([]models.AnalyticsCard, 0, len(r.cards))
	for _, c := range r.cards {
		if !r.isConfig(c.ID) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func (r *registry) geometryCopy() map[string]models.CardGeometry {
	return maps.Clone(r.geometry)
}

func (r *registry) addCard(c models.AnalyticsCard) {
	r.cards = append(r.cards, c)
	models.SortCards(r.cards)
	r.bump()
}

// patchCard applies fn to the card with id. It reports false for unknown ids.
func (r *registry) patchCard(id string, fn func(*models.AnalyticsCard)) (models.AnalyticsCard, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return models.AnalyticsCard{}, false
	}
	fn(&r.cards[i])
	r.bump()
	return r.cards[i], true
}

// removeCard drops the card and its geometry together.
func (r *registry) removeCard(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.cards = slices.Delete(r.cards, i, i+1)
	delete(r.geometry, id)
	for sid, d := range r.drags {
		if d.cardID == id {
			delete(r.drags, sid)
		}
	}
	r.bump()
	return true
}

// setGeometry clamps and stores a size. It reports false for unknown ids.
func (r *registry) setGeometry(id string, width, height int) (models.CardGeometry, bool) {
	if r.indexOf(id) < 0 {
		return models.CardGeometry{}, false
	}
	g := models.ClampGeometry(width, height)
	if prev, ok := r.geometry[id]; ok && prev == g {
		return g, true
	}
	r.geometry[id] = g
	r.bump()
	return g, true
}

func (r *registry) addDepartment(name string) bool {
	if slices.Contains(r.departments, name) {
		return false
	}
	r.departments = append(r.departments, name)
	r.bump()
	return true
}

func (r *registry) deleteDepartment(name string) bool {
	i := slices.Index(r.departments, name)
	if i < 0 {
		return false
	}
	r.departments = slices.Delete(r.departments, i, i+1)
	r.bump()
	return true
}

func (r *registry) cardView(c models.AnalyticsCard) dto.CardView {
	v := dto.CardView{AnalyticsCard: c.Clone(), Source: models.ProvenanceUser}
	if r.isConfig(c.ID) {
		v.Source = models.ProvenanceConfig
	}
	if g, ok := r.geometry[c.ID]; ok {
		v.Geometry = &g
	}
	return v
}

// snapshot renders the registry together with the presentational parts of
// the template it last reconciled against.
func (r *registry) snapshot() dto.DashboardView {
	view := dto.DashboardView{Version: r.version}
	if t := r.template; t != nil {
		view.Layout = t.Dashboard.Layout.Selected
		view.Header = dto.HeaderView{
			CompanyName: t.Header.CompanyName,
			Logo:        t.Header.Logo,
			Links:       visibleLinks(t.Header.HeaderLinks),
		}
		view.Theme = t.Theme
		view.Calendar = t.Dashboard.Calendar
		view.Analytics.Show = t.Dashboard.Analytics.Show
		view.Analytics.ShowAddAnalytics = t.Dashboard.Analytics.ShowAddAnalytics
		view.Departments.Show = t.Dashboard.Departments.Show
		view.Departments.ShowAddDepartments = t.Dashboard.Departments.ShowAddDepartments
	}
	if view.Header.Links == nil {
		view.Header.Links = []models.HeaderLink{}
	}

	view.Analytics.Cards = make([]dto.CardView, 0, len(r.cards))
	for _, c := range r.cards {
		view.Analytics.Cards = append(view.Analytics.Cards, r.cardView(c))
	}
	view.Departments.Cards = make([]models.DepartmentCard, 0, len(r.departments))
	for _, name := range r.departments {
		src := models.ProvenanceSession
		if _, ok := r.configDepts[name]; ok {
			src = models.ProvenanceConfig
		}
		view.Departments.Cards = append(view.Departments.Cards, models.DepartmentCard{DisplayName: name, Source: src})
	}
	return view
}

func visibleLinks(links []models.HeaderLink) []models.HeaderLink {
	out := make([]models.HeaderLink, 0, len(links))
	for _, l := range links {
		if l.Show {
			out = append(out, l)
		}
	}
	return out
}
