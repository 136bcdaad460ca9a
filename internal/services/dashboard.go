package services

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/pkg/helpers"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

// templateSource hands out the current template snapshot. A new pointer means
// the document changed.
type templateSource interface {
	Current() *models.TemplateConfig
}

type dashboardService struct {
	store     LayoutStore
	templates templateSource
	idleTTL   time.Duration

	mu         sync.Mutex
	registries map[string]*registry
	loads      singleflight.Group

	now   func() time.Time
	newID func() string
}

// NewDashboardService builds the service. Registries unused for idleTTL are
// dropped; zero keeps them forever.
func NewDashboardService(store LayoutStore, templates templateSource, idleTTL time.Duration) *dashboardService {
	return &dashboardService{
		store:      store,
		templates:  templates,
		idleTTL:    idleTTL,
		registries: make(map[string]*registry),
		now:        time.Now,
		newID:      newCardID,
	}
}

func newCardID() string {
	return "card-" + uuid.Must(uuid.NewV7()).String()
}

func registryKey(uid, sessionID string) string {
	return uid + "\x00" + sessionID
}

// --- Public service methods ---

func (s *dashboardService) GetDashboard(ctx context.Context, uid, sessionID string) (dto.DashboardView, error) {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return dto.DashboardView{}, err
	}
	defer r.mu.Unlock()
	return r.snapshot(), nil
}

// AddCard appends a user card built from the kind's template. The status kind
// creates nothing and asks the caller to open the chart wizard.
func (s *dashboardService) AddCard(ctx context.Context, uid, sessionID string, kind models.CardKind) (dto.AddCardResult, error) {
	if !kind.Valid() {
		return dto.AddCardResult{}, errs.NewValidationError("unknown card kind: " + string(kind))
	}
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return dto.AddCardResult{}, err
	}
	defer r.mu.Unlock()

	if kind == models.KindStatus {
		return dto.AddCardResult{OpenWizard: true, Version: r.version}, nil
	}
	card, _ := CardTemplate(kind)
	card.ID = s.newID()
	r.addCard(card)
	logger.FromContext(ctx).Info("card added", "card_id", card.ID, "kind", kind)

	view := r.cardView(card)
	res := dto.AddCardResult{Card: &view, Version: r.version}
	return res, s.saveCards(ctx, r)
}

// CompleteWizard creates the user card configured in the chart wizard.
func (s *dashboardService) CompleteWizard(ctx context.Context, uid, sessionID string, req dto.CompleteWizardRequest) (dto.CardView, error) {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return dto.CardView{}, err
	}
	defer r.mu.Unlock()

	info, _ := purposeInfo(req.Purpose)
	title, subtitle := strings.TrimSpace(req.Title), strings.TrimSpace(req.Subtitle)
	if title == "" {
		title, subtitle = info.Name, info.Description
		if title == "" {
			title = "Custom Chart"
		}
	}
	color := req.Color
	if color == "" {
		color = info.SampleColor
	}
	card := models.AnalyticsCard{
		ID:           s.newID(),
		Kind:         models.KindStatus,
		Title:        title,
		Subtitle:     subtitle,
		Value:        info.SampleValue,
		ChartVariant: req.ChartVariant,
		Color:        color,
		Purpose:      req.Purpose,
	}
	r.addCard(card)
	logger.FromContext(ctx).Info("wizard card added", "card_id", card.ID, "purpose", req.Purpose)

	return r.cardView(card), s.saveCards(ctx, r)
}

// EditCard applies the non-nil fields of patch. Unknown ids are a no-op and
// return ok=false.
func (s *dashboardService) EditCard(ctx context.Context, uid, sessionID, cardID string, patch dto.EditCardRequest) (dto.CardView, bool, error) {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return dto.CardView{}, false, err
	}
	defer r.mu.Unlock()

	card, ok := r.patchCard(cardID, func(c *models.AnalyticsCard) {
		c.Title = helpers.ValueOr(patch.Title, c.Title)
		c.Subtitle = helpers.ValueOr(patch.Subtitle, c.Subtitle)
		c.ChartVariant = helpers.ValueOr(patch.ChartVariant, c.ChartVariant)
		c.Purpose = helpers.ValueOr(patch.Purpose, c.Purpose)
		switch color := helpers.Value(patch.Color); {
		case color != "":
			c.Color = color
		case c.Color == "" && c.Purpose != "":
			info, _ := purposeInfo(c.Purpose)
			c.Color = info.SampleColor
		}
	})
	if !ok {
		logger.FromContext(ctx).Debug("edit on unknown card ignored", "card_id", cardID)
		return dto.CardView{}, false, nil
	}
	logger.FromContext(ctx).Info("card edited", "card_id", cardID)

	view := r.cardView(card)
	if r.isConfig(cardID) {
		return view, true, nil
	}
	return view, true, s.saveCards(ctx, r)
}

// DeleteCard removes a card and its geometry and re-persists both records.
func (s *dashboardService) DeleteCard(ctx context.Context, uid, sessionID, cardID string) error {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	if !r.removeCard(cardID) {
		logger.FromContext(ctx).Debug("delete on unknown card ignored", "card_id", cardID)
		return nil
	}
	logger.FromContext(ctx).Info("card deleted", "card_id", cardID)

	if err := s.saveCards(ctx, r); err != nil {
		return err
	}
	return s.saveGeometry(ctx, r)
}

// ResizeCard clamps and stores a size. Unknown ids are a no-op and return
// ok=false.
func (s *dashboardService) ResizeCard(ctx context.Context, uid, sessionID, cardID string, width, height int) (models.CardGeometry, bool, error) {
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return models.CardGeometry{}, false, err
	}
	defer r.mu.Unlock()

	g, ok := r.setGeometry(cardID, width, height)
	if !ok {
		return models.CardGeometry{}, false, nil
	}
	return g, true, s.saveGeometry(ctx, r)
}

func (s *dashboardService) AddDepartment(ctx context.Context, uid, sessionID, name string) ([]models.DepartmentCard, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidationError("department name is required")
	}
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	if !r.addDepartment(name) {
		return r.snapshot().Departments.Cards, nil
	}
	logger.FromContext(ctx).Info("department added", "department", name)
	return r.snapshot().Departments.Cards, s.saveSession(ctx, r, false)
}

// DeleteDepartment removes a department by display name. Unknown names are a
// no-op. The resulting list is written even when empty.
func (s *dashboardService) DeleteDepartment(ctx context.Context, uid, sessionID, name string) ([]models.DepartmentCard, error) {
	name = strings.TrimSpace(name)
	r, err := s.acquire(ctx, uid, sessionID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	if !r.deleteDepartment(name) {
		return r.snapshot().Departments.Cards, nil
	}
	logger.FromContext(ctx).Info("department deleted", "department", name)
	return r.snapshot().Departments.Cards, s.saveSession(ctx, r, true)
}

// CardKinds lists what the add-card picker offers.
func (s *dashboardService) CardKinds() []dto.CardKindInfo {
	out := make([]dto.CardKindInfo, 0, len(models.CardKinds))
	for _, k := range models.CardKinds {
		t, _ := CardTemplate(k)
		out = append(out, dto.CardKindInfo{Kind: k, Template: t, Wizard: k == models.KindStatus})
	}
	return out
}

func (s *dashboardService) DepartmentCatalog() []DepartmentOption {
	return DepartmentOptions()
}

func (s *dashboardService) Purposes() []PurposeInfo {
	return Purposes()
}

// --- Registry lifecycle ---

// acquire returns the session's registry locked and reconciled against the
// current template. The caller must unlock r.mu.
func (s *dashboardService) acquire(ctx context.Context, uid, sessionID string) (*registry, error) {
	key := registryKey(uid, sessionID)

	s.mu.Lock()
	r := s.registries[key]
	s.mu.Unlock()

	if r == nil {
		v, err, _ := s.loads.Do(key, func() (any, error) {
			s.mu.Lock()
			existing := s.registries[key]
			s.mu.Unlock()
			if existing != nil {
				return existing, nil
			}

			fresh := newRegistry(uid, sessionID)
			fresh.mu.Lock()
			err := s.reconcileLocked(ctx, fresh, s.templates.Current())
			fresh.mu.Unlock()
			if err != nil {
				return nil, err
			}
			fresh.lastUsed.Store(s.now().UnixNano())

			s.mu.Lock()
			s.evictIdleLocked()
			s.registries[key] = fresh
			s.mu.Unlock()
			return fresh, nil
		})
		if err != nil {
			return nil, err
		}
		r = v.(*registry)
	}

	r.mu.Lock()
	if tmpl := s.templates.Current(); !r.reconciled || tmpl != r.template {
		if err := s.reconcileLocked(ctx, r, tmpl); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}
	r.lastUsed.Store(s.now().UnixNano())
	return r, nil
}

func (s *dashboardService) evictIdleLocked() {
	if s.idleTTL <= 0 {
		return
	}
	cutoff := s.now().Add(-s.idleTTL).UnixNano()
	for key, r := range s.registries {
		if r.lastUsed.Load() < cutoff {
			delete(s.registries, key)
		}
	}
}

// reconcileLocked merges tmpl with the persisted layers into r. Load errors
// leave r untouched and are returned. Write-back errors are logged; the
// in-memory state stays authoritative.
func (s *dashboardService) reconcileLocked(ctx context.Context, r *registry, tmpl *models.TemplateConfig) error {
	log := logger.FromContext(ctx)

	durable, err := s.store.LoadDurable(ctx, r.uid)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to load dashboard layout", err)
	}
	session, err := s.store.LoadSession(ctx, r.uid, r.sessionID)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to load session departments", err)
	}

	proj := Project(tmpl)
	res := Reconcile(ReconcileInput{
		Current:            r.cards,
		PersistedCards:     durable.Cards,
		Geometry:           durable.Geometry,
		CurrentDepartments: r.departments,
		SessionDepartments: session,
		Projection:         proj,
	})

	r.template = tmpl
	r.reconciled = true
	r.configIDs = res.ConfigIDs
	r.configDepts = make(map[string]struct{}, len(proj.Departments))
	for _, d := range proj.Departments {
		r.configDepts[d] = struct{}{}
	}
	if res.Changed {
		r.cards = res.Cards
		r.bump()
	}
	if !maps.Equal(r.geometry, res.Geometry) {
		r.bump()
	}
	r.geometry = res.Geometry
	if res.DepartmentsChanged {
		r.departments = res.Departments
		r.bump()
	}
	log.Debug("dashboard reconciled",
		"cards_changed", res.Changed,
		"purged", res.Purged,
		"legacy_dropped", durable.LegacyDropped,
		"geometry_changed", res.GeometryChanged,
		"departments_changed", res.DepartmentsChanged,
	)

	if res.Purged || durable.LegacyDropped > 0 {
		if err := s.store.SaveCards(ctx, r.uid, res.UserCards); err != nil {
			log.Error("failed to write back purged cards", "error", err)
		}
	}
	if res.GeometryChanged {
		if err := s.store.SaveGeometry(ctx, r.uid, res.Geometry); err != nil {
			log.Error("failed to write back geometry", "error", err)
		}
	}
	if res.DepartmentsChanged && len(res.Departments) > 0 {
		if err := s.store.SaveSession(ctx, r.uid, r.sessionID, res.Departments); err != nil {
			log.Error("failed to write back session departments", "error", err)
		}
	}
	return nil
}

// --- Persistence ---

func (s *dashboardService) saveCards(ctx context.Context, r *registry) error {
	if err := s.store.SaveCards(ctx, r.uid, r.userCards()); err != nil {
		logger.FromContext(ctx).Error("failed to save cards", "error", err)
		return errs.NewDatabaseError("write", "failed to save cards", err)
	}
	return nil
}

func (s *dashboardService) saveGeometry(ctx context.Context, r *registry) error {
	if err := s.store.SaveGeometry(ctx, r.uid, r.geometryCopy()); err != nil {
		logger.FromContext(ctx).Error("failed to save geometry", "error", err)
		return errs.NewDatabaseError("write", "failed to save card sizes", err)
	}
	return nil
}

// saveSession writes the department list. Empty lists are skipped unless
// allowEmpty is set.
func (s *dashboardService) saveSession(ctx context.Context, r *registry, allowEmpty bool) error {
	if len(r.departments) == 0 && !allowEmpty {
		return nil
	}
	if err := s.store.SaveSession(ctx, r.uid, r.sessionID, r.departments); err != nil {
		logger.FromContext(ctx).Error("failed to save departments", "error", err)
		return errs.NewDatabaseError("write", "failed to save departments", err)
	}
	return nil
}
