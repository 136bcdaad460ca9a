package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/middleware"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
)

type dashboardService interface {
	GetDashboard(ctx context.Context, uid, sessionID string) (dto.DashboardView, error)
	AddCard(ctx context.Context, uid, sessionID string, kind models.CardKind) (dto.AddCardResult, error)
	CompleteWizard(ctx context.Context, uid, sessionID string, req dto.CompleteWizardRequest) (dto.CardView, error)
	EditCard(ctx context.Context, uid, sessionID, cardID string, patch dto.EditCardRequest) (dto.CardView, bool, error)
	DeleteCard(ctx context.Context, uid, sessionID, cardID string) error
	ResizeCard(ctx context.Context, uid, sessionID, cardID string, width, height int) (models.CardGeometry, bool, error)
	BeginResize(ctx context.Context, uid, sessionID, cardID string, req dto.BeginResizeRequest) (dto.ResizeSessionResponse, bool, error)
	MoveResize(ctx context.Context, uid, sessionID, resizeID string, req dto.MoveResizeRequest) (dto.ResizeSessionResponse, bool, error)
	EndResize(ctx context.Context, uid, sessionID, resizeID string) error
	AddDepartment(ctx context.Context, uid, sessionID, name string) ([]models.DepartmentCard, error)
	DeleteDepartment(ctx context.Context, uid, sessionID, name string) ([]models.DepartmentCard, error)
	CardKinds() []dto.CardKindInfo
	DepartmentCatalog() []services.DepartmentOption
	Purposes() []services.PurposeInfo
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Route("/cards", func(r chi.Router) {
		r.Post("/", h.AddCard)
		r.Post("/wizard", h.CompleteWizard) // must be before /{cardId}
		r.Patch("/{cardId}", h.EditCard)
		r.Delete("/{cardId}", h.DeleteCard)
		r.Put("/{cardId}/size", h.ResizeCard)
		r.Post("/{cardId}/resize", h.BeginResize)
	})
	r.Patch("/resize/{sessionId}", h.MoveResize)
	r.Delete("/resize/{sessionId}", h.EndResize)
	r.Route("/departments", func(r chi.Router) {
		r.Post("/", h.AddDepartment)
		r.Get("/catalog", h.GetDepartmentCatalog)
		r.Delete("/{name}", h.DeleteDepartment)
	})
	r.Get("/card-kinds", h.GetCardKinds)
	r.Get("/purposes", h.GetPurposes)
	return r
}

// ids returns the caller's uid and dashboard session id.
func ids(r *http.Request) (string, string) {
	return middleware.UID(r.Context()), middleware.SessionID(r.Context())
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	uid, sid := ids(r)
	view, err := h.DashboardSvc.GetDashboard(r.Context(), uid, sid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *dashboardHandlers) AddCard(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, sid := ids(r)
	res, err := h.DashboardSvc.AddCard(r.Context(), uid, sid, req.Kind)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.OpenWizard {
		status = http.StatusOK
	}
	h.ResponseHandler.WriteSuccess(w, r, status, res)
}

func (h *dashboardHandlers) CompleteWizard(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteWizardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, sid := ids(r)
	card, err := h.DashboardSvc.CompleteWizard(r.Context(), uid, sid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, card)
}

// EditCard answers 200 with no data for unknown ids.
func (h *dashboardHandlers) EditCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	var req dto.EditCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, sid := ids(r)
	card, ok, err := h.DashboardSvc.EditCard(r.Context(), uid, sid, cardID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if !ok {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, card)
}

func (h *dashboardHandlers) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	uid, sid := ids(r)
	if err := h.DashboardSvc.DeleteCard(r.Context(), uid, sid, cardID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) ResizeCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	var req dto.ResizeCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, sid := ids(r)
	g, ok, err := h.DashboardSvc.ResizeCard(r.Context(), uid, sid, cardID, req.Width, req.Height)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if !ok {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, g)
}

func (h *dashboardHandlers) BeginResize(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	var req dto.BeginResizeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, sid := ids(r)
	res, ok, err := h.DashboardSvc.BeginResize(r.Context(), uid, sid, cardID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if !ok {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, res)
}

func (h *dashboardHandlers) MoveResize(w http.ResponseWriter, r *http.Request) {
	resizeID := chi.URLParam(r, "sessionId")
	var req dto.MoveResizeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, sid := ids(r)
	res, ok, err := h.DashboardSvc.MoveResize(r.Context(), uid, sid, resizeID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if !ok {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *dashboardHandlers) EndResize(w http.ResponseWriter, r *http.Request) {
	resizeID := chi.URLParam(r, "sessionId")
	uid, sid := ids(r)
	if err := h.DashboardSvc.EndResize(r.Context(), uid, sid, resizeID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) AddDepartment(w http.ResponseWriter, r *http.Request) {
	var req dto.AddDepartmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid, sid := ids(r)
	depts, err := h.DashboardSvc.AddDepartment(r.Context(), uid, sid, req.Name)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, depts)
}

func (h *dashboardHandlers) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi routes on RawPath when the path has escapes the default encoding
	// would not produce, and the param is still escaped in that case only.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	uid, sid := ids(r)
	depts, err := h.DashboardSvc.DeleteDepartment(r.Context(), uid, sid, name)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, depts)
}

func (h *dashboardHandlers) GetDepartmentCatalog(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.DepartmentCatalog())
}

// GetCardKinds returns the add-card catalog with each kind's template.
func (h *dashboardHandlers) GetCardKinds(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.CardKinds())
}

func (h *dashboardHandlers) GetPurposes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.Purposes())
}
