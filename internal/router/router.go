package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/dashboard-backend/internal/handlers"
	"github.com/GregMSThompson/dashboard-backend/internal/middleware"
)

// NewRouter wires the dashboard routes behind authn. authn sets the caller's
// uid on the request context.
func NewRouter(deps *handlers.Deps, authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	dsh := handlers.NewDashboardHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.Session)
		r.Mount("/dashboard", dsh.DashboardRoutes())
	})
	return r
}
