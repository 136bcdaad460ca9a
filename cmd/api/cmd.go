package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/dashboard-backend/internal/bootstrap"
	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/internal/handlers"
	"github.com/GregMSThompson/dashboard-backend/internal/middleware"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
	"github.com/GregMSThompson/dashboard-backend/internal/router"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// services
	dserv := services.NewDashboardService(bs.Layout, bs.Templates, cfg.SessionTTL)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.DashboardSvc = dserv

	authn := middleware.StaticUID(cfg.DevUID)
	if !cfg.AuthDisabled {
		authn = middleware.NewMiddleware(deps.Firebase).FirebaseAuth
	} else {
		bs.Log.Warn("authentication disabled", "uid", cfg.DevUID)
	}

	// router
	r := router.NewRouter(deps, authn)
	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
