package routes

import (
	"net/http"

	"breakerbox/internal/config"
	"breakerbox/internal/handlers"
	"breakerbox/internal/logger"
	"breakerbox/internal/metrics"
	mdlwr "breakerbox/internal/middleware"
	"breakerbox/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(store services.PanelStore, verifier mdlwr.TokenVerifier, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	panelSvc := services.NewPanelService(store, cfg, logr.Component("panels"))
	panelHandler := handlers.NewPanelHandler(panelSvc, logr.Component("http"))
	authMW := mdlwr.NewAuthMiddleware(verifier, logr.Component("auth"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.MetricsEnabled {
		metrics.Init(nil)
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1/panels/{panelId}", func(r chi.Router) {
		r.Get("/grid", panelHandler.GetLayout)
		r.Get("/tandems", panelHandler.GetTandems)
		r.Get("/highlight", panelHandler.Highlight)
		r.Get("/schedule.xlsx", panelHandler.ExportSchedule)

		r.Route("/breakers/{breakerId}", func(r chi.Router) {
			r.Use(authMW.JWTAuth)
			r.Use(authMW.RequireEditor)
			r.Put("/position", panelHandler.MoveBreaker)
			r.Delete("/", panelHandler.DeleteBreaker)
		})
	})

	return r
}
