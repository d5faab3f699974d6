package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/point-ledger/internal/api/handlers"
	"github.com/baharkarakas/point-ledger/internal/config"
	"github.com/baharkarakas/point-ledger/internal/metrics"
	"github.com/baharkarakas/point-ledger/internal/middleware"
)

type RouterDeps struct {
	Cfg      config.Config
	PointSvc handlers.PointService
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.Log, middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(deps.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler())
	r.Handle("/metrics", metrics.Handler())

	r.Route("/point/{id}", func(r chi.Router) {
		r.Method(http.MethodGet, "/", handlers.NewBalanceHandler(deps.PointSvc))
		r.Method(http.MethodGet, "/histories", handlers.NewHistoriesHandler(deps.PointSvc))
		r.Method(http.MethodPatch, "/charge", handlers.NewChargeHandler(deps.PointSvc))
		r.Method(http.MethodPatch, "/use", handlers.NewUseHandler(deps.PointSvc))
	})

	return r
}
