package api

import (
	"net/http"
	"time"

	"tour-route-service/internal/api/handlers"
	"tour-route-service/internal/metrics"
	"tour-route-service/internal/ports"
	"tour-route-service/internal/services"
)

// Deps carries everything the HTTP layer needs. Cache is optional; a nil
// cache disables result caching without touching the handlers.
type Deps struct {
	Tours           ports.TourStore
	Venues          ports.VenueCatalog
	Cache           ports.ResultCache
	OptimizeTimeout time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	optimizer := services.NewOptimizer(deps.Tours, deps.Venues)

	venueHandler := &handlers.VenueHandler{
		Catalog: deps.Venues,
		Tours:   deps.Tours,
	}
	optimizeHandler := &handlers.OptimizeHandler{
		Optimizer: optimizer,
		Tours:     deps.Tours,
		Cache:     deps.Cache,
		Timeout:   deps.OptimizeTimeout,
	}
	applyHandler := &handlers.ApplyHandler{
		Optimizer: optimizer,
		Cache:     deps.Cache,
		Timeout:   deps.OptimizeTimeout,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/venues", venueHandler.List)
	mux.HandleFunc("/tours/stops", venueHandler.Stops)
	mux.HandleFunc("/tours/optimize", optimizeHandler.Optimize)
	mux.HandleFunc("/tours/apply", applyHandler.Apply)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
