package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fitforge/fitplan-backend/internal/config"
	"github.com/fitforge/fitplan-backend/internal/transport/middleware"
)

// RouterConfig carries the transport-level settings the router needs.
type RouterConfig struct {
	CORS               config.CORSConfig
	RateLimitPerMinute int // zero disables rate limiting
	Version            string
}

// NewRouter assembles the HTTP routing table with the standard middleware
// stack: request IDs, recovery, CORS, access logging, caller identity, and
// optional per-IP rate limiting. RequestID sits outside Recovery so panic
// logs carry the request id.
func NewRouter(logger *slog.Logger, plans planService, db dbPinger, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	health := NewHealthHandler(db, cfg.Version)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	h := NewPlanHandler(plans, logger)
	mux.HandleFunc("POST /plans", h.Create)
	mux.HandleFunc("GET /plans", h.List)
	mux.HandleFunc("GET /plans/{id}", h.Get)
	mux.HandleFunc("PATCH /plans/{id}", h.Update)
	mux.HandleFunc("DELETE /plans/{id}", h.Delete)
	mux.HandleFunc("POST /plans/{id}/exercises", h.AddExercise)
	// The literal "order" segment must be registered alongside the
	// {exerciseID} wildcard; ServeMux prefers the more specific pattern.
	mux.HandleFunc("PUT /plans/{id}/exercises/order", h.Reorder)
	mux.HandleFunc("PATCH /plans/{id}/exercises/{exerciseID}", h.UpdateExercise)
	mux.HandleFunc("DELETE /plans/{id}/exercises/{exerciseID}", h.RemoveExercise)

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Logger(logger),
		middleware.Identity,
	}
	if cfg.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(5 * time.Minute)
		mws = append(mws, limiter.Limit(cfg.RateLimitPerMinute))
	}

	return middleware.Chain(mws...)(mux)
}
