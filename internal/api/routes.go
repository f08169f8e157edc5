package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
// Health endpoints are unauthenticated; everything under /v1 requires a
// project credential.
func SetupRoutes(h *DecisionHandler, health *HealthChecker) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS. The cancel flow runs in customer browsers on arbitrary project
	// domains, so origins are reflected here; the per-project allowlist is
	// enforced by the credential middleware, which sees the resolved project.
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return true
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health checks (no auth required)
	if health != nil {
		r.Get("/health", health.HandleHealth)
		r.Get("/health/live", health.HandleLiveness)
		r.Get("/health/ready", health.HandleReadiness)
	}

	// Decision API (protected by project credential)
	r.Route("/v1", func(r chi.Router) {
		r.Use(h.RequireProject)
		r.Post("/decide", h.HandleDecide)
		r.Get("/offers/preview", h.HandlePreview)
	})

	return r
}
