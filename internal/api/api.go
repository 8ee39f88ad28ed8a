package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"frxai/pkg/frxai"
)

// Options tunes the router. The zero value allows any origin.
type Options struct {
	AllowedOrigins []string
	Version        string
}

// NewRouter builds the HTTP API router.
func NewRouter(core *frxai.Core, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	logger := core.Logger().With("component", "api")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type"},
		AllowCredentials: false,
	}))

	h := &handler{core: core, version: opts.Version}

	r.Get("/api/health", h.health)

	r.Post("/api/analyze", h.analyze)
	r.Get("/api/news", h.news)

	r.Get("/api/settings", h.getSettings)
	r.Put("/api/settings", h.updateSettings)

	r.Get("/api/onboarding", h.getOnboarding)
	r.Post("/api/onboarding/complete", h.completeOnboarding)

	r.Get("/api/translations/{lang}", h.translations)

	r.Handle("/metrics", promhttp.HandlerFor(core.Registry(), promhttp.HandlerOpts{}))

	return r
}

type handler struct {
	core    *frxai.Core
	version string
}
