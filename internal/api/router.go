package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dagmawibabi/telesight/internal/api/middleware"
	"github.com/dagmawibabi/telesight/internal/archive"
	"github.com/dagmawibabi/telesight/internal/config"
	"github.com/dagmawibabi/telesight/internal/handlers"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, cfg *config.Config, archives *archive.Registry) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(cfg.MaxUploadBytes))
	r.Use(middleware.RequireJSON)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	limiter := middleware.NewRateLimiter(logger, middleware.RateLimiterConfig{
		PerMinute: cfg.RateLimitPerMinute,
		Whitelist: cfg.RateLimitWhitelist,
	})
	r.Use(limiter.Middleware)

	// CORS - allow all origins (viewers are self-hosted frontends)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(archives)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/archives", func(r chi.Router) {
		r.Post("/", h.UploadArchive)
		r.Get("/", h.ListArchives)

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.DeleteArchive)

			r.Get("/fraud", h.Fraud)
			r.Get("/fraud/stats", h.FraudStats)
			r.Get("/manipulation", h.Manipulation)
			r.Get("/manipulation/stats", h.ManipulationStats)
			r.Get("/conflict", h.Conflict)
			r.Get("/conflict/stats", h.ConflictStats)
			r.Get("/exchanges", h.Exchanges)

			r.Get("/graph/replies", h.ReplyGraph)
			r.Get("/graph/forwards", h.ForwardGraph)

			r.Get("/members", h.Members)
			r.Get("/interactions", h.Interactions)
			r.Get("/topics", h.Topics)

			r.Get("/posts/{mid}/score", h.PostScore)
			r.Get("/posts/{mid}/similar", h.SimilarPosts)

			r.Get("/calendar", h.Calendar)
		})
	})

	return r
}
