package api

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/neexbeast/travel-compass/internal/metrics"
)

// NewRouter builds the chi router. Every application route lives under
// /api; /metrics serves the Prometheus registry.
func NewRouter(handlers *Handlers, origins []string, db, redis Pinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(Instrument(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(origins)))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.Root)
		r.Get("/health", HealthHandlerFunc(db, redis, log))
		r.Post("/recommendations", handlers.CreateRecommendation)
		r.Get("/recommendations/history", handlers.RecommendationHistory)
		r.Post("/status", handlers.CreateStatusCheck)
		r.Get("/status", handlers.ListStatusChecks)
	})

	return r
}

// corsOptions allows credentials for every configured origin. A wildcard
// entry is served by echoing the request origin, since browsers reject a
// literal "*" on credentialed responses.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if slices.Contains(origins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
	}
	return opts
}
