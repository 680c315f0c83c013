// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/danielhkuo/toasty-votes/cliparse"
	"github.com/danielhkuo/toasty-votes/handlers"
	"github.com/danielhkuo/toasty-votes/middleware"
	"github.com/danielhkuo/toasty-votes/telemetry"
	"github.com/danielhkuo/toasty-votes/voting"
)

func NewRouter(cfg cliparse.Config, votingSvc *voting.Service, resolver middleware.ActorResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	allowed := cfg.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))

	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}
	r.Use(middleware.WithLogging)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(votingSvc)
	votingHandler := handlers.NewVotingHandler(votingSvc)
	resultsHandler := handlers.NewResultsHandler(votingSvc)
	dashboardHandler := handlers.NewDashboardHandler(votingSvc)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())
	r.Get("/categories", sessionHandler.Categories)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(resolver))

		r.Get("/dashboard", dashboardHandler.Dashboard)
		r.Post("/sessions", sessionHandler.CreateSession)

		r.Route("/sessions/{code}", func(r chi.Router) {
			r.Get("/", sessionHandler.Ballot)
			r.Post("/votes", votingHandler.CastVotes)
			r.Get("/results", resultsHandler.Results)

			// Owner operations
			r.Get("/manage", sessionHandler.Manage)
			r.Post("/close", sessionHandler.ClosePolls)
			r.Post("/toggle-results", sessionHandler.ToggleResults)
		})
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("toasty-votes API v1"))
	})

	return otelhttp.NewHandler(r, telemetry.ServiceName)
}
