// Package main provides the API router setup.
package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/boilerbrain-ai/boilerbrain/cmd/boilerbrain-api/handlers"
	"github.com/boilerbrain-ai/boilerbrain/internal/cache"
	"github.com/boilerbrain-ai/boilerbrain/internal/chat"
	"github.com/boilerbrain-ai/boilerbrain/internal/config"
	"github.com/boilerbrain-ai/boilerbrain/internal/llm"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
	"github.com/boilerbrain-ai/boilerbrain/internal/retrieval"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(
	logger *observability.Logger,
	cfg *config.Config,
	db *sql.DB,
	cacheClient cache.Client,
	generator llm.Generator,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"boilerbrain"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	sessions := storage.NewSessionRepository(db)
	runner := storage.NewQueryRunner(db)
	sources := storage.NewSourceRepository(db)

	chatService := chat.NewService(logger, sessions, runner, generator, nil)
	lookupService := retrieval.NewLookupService(logger, sources, cacheClient, retrieval.LookupConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	chatHandler := handlers.NewChatHandler(logger, chatService)
	faultsHandler := handlers.NewFaultsHandler(logger, lookupService)
	calcHandler := handlers.NewCalcHandler(logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/faults/lookup", faultsHandler.Lookup)

		r.Route("/calc", func(r chi.Router) {
			r.Post("/gas-rate", calcHandler.GasRate)
			r.Post("/pipe-size", calcHandler.PipeSize)
			r.Post("/pressure-drop", calcHandler.PressureDrop)
			r.Post("/diversity", calcHandler.Diversity)
		})
	})

	return r
}
