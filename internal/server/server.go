// Package server exposes the prospecting pipeline over HTTP for the
// web frontend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/commcap/prospector/internal/billing"
	"github.com/commcap/prospector/internal/config"
	"github.com/commcap/prospector/internal/enrich"
	"github.com/commcap/prospector/internal/store"
	"github.com/commcap/prospector/pkg/apollo"
	"github.com/commcap/prospector/pkg/places"
)

// Server holds the HTTP API's collaborators.
type Server struct {
	cfg      config.ServerConfig
	store    store.Store
	places   places.Client
	orgs     apollo.Client
	pipeline *enrich.Pipeline
	checkout billing.SessionCreator
	webhooks *billing.WebhookProcessor
}

// New builds a Server from its collaborators.
func New(cfg config.ServerConfig, st store.Store, pl places.Client, orgs apollo.Client,
	pipe *enrich.Pipeline, checkout billing.SessionCreator, webhooks *billing.WebhookProcessor) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		places:   pl,
		orgs:     orgs,
		pipeline: pipe,
		checkout: checkout,
		webhooks: webhooks,
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Stripe-Signature"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/apollo", s.handleApollo)
		r.Post("/create-checkout-session", s.handleCreateCheckout)
		r.Post("/stripe-webhook", s.handleStripeWebhook)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

// requestLogger logs each request with zap after it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
