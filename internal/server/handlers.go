package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/commcap/prospector/internal/access"
	"github.com/commcap/prospector/internal/billing"
	"github.com/commcap/prospector/internal/metrics"
	"github.com/commcap/prospector/internal/model"
	"github.com/commcap/prospector/pkg/places"
)

// webhook payloads are tiny; anything larger is not from Stripe.
const maxWebhookBody = 1 << 20

type searchRequest struct {
	City      string `json:"city"`
	Industry  string `json:"industry"`
	UserEmail string `json:"userEmail,omitempty"`
}

type apolloRequest struct {
	Domain string `json:"domain"`
}

type checkoutRequest struct {
	Plan      string `json:"plan"`
	UserEmail string `json:"userEmail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.City == "" || req.Industry == "" {
		writeError(w, http.StatusBadRequest, "city and industry are required")
		return
	}

	// Subscription gate. Auth happens upstream; the request carries the
	// verified email.
	if req.UserEmail != "" {
		user, err := s.store.GetUserByEmail(r.Context(), req.UserEmail)
		if err != nil {
			zap.L().Error("gate lookup failed", zap.String("email", req.UserEmail), zap.Error(err))
			metrics.SearchesTotal.WithLabelValues("error").Inc()
			writeError(w, http.StatusInternalServerError, "failed to search")
			return
		}
		if access.Blocked(user, time.Now()) {
			metrics.SearchesTotal.WithLabelValues("blocked").Inc()
			writeError(w, http.StatusForbidden, "subscription required")
			return
		}
		if err := s.store.IncrementSearches(r.Context(), req.UserEmail); err != nil {
			zap.L().Warn("search counter update failed", zap.String("email", req.UserEmail), zap.Error(err))
		}
	}

	query := req.Industry + " in " + req.City
	start := time.Now()
	resp, err := s.places.TextSearch(r.Context(), query)
	metrics.ProviderCallDuration.WithLabelValues("places").Observe(time.Since(start).Seconds())
	if err != nil {
		zap.L().Error("places search failed", zap.String("query", query), zap.Error(err))
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "failed to search")
		return
	}

	candidates := make([]model.Business, 0, len(resp.Places))
	for _, p := range resp.Places {
		candidates = append(candidates, placeToBusiness(p))
	}

	prospects := s.pipeline.EnrichAll(r.Context(), candidates)
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, prospects)
}

// handleApollo relays a single-domain organization search for the
// frontend, which must not hold the API key.
func (s *Server) handleApollo(w http.ResponseWriter, r *http.Request) {
	var req apolloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Domain == "" {
		writeError(w, http.StatusBadRequest, "domain is required")
		return
	}

	start := time.Now()
	resp, err := s.orgs.SearchByDomain(r.Context(), req.Domain)
	metrics.ProviderCallDuration.WithLabelValues("apollo").Observe(time.Since(start).Seconds())
	if err != nil {
		zap.L().Error("apollo search failed", zap.String("domain", req.Domain), zap.Error(err))
		writeError(w, http.StatusBadGateway, "organization lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Plan == "" || req.UserEmail == "" {
		writeError(w, http.StatusBadRequest, "plan and userEmail are required")
		return
	}

	url, err := s.checkout.CreateSession(r.Context(), req.Plan, req.UserEmail)
	if err != nil {
		zap.L().Error("checkout session failed",
			zap.String("plan", req.Plan),
			zap.String("email", req.UserEmail),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		writeError(w, http.StatusBadRequest, "missing stripe signature")
		return
	}

	if err := s.webhooks.Process(r.Context(), payload, sig); err != nil {
		if eris.Is(err, billing.ErrBadSignature) {
			writeError(w, http.StatusBadRequest, "webhook signature verification failed")
			return
		}
		zap.L().Error("webhook processing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func placeToBusiness(p places.Place) model.Business {
	return model.Business{
		ID:      p.ID,
		Name:    p.DisplayName.Text,
		Address: p.FormattedAddress,
		Phone:   p.NationalPhoneNumber,
		Rating:  p.Rating,
		Types:   p.Types,
		Website: p.WebsiteURI,
		MapsURL: p.GoogleMapsURI,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
