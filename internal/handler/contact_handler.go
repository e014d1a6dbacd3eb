package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/metrixmedia/backend/internal/metrics"
	"github.com/metrixmedia/backend/internal/ratelimit"
	"github.com/metrixmedia/backend/internal/service"
)

// DefaultMaxBodyBytes caps the contact request body when no limit is given.
const DefaultMaxBodyBytes = 64 << 10

// ContactConfig tunes the contact endpoint.
type ContactConfig struct {
	MaxBodyBytes      int64
	TrustedProxyCount int
}

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
	limiter        ratelimit.Limiter
	metrics        *metrics.Metrics
	cfg            ContactConfig
}

// NewContactHandler creates a ContactHandler. m may be nil.
func NewContactHandler(contactService service.ContactService, limiter ratelimit.Limiter, cfg ContactConfig, m *metrics.Metrics) *ContactHandler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &ContactHandler{contactService: contactService, limiter: limiter, metrics: m, cfg: cfg}
}

// Submit handles /api/contact. Only POST is accepted; the request is
// rate limited per client, then validated, screened and stored.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeFailure(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	ctx := r.Context()
	key := ClientIP(r, h.cfg.TrustedProxyCount)
	allowed, err := h.limiter.Allow(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "rate limiter unavailable, allowing request", "client", key, "error", err)
		allowed = true
	}
	if !allowed {
		h.metrics.Submission(metrics.OutcomeRateLimited)
		writeFailure(w, http.StatusTooManyRequests, msgTooManyRequests)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.Submission(metrics.OutcomeInvalid)
			writeFailure(w, http.StatusRequestEntityTooLarge, msgPayloadTooLarge)
			return
		}
		slog.WarnContext(ctx, "reading contact request body", "error", err)
		h.metrics.Submission(metrics.OutcomeInvalid)
		writeFailure(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		h.metrics.Submission(metrics.OutcomeInvalid)
		writeFailure(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	draft, err := service.ValidateContact(payload)
	if err != nil {
		resp := contactResponse{OK: false, Message: msgInvalidForm}
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			resp.Errors = ve.Fields
		}
		h.metrics.Submission(metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	outcome, err := h.contactService.Submit(ctx, draft)
	if err != nil {
		slog.ErrorContext(ctx, "contact submission failed", "client", key, "error", err)
		h.metrics.Submission(metrics.OutcomeError)
		writeFailure(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	switch outcome {
	case service.OutcomeSpam:
		h.metrics.Submission(metrics.OutcomeSpam)
	default:
		h.metrics.Submission(metrics.OutcomeAccepted)
	}
	writeJSON(w, http.StatusOK, contactResponse{OK: true, Message: msgThankYou})
}
