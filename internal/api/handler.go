package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scambait/honeypot-api/internal/callback"
	"scambait/honeypot-api/internal/catalog"
	"scambait/honeypot-api/internal/detect"
	"scambait/honeypot-api/internal/domain"
	"scambait/honeypot-api/internal/intel"
	"scambait/honeypot-api/internal/reply"
	"scambait/honeypot-api/internal/session"
)

// Handler holds the dependencies shared across all HTTP handlers.
type Handler struct {
	catalog  *catalog.Catalog
	matcher  *detect.Matcher
	scorer   *detect.Scorer
	sessions *session.Store
	policy   reply.Policy
	notifier *callback.Notifier
}

// NewHandler creates a Handler wired to the given dependencies.
func NewHandler(cat *catalog.Catalog, m *detect.Matcher, sc *detect.Scorer, st *session.Store, p reply.Policy, n *callback.Notifier) *Handler {
	return &Handler{catalog: cat, matcher: m, scorer: sc, sessions: st, policy: p, notifier: n}
}

// ─── POST /api/v1/analyze ────────────────────────────────────────────────────

// Analyze runs one inbound scammer message through the full pipeline:
// match → extract → score → session update → reply selection → notification
// eligibility. It always produces a reply; empty or unparseable message text
// degrades to zero confidence and the generic persona reply, never an error
// beyond malformed JSON.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "INVALID_JSON", "request body must be valid JSON")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "VALIDATION_ERROR", "sessionId is required")
		return
	}

	text := req.Message.Text

	result := h.matcher.Match(text)
	artifacts := intel.Extract(text)
	turnScore, _, explanation := h.scorer.Score(result, text, artifacts)

	sess := h.sessions.Update(req.SessionID, text, result, artifacts, turnScore)

	confidence := sess.CumulativeRisk
	isScam := confidence > domain.ScamThreshold

	baitReply := h.policy.Select(sess, result)

	if callback.ShouldNotify(isScam, sess) {
		h.notifier.NotifyAsync(sess)
	}

	slog.Info("message analyzed",
		"session_id", req.SessionID,
		"turn", sess.TurnCount,
		"turn_score", turnScore,
		"cumulative_risk", confidence,
		"is_scam", isScam,
		"categories", result.Categories,
	)

	ok(w, domain.AnalyzeResponse{
		Status:            "success",
		Reply:             baitReply,
		IsScam:            isScam,
		ConfidenceScore:   confidence,
		ConfidencePercent: fmt.Sprintf("%d%%", confidence),
		MatchedCategories: result.Categories,
		ExtractedIntel:    artifacts,
		Explanation:       explanation,
	})
}

// ─── GET /api/v1/sessions ────────────────────────────────────────────────────

// ListSessions returns a summary for every tracked session, highest risk
// first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ok(w, h.sessions.List())
}

// ─── GET /api/v1/sessions/{id} ───────────────────────────────────────────────

// GetSession returns the accumulated state for one session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, exists := h.sessions.Snapshot(id)
	if !exists {
		notFound(w, fmt.Sprintf("session '%s' not found", id))
		return
	}
	ok(w, sess)
}

// ─── POST /api/v1/admin/reload ───────────────────────────────────────────────

// ReloadCatalog forces a re-read of the catalog overlay file. Useful when
// file watching is disabled or the overlay lives on a filesystem that
// doesn't deliver change events.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(); err != nil {
		slog.Error("manual catalog reload failed", "error", err)
		internalError(w)
		return
	}
	ok(w, map[string]string{"status": "reloaded"})
}
