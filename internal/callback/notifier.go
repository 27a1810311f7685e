// Package callback delivers the intelligence report to the external
// reporting endpoint once a session qualifies.
//
// Delivery is fire-and-forget: it runs in a goroutine so it never blocks the
// reply path, applies a bounded timeout so an unreachable collaborator can't
// pin resources, and swallows failures after logging them. A production
// system would use a persistent queue with retry; the honeypot deliberately
// does not.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"scambait/honeypot-api/internal/domain"
)

const agentNotes = "Scam intent detected via heuristic engine. Autonomous agent engaged to extract intelligence."

// Notifier sends intelligence reports to the configured endpoint.
type Notifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// New creates a Notifier. An empty url disables delivery entirely.
func New(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// ShouldNotify reports whether the session has earned a report: a confirmed
// scam verdict plus either captured intelligence or a conversation long
// enough (5+ turns) to be worth recording on its own.
func ShouldNotify(isScam bool, sess domain.Session) bool {
	if !isScam {
		return false
	}
	return !sess.KnownArtifacts.Empty() || sess.TurnCount >= 5
}

// NotifyAsync fires the report in the background. sess must be a snapshot
// owned by the caller; the reply to the scammer has already been computed and
// is never affected by what happens here.
func (n *Notifier) NotifyAsync(sess domain.Session) {
	if n.url == "" {
		return
	}
	go n.send(sess)
}

func (n *Notifier) send(sess domain.Session) {
	report := buildReport(sess)

	body, err := json.Marshal(report)
	if err != nil {
		slog.Error("callback: failed to marshal report", "session_id", sess.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		slog.Error("callback: failed to build request", "session_id", sess.ID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Warn("callback: delivery failed", "session_id", sess.ID, "url", n.url, "error", err)
		return
	}
	defer resp.Body.Close()

	slog.Info("callback: delivered",
		"report_id", report.ReportID,
		"session_id", sess.ID,
		"status", resp.StatusCode,
		"turns", sess.TurnCount,
		"risk", sess.CumulativeRisk,
	)
}

// buildReport flattens a session snapshot into the reporting schema.
func buildReport(sess domain.Session) domain.IntelligenceReport {
	return domain.IntelligenceReport{
		ReportID:               uuid.NewString(),
		SessionID:              sess.ID,
		ScamDetected:           sess.CumulativeRisk > domain.ScamThreshold,
		TotalMessagesExchanged: sess.TurnCount,
		ExtractedIntelligence: domain.ReportedIntelligence{
			BankAccounts:       asList(sess.KnownArtifacts.BankAccount),
			UpiIDs:             asList(sess.KnownArtifacts.PaymentHandle),
			PhishingLinks:      asList(sess.KnownArtifacts.URL),
			PhoneNumbers:       asList(sess.KnownArtifacts.PhoneNumber),
			SuspiciousKeywords: append([]string{}, sess.KnownCategories...),
		},
		AgentNotes: agentNotes,
	}
}

func asList(p *string) []string {
	if p == nil {
		return []string{}
	}
	return []string{*p}
}
