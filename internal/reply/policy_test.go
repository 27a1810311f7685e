package reply_test

import (
	"strings"
	"testing"

	"scambait/honeypot-api/internal/domain"
	"scambait/honeypot-api/internal/reply"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

func matchOf(categories ...string) domain.MatchResult {
	return domain.MatchResult{Categories: categories, Signals: []string{}}
}

func sessionAt(risk int, artifacts domain.ArtifactBundle) domain.Session {
	return domain.Session{
		ID:             "s1",
		TurnCount:      3,
		CumulativeRisk: risk,
		KnownArtifacts: artifacts,
	}
}

// ─── Category policy ──────────────────────────────────────────────────────────

func TestCategoryPolicy_FearOutranksGreed(t *testing.T) {
	p := reply.NewCategoryPolicy()

	// Threat and lottery in the same message: the arrest persona wins.
	got := p.Select(domain.Session{}, matchOf(domain.CategoryLottery, domain.CategoryThreat))
	if !strings.Contains(got, "arrest") {
		t.Errorf("expected the arrest persona, got %q", got)
	}
}

func TestCategoryPolicy_PerCategoryPersonas(t *testing.T) {
	p := reply.NewCategoryPolicy()

	cases := []struct {
		name     string
		category string
		fragment string
	}{
		{"digital arrest", domain.CategoryDigitalArrest, "arrest me"},
		{"authority", domain.CategoryAuthority, "law-abiding"},
		{"sextortion", domain.CategorySextortion, "do not share that video"},
		{"lottery", domain.CategoryLottery, "is this real"},
		{"job", domain.CategoryJob, "registration fee"},
		{"utility", domain.CategoryUtility, "oxygen support"},
		{"impersonation", domain.CategoryImpersonation, "are you okay"},
		{"investment", domain.CategoryInvestment, "great return"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Select(domain.Session{}, matchOf(tc.category))
			if !strings.Contains(got, tc.fragment) {
				t.Errorf("Select(%s) = %q, want it to contain %q", tc.category, got, tc.fragment)
			}
		})
	}
}

func TestCategoryPolicy_UnmatchedFallsThrough(t *testing.T) {
	p := reply.NewCategoryPolicy()

	got := p.Select(domain.Session{}, matchOf(domain.CategoryFinancial, domain.CategoryUrgency))
	if !strings.Contains(got, "ready to cooperate") {
		t.Errorf("categories with no persona should get the generic reply, got %q", got)
	}

	got = p.Select(domain.Session{}, matchOf())
	if !strings.Contains(got, "ready to cooperate") {
		t.Errorf("empty match should get the generic reply, got %q", got)
	}
}

// ─── Escalation policy ────────────────────────────────────────────────────────

func TestEscalationPolicy_LowRisk_PlaysDumb(t *testing.T) {
	p := reply.NewEscalationPolicy()

	got := p.Select(sessionAt(10, domain.ArtifactBundle{}), matchOf())
	if got != reply.FallbackReply {
		t.Errorf("low risk should play dumb, got %q", got)
	}

	got = p.Select(sessionAt(29, domain.ArtifactBundle{}), matchOf())
	if got != reply.FallbackReply {
		t.Errorf("risk 29 is still the low band, got %q", got)
	}
}

func TestEscalationPolicy_MediumRisk_Stalls(t *testing.T) {
	p := reply.NewEscalationPolicy()

	for _, risk := range []int{30, 45, 59} {
		got := p.Select(sessionAt(risk, domain.ArtifactBundle{}), matchOf())
		if !strings.Contains(got, "very worried") {
			t.Errorf("risk %d should stall with worry, got %q", risk, got)
		}
	}
}

func TestEscalationPolicy_HighRisk_NoTarget_BaitsForHandle(t *testing.T) {
	p := reply.NewEscalationPolicy()

	// A phone number alone is not a payment target.
	sess := sessionAt(90, domain.ArtifactBundle{PhoneNumber: strPtr("9876543210")})
	got := p.Select(sess, matchOf())
	if !strings.Contains(got, "UPI ID or payment link") {
		t.Errorf("expected the direct bait, got %q", got)
	}
}

func TestEscalationPolicy_HighRisk_URLOnly_RedirectsToHandle(t *testing.T) {
	p := reply.NewEscalationPolicy()

	sess := sessionAt(90, domain.ArtifactBundle{URL: strPtr("https://bad.example")})
	got := p.Select(sess, matchOf())
	if !strings.Contains(got, "link isn't opening") {
		t.Errorf("expected the link-redirect stall, got %q", got)
	}
}

func TestEscalationPolicy_HighRisk_HandleKnown_FinalStall(t *testing.T) {
	p := reply.NewEscalationPolicy()

	sess := sessionAt(90, domain.ArtifactBundle{PaymentHandle: strPtr("x@upi")})
	got := p.Select(sess, matchOf())
	if !strings.Contains(got, "trying to send it now") {
		t.Errorf("expected the final stall, got %q", got)
	}

	// Handle plus link still stalls rather than redirecting.
	sess = sessionAt(90, domain.ArtifactBundle{
		PaymentHandle: strPtr("x@upi"),
		URL:           strPtr("https://bad.example"),
	})
	got = p.Select(sess, matchOf())
	if !strings.Contains(got, "trying to send it now") {
		t.Errorf("expected the final stall with both artifacts, got %q", got)
	}
}

func TestEscalationPolicy_BandBoundaryAt60(t *testing.T) {
	p := reply.NewEscalationPolicy()

	got := p.Select(sessionAt(60, domain.ArtifactBundle{}), matchOf())
	if !strings.Contains(got, "UPI ID or payment link") {
		t.Errorf("risk 60 enters the bait band, got %q", got)
	}
}
