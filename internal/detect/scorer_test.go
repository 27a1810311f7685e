package detect_test

import (
	"strings"
	"testing"

	"scambait/honeypot-api/internal/catalog"
	"scambait/honeypot-api/internal/detect"
	"scambait/honeypot-api/internal/domain"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func newPipeline() (*detect.Matcher, *detect.Scorer) {
	c := catalog.New()
	return detect.NewMatcher(c), detect.NewScorer(c)
}

// scoreText runs the full match-then-score pipeline for one message.
func scoreText(t *testing.T, text string, artifacts domain.ArtifactBundle) (int, []domain.RiskFactor, string) {
	t.Helper()
	m, s := newPipeline()
	return s.Score(m.Match(text), text, artifacts)
}

func factorNames(factors []domain.RiskFactor) []string {
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.Name
	}
	return names
}

func hasFactorName(factors []domain.RiskFactor, name string) bool {
	for _, f := range factors {
		if f.Name == name {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

// ─── Clamping ─────────────────────────────────────────────────────────────────

func TestScore_ClampedTo100(t *testing.T) {
	url := "https://fake-bank.com"
	score, factors, _ := scoreText(t,
		"Your bank account will be blocked today. Verify immediately. Click https://fake-bank.com",
		domain.ArtifactBundle{URL: strPtr(url)})

	// threat 40 + financial_urgency 40 + diversity 10 + data_exfiltration 15.
	if score != 100 {
		t.Errorf("expected clamp to 100, got %d (factors %v)", score, factorNames(factors))
	}
	for _, want := range []string{
		domain.CategoryThreat, "financial_urgency", "signal_diversity", "data_exfiltration",
	} {
		if !hasFactorName(factors, want) {
			t.Errorf("expected factor %s, got %v", want, factorNames(factors))
		}
	}
}

func TestScore_BenignText_Zero(t *testing.T) {
	score, factors, explanation := scoreText(t, "see you at lunch tomorrow", domain.ArtifactBundle{})

	if score != 0 {
		t.Errorf("expected 0, got %d", score)
	}
	if len(factors) != 0 {
		t.Errorf("expected no factors, got %v", factorNames(factors))
	}
	if explanation != "Risk score 0. No scam indicators detected." {
		t.Errorf("unexpected explanation: %q", explanation)
	}
}

// ─── Base categories ──────────────────────────────────────────────────────────

func TestScore_LotteryPlusUrgency_ExactBoundaryValue(t *testing.T) {
	// lottery 50 + urgency_only 10, two signals so no diversity bonus.
	score, _, _ := scoreText(t, "You won. Urgent.", domain.ArtifactBundle{})
	if score != 60 {
		t.Errorf("expected exactly 60, got %d", score)
	}
}

func TestScore_DiversityBonus_At3Signals(t *testing.T) {
	// lottery 50 + urgency_only 10 + diversity 10.
	score, factors, _ := scoreText(t, "You won a prize. Urgent.", domain.ArtifactBundle{})
	if score != 70 {
		t.Errorf("expected 70, got %d (factors %v)", score, factorNames(factors))
	}
	if !hasFactorName(factors, "signal_diversity") {
		t.Errorf("expected signal_diversity, got %v", factorNames(factors))
	}
}

func TestScore_Sextortion_BaseWeight(t *testing.T) {
	_, factors, _ := scoreText(t, "I have your private video", domain.ArtifactBundle{})

	for _, f := range factors {
		if f.Name == domain.CategorySextortion {
			if f.ScoreDelta != 50 {
				t.Errorf("expected +50 for sextortion, got %d", f.ScoreDelta)
			}
			return
		}
	}
	t.Errorf("expected sextortion factor, got %v", factorNames(factors))
}

// ─── Compound escalations ─────────────────────────────────────────────────────

func TestScore_DigitalArrest_EscalatesWithAuthority(t *testing.T) {
	_, plain, _ := scoreText(t, "Customs seized your parcel", domain.ArtifactBundle{})
	if hasFactorName(plain, "digital_arrest_escalation") {
		t.Errorf("escalation should need authority/threat, got %v", factorNames(plain))
	}

	_, escalated, _ := scoreText(t, "Customs seized your parcel, police officer on the line", domain.ArtifactBundle{})
	if !hasFactorName(escalated, "digital_arrest_escalation") {
		t.Errorf("expected digital_arrest_escalation, got %v", factorNames(escalated))
	}
	if !hasFactorName(escalated, domain.CategoryAuthority) {
		t.Errorf("expected authority base factor, got %v", factorNames(escalated))
	}
}

func TestScore_Investment_EscalatesWithGroupTerms(t *testing.T) {
	// investment 30 + escalation 30 + diversity 10.
	score, factors, _ := scoreText(t, "Invest in crypto, join our whatsapp group", domain.ArtifactBundle{})
	if !hasFactorName(factors, "investment_escalation") {
		t.Errorf("expected investment_escalation, got %v", factorNames(factors))
	}
	if score != 70 {
		t.Errorf("expected 70, got %d (factors %v)", score, factorNames(factors))
	}
}

func TestScore_Job_EscalatesWithFeeTerms(t *testing.T) {
	_, factors, _ := scoreText(t, "Job offer on telegram, small registration fee", domain.ArtifactBundle{})
	if !hasFactorName(factors, "job_escalation") {
		t.Errorf("expected job_escalation, got %v", factorNames(factors))
	}
}

func TestScore_UtilityWithThreat_HighWeight(t *testing.T) {
	_, factors, _ := scoreText(t, "Electricity connection will be disconnected tonight", domain.ArtifactBundle{})

	for _, f := range factors {
		if f.Name == "utility_threat" {
			if f.ScoreDelta != 50 {
				t.Errorf("expected +50 for utility_threat, got %d", f.ScoreDelta)
			}
			return
		}
	}
	t.Errorf("expected utility_threat, got %v", factorNames(factors))
}

func TestScore_UtilityWithPressureOnly_TokenWeight(t *testing.T) {
	// A plain "pay your bill today" reminder must stay low.
	score, factors, _ := scoreText(t, "Pay your electricity bill today", domain.ArtifactBundle{})

	if hasFactorName(factors, "utility_threat") {
		t.Errorf("no threat present, utility_threat should not fire: %v", factorNames(factors))
	}
	if !hasFactorName(factors, "utility_pressure") {
		t.Errorf("expected utility_pressure, got %v", factorNames(factors))
	}
	if score > 30 {
		t.Errorf("bill reminder should score low, got %d", score)
	}
}

func TestScore_Impersonation_PressureVsPlain(t *testing.T) {
	_, pressure, _ := scoreText(t, "Mom I lost phone, send money now", domain.ArtifactBundle{})
	if !hasFactorName(pressure, "impersonation_pressure") {
		t.Errorf("expected impersonation_pressure, got %v", factorNames(pressure))
	}

	score, plain, _ := scoreText(t, "hi mom how is the family", domain.ArtifactBundle{})
	if !hasFactorName(plain, "impersonation_plain") {
		t.Errorf("expected impersonation_plain, got %v", factorNames(plain))
	}
	if score != 10 {
		t.Errorf("ordinary family chat should score 10, got %d", score)
	}
}

// ─── Generic fallback ─────────────────────────────────────────────────────────

func TestScore_GenericFallback_FinancialUrgency(t *testing.T) {
	_, factors, _ := scoreText(t, "Transfer the amount immediately", domain.ArtifactBundle{})
	if !hasFactorName(factors, "financial_urgency") {
		t.Errorf("expected financial_urgency, got %v", factorNames(factors))
	}
}

func TestScore_GenericFallback_SuppressedBySpecializedScheme(t *testing.T) {
	// Job wording present, so fallback must stay out even with pay+today.
	_, factors, _ := scoreText(t, "Job offer, pay the fee today", domain.ArtifactBundle{})

	for _, name := range []string{"financial_urgency", "financial_only", "urgency_only"} {
		if hasFactorName(factors, name) {
			t.Errorf("fallback %s should not fire alongside job, got %v", name, factorNames(factors))
		}
	}
	if !hasFactorName(factors, domain.CategoryJob) {
		t.Errorf("expected job factor, got %v", factorNames(factors))
	}
}

func TestScore_GenericFallback_FinancialOnly(t *testing.T) {
	score, factors, _ := scoreText(t, "Hello, I am calling from your bank.", domain.ArtifactBundle{})
	if !hasFactorName(factors, "financial_only") {
		t.Errorf("expected financial_only, got %v", factorNames(factors))
	}
	if score != 20 {
		t.Errorf("expected 20, got %d", score)
	}
}

// ─── Obfuscation and data exfiltration ────────────────────────────────────────

func TestScore_Obfuscation_Adds15(t *testing.T) {
	score, factors, _ := scoreText(t, "just p@y me the m0ney", domain.ArtifactBundle{})
	if !hasFactorName(factors, domain.CategoryObfuscation) {
		t.Errorf("expected obfuscation, got %v", factorNames(factors))
	}
	if score != 15 {
		t.Errorf("expected 15, got %d", score)
	}
}

func TestScore_DataExfiltration_NeedsArtifactAndPressure(t *testing.T) {
	handle := domain.ArtifactBundle{PaymentHandle: strPtr("scammer@upi")}

	_, both, _ := scoreText(t, "Transfer the amount now", handle)
	if !hasFactorName(both, "data_exfiltration") {
		t.Errorf("artifact + urgency should fire data_exfiltration, got %v", factorNames(both))
	}

	_, noPressure, _ := scoreText(t, "Transfer the amount", handle)
	if hasFactorName(noPressure, "data_exfiltration") {
		t.Errorf("no pressure wording, data_exfiltration should not fire: %v", factorNames(noPressure))
	}

	_, noArtifact, _ := scoreText(t, "Transfer the amount now", domain.ArtifactBundle{})
	if hasFactorName(noArtifact, "data_exfiltration") {
		t.Errorf("no artifact, data_exfiltration should not fire: %v", factorNames(noArtifact))
	}
}

func TestScore_DataExfiltration_BankAccountAloneDoesNotFire(t *testing.T) {
	bank := domain.ArtifactBundle{BankAccount: strPtr("123456789012")}
	_, factors, _ := scoreText(t, "Transfer the amount now", bank)
	if hasFactorName(factors, "data_exfiltration") {
		t.Errorf("bank account alone should not fire data_exfiltration: %v", factorNames(factors))
	}
}

// ─── Explanation ──────────────────────────────────────────────────────────────

func TestScore_ExplanationListsFactorDeltas(t *testing.T) {
	_, _, explanation := scoreText(t, "You won a prize. Urgent.", domain.ArtifactBundle{})

	if !strings.HasPrefix(explanation, "Risk score 70") {
		t.Errorf("explanation should open with the score, got %q", explanation)
	}
	if !strings.Contains(explanation, "(+50)") {
		t.Errorf("explanation should show the lottery delta, got %q", explanation)
	}
	if !strings.Contains(explanation, "prize") {
		t.Errorf("explanation should list matched keywords, got %q", explanation)
	}
}
