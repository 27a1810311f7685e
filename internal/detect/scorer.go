package detect

import (
	"fmt"
	"strings"

	"scambait/honeypot-api/internal/catalog"
	"scambait/honeypot-api/internal/domain"
)

// Scorer combines matched categories into a single confidence score in
// [0, 100].
//
// Scoring philosophy: each rule contributes a non-negative delta; deltas are
// additive and the total is clamped. When several compound bonuses qualify on
// the same message they all apply — the cap does the limiting, not rule
// precedence. All weights come from the catalog's weight table.
type Scorer struct {
	cat *catalog.Catalog
}

// NewScorer creates a scorer backed by the given catalog.
func NewScorer(c *catalog.Catalog) *Scorer {
	return &Scorer{cat: c}
}

// Score calculates the confidence score for one message. It returns the
// clamped score (0-100), the contributing factors, and a human-readable
// explanation string. artifacts is this message's extraction result; a
// concrete payment ask alongside pressure wording scores higher than either
// alone.
//
// Deterministic for identical input: rules run in a fixed order and read only
// the sorted match result.
func (s *Scorer) Score(result domain.MatchResult, text string, artifacts domain.ArtifactBundle) (score int, factors []domain.RiskFactor, explanation string) {
	ctx := &ruleContext{
		result:     result,
		normalized: catalog.Normalize(text),
		artifacts:  artifacts,
		rules:      s.cat.Rules(),
	}

	rules := []func(*ruleContext) []domain.RiskFactor{
		ruleBaseCategories,
		ruleDigitalArrest,
		ruleInvestment,
		ruleJob,
		ruleUtility,
		ruleImpersonation,
		ruleGenericFallback,
		ruleDiversity,
		ruleObfuscation,
		ruleDataExfiltration,
	}

	for _, rule := range rules {
		factors = append(factors, rule(ctx)...)
	}

	total := 0
	for _, f := range factors {
		total += f.ScoreDelta
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return total, factors, buildExplanation(total, result, factors)
}

// ruleContext bundles one message's match result with the rule set snapshot,
// so each rule doesn't re-fetch catalog state.
type ruleContext struct {
	result     domain.MatchResult
	normalized string
	artifacts  domain.ArtifactBundle
	rules      *catalog.RuleSet
}

func (c *ruleContext) w() catalog.Weights { return c.rules.Weights }

// ─── Rule 1: independent base weights ────────────────────────────────────────

func ruleBaseCategories(ctx *ruleContext) []domain.RiskFactor {
	var factors []domain.RiskFactor
	w := ctx.w()

	bases := []struct {
		category string
		delta    int
		desc     string
	}{
		{domain.CategoryAuthority, w.Authority, "Authority-figure wording (police, court, officials)"},
		{domain.CategoryThreat, w.Threat, "Explicit threat wording (arrest, penalty, disconnection)"},
		{domain.CategoryLottery, w.Lottery, "Lottery/prize bait wording"},
		{domain.CategorySextortion, w.Sextortion, "Sextortion/blackmail wording"},
	}

	for _, b := range bases {
		if ctx.result.Has(b.category) {
			factors = append(factors, domain.RiskFactor{
				Name:        b.category,
				Description: b.desc,
				ScoreDelta:  b.delta,
			})
		}
	}

	return factors
}

// ─── Rule 2: digital-arrest escalation ───────────────────────────────────────

func ruleDigitalArrest(ctx *ruleContext) []domain.RiskFactor {
	if !ctx.result.Has(domain.CategoryDigitalArrest) {
		return nil
	}
	w := ctx.w()

	factors := []domain.RiskFactor{{
		Name:        domain.CategoryDigitalArrest,
		Description: "Digital-arrest wording (customs, parcel, narcotics)",
		ScoreDelta:  w.DigitalArrest,
	}}

	// Customs-parcel stories become the full "digital arrest" script once an
	// authority or a threat backs them up.
	if ctx.result.HasAny(domain.CategoryAuthority, domain.CategoryThreat) {
		factors = append(factors, domain.RiskFactor{
			Name:        "digital_arrest_escalation",
			Description: "Digital-arrest wording combined with authority/threat terms",
			ScoreDelta:  w.DigitalArrestEscalation,
		})
	}

	return factors
}

// ─── Rule 3: investment escalation ───────────────────────────────────────────

func ruleInvestment(ctx *ruleContext) []domain.RiskFactor {
	if !ctx.result.Has(domain.CategoryInvestment) {
		return nil
	}
	w := ctx.w()

	factors := []domain.RiskFactor{{
		Name:        domain.CategoryInvestment,
		Description: "Investment-scheme wording (trading, crypto, returns)",
		ScoreDelta:  w.Investment,
	}}

	if ctx.rules.EscalatorIn(domain.CategoryInvestment, ctx.normalized) {
		factors = append(factors, domain.RiskFactor{
			Name:        "investment_escalation",
			Description: "Investment wording combined with group-solicitation terms",
			ScoreDelta:  w.InvestmentEscalation,
		})
	}

	return factors
}

// ─── Rule 4: job-offer escalation ────────────────────────────────────────────

func ruleJob(ctx *ruleContext) []domain.RiskFactor {
	if !ctx.result.Has(domain.CategoryJob) {
		return nil
	}
	w := ctx.w()

	factors := []domain.RiskFactor{{
		Name:        domain.CategoryJob,
		Description: "Job-offer wording (hiring, work from home, salary)",
		ScoreDelta:  w.Job,
	}}

	if ctx.rules.EscalatorIn(domain.CategoryJob, ctx.normalized) {
		factors = append(factors, domain.RiskFactor{
			Name:        "job_escalation",
			Description: "Job offer combined with fee / daily-income phrasing",
			ScoreDelta:  w.JobEscalation,
		})
	}

	return factors
}

// ─── Rule 5: utility asymmetry ───────────────────────────────────────────────

// Utility wording escalates sharply only with a threat. Mere urgency plus
// financial terms adds a token amount — otherwise every legitimate
// "your bill is due today" reminder would get flagged.
func ruleUtility(ctx *ruleContext) []domain.RiskFactor {
	if !ctx.result.Has(domain.CategoryUtility) {
		return nil
	}
	w := ctx.w()

	switch {
	case ctx.result.Has(domain.CategoryThreat):
		return []domain.RiskFactor{{
			Name:        "utility_threat",
			Description: "Utility/bill wording backed by a disconnection threat",
			ScoreDelta:  w.UtilityWithThreat,
		}}
	case ctx.result.Has(domain.CategoryUrgency) && ctx.result.Has(domain.CategoryFinancial):
		return []domain.RiskFactor{{
			Name:        "utility_pressure",
			Description: "Utility/bill wording with urgency and payment terms",
			ScoreDelta:  w.UtilityWithPressure,
		}}
	}
	return nil
}

// ─── Rule 6: impersonation / family emergency ────────────────────────────────

// "Mom, send money now" is categorically worse than either signal alone, so
// the fear-exploitation combo outweighs the sum of its parts. Family wording
// without any financial or urgency context is probably ordinary chat.
func ruleImpersonation(ctx *ruleContext) []domain.RiskFactor {
	if !ctx.result.Has(domain.CategoryImpersonation) {
		return nil
	}
	w := ctx.w()

	if ctx.result.HasAny(domain.CategoryFinancial, domain.CategoryUrgency) {
		return []domain.RiskFactor{{
			Name:        "impersonation_pressure",
			Description: "Family-emergency wording combined with money/urgency terms",
			ScoreDelta:  w.ImpersonationWithPressure,
		}}
	}
	return []domain.RiskFactor{{
		Name:        "impersonation_plain",
		Description: "Family/emergency wording without payment pressure",
		ScoreDelta:  w.ImpersonationPlain,
	}}
}

// ─── Rule 7: generic fallback ────────────────────────────────────────────────

// Applied only when no specialized scheme fired, so unclassified-but-pushy
// text doesn't score zero. Weighted below every specialized rule.
func ruleGenericFallback(ctx *ruleContext) []domain.RiskFactor {
	if ctx.result.HasAny(
		domain.CategoryUtility,
		domain.CategoryJob,
		domain.CategoryInvestment,
		domain.CategoryDigitalArrest,
	) {
		return nil
	}
	w := ctx.w()

	financial := ctx.result.Has(domain.CategoryFinancial)
	urgency := ctx.result.Has(domain.CategoryUrgency)

	switch {
	case financial && urgency:
		return []domain.RiskFactor{{
			Name:        "financial_urgency",
			Description: "Payment terms combined with urgency pressure",
			ScoreDelta:  w.FinancialUrgency,
		}}
	case financial:
		return []domain.RiskFactor{{
			Name:        "financial_only",
			Description: "Payment/banking terms present",
			ScoreDelta:  w.FinancialOnly,
		}}
	case urgency:
		return []domain.RiskFactor{{
			Name:        "urgency_only",
			Description: "Urgency pressure present",
			ScoreDelta:  w.UrgencyOnly,
		}}
	}
	return nil
}

// ─── Rule 8: diversity bonus ─────────────────────────────────────────────────

func ruleDiversity(ctx *ruleContext) []domain.RiskFactor {
	w := ctx.w()
	if n := len(ctx.result.Signals); n >= w.DiversityMinSignals && w.DiversityMinSignals > 0 {
		return []domain.RiskFactor{{
			Name:        "signal_diversity",
			Description: fmt.Sprintf("%d distinct trigger phrases found in one message", n),
			ScoreDelta:  w.Diversity,
		}}
	}
	return nil
}

// ─── Rule 9: obfuscation bonus ───────────────────────────────────────────────

func ruleObfuscation(ctx *ruleContext) []domain.RiskFactor {
	if !ctx.result.Has(domain.CategoryObfuscation) {
		return nil
	}
	return []domain.RiskFactor{{
		Name:        domain.CategoryObfuscation,
		Description: "Leetspeak-style evasion of sensitive words (p@y, m0ney, j0b)",
		ScoreDelta:  ctx.w().Obfuscation,
	}}
}

// ─── Rule 10: data-exfiltration bonus ────────────────────────────────────────

// A concrete payment identifier in the same breath as pressure wording is
// stronger evidence than keywords alone.
func ruleDataExfiltration(ctx *ruleContext) []domain.RiskFactor {
	hasArtifact := ctx.artifacts.PaymentHandle != nil ||
		ctx.artifacts.PhoneNumber != nil ||
		ctx.artifacts.URL != nil
	if !hasArtifact {
		return nil
	}
	if !ctx.result.HasAny(domain.CategoryUrgency, domain.CategoryThreat) {
		return nil
	}
	return []domain.RiskFactor{{
		Name:        "data_exfiltration",
		Description: "Payment identifier or link delivered alongside pressure wording",
		ScoreDelta:  ctx.w().DataExfiltration,
	}}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// buildExplanation formats the score, matched keywords, and factor breakdown
// into the single human-readable string carried on the API response.
func buildExplanation(score int, result domain.MatchResult, factors []domain.RiskFactor) string {
	if len(factors) == 0 {
		return fmt.Sprintf("Risk score %d. No scam indicators detected.", score)
	}

	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = fmt.Sprintf("%s (+%d)", f.Description, f.ScoreDelta)
	}
	return fmt.Sprintf("Risk score %d based on keywords %v. Factors: %s.",
		score, result.Signals, strings.Join(parts, "; "))
}
