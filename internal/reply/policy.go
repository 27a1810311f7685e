// Package reply selects the next bait utterance the honeypot persona sends
// back.
//
// Two interchangeable policies answer two different questions: CategoryPolicy
// reacts to what the current message looks like, EscalationPolicy reacts to
// where the whole conversation stands. Both are total — every input state
// maps to exactly one template, and neither can fail.
package reply

import "scambait/honeypot-api/internal/domain"

// Policy picks the outbound bait reply. sess is the post-update session
// snapshot; current is the match result for this message only.
type Policy interface {
	Select(sess domain.Session, current domain.MatchResult) string
}

// FallbackReply is the safe default used when nothing matched and by the
// transport layer when the pipeline degrades.
const FallbackReply = "I received this message but I'm not sure what it means. Who is this?"

// ─── Stateless category policy ───────────────────────────────────────────────

// CategoryPolicy maps the current message's categories through a fixed,
// priority-ordered decision table; the first group with a match wins.
type CategoryPolicy struct {
	table []categoryRule
}

type categoryRule struct {
	categories []string
	template   string
}

// NewCategoryPolicy builds the policy with the standard persona table.
// Order matters: fear-based scripts outrank greed-based ones, so a message
// carrying both gets the reply for the scarier scheme.
func NewCategoryPolicy() *CategoryPolicy {
	return &CategoryPolicy{table: []categoryRule{
		{
			categories: []string{domain.CategoryDigitalArrest, domain.CategoryAuthority, domain.CategoryThreat},
			template:   "Sir, please don't arrest me! I am a law-abiding citizen. I am very scared. What is the procedure to clear this? I can pay whatever fine.",
		},
		{
			categories: []string{domain.CategorySextortion},
			template:   "Please, I beg you, do not share that video! My family will kill me. Tell me what to do, I will pay you right now.",
		},
		{
			categories: []string{domain.CategoryLottery},
			template:   "Omg is this real?? I really need this money right now. I don't have a bank account, can I use my friend's UPI? What details do you need?",
		},
		{
			categories: []string{domain.CategoryJob},
			template:   "I am interested! I lost my job recently and really need this income. Do I have to pay any registration fee? I can start immediately.",
		},
		{
			categories: []string{domain.CategoryUtility},
			template:   "Wait, I thought I paid it? Please don't cut the power, my mom is on oxygen support. How do I update it immediately?",
		},
		{
			categories: []string{domain.CategoryImpersonation},
			template:   "Oh my god, are you okay? I am panicking. I can't call right now, just text me the UPI ID. How much do you need?",
		},
		{
			categories: []string{domain.CategoryInvestment},
			template:   "That sounds like a great return. Is it safe? I have 10,000 rs to invest right now. How do I join the group?",
		},
	}}
}

// Select returns the bait reply for the first category group present in the
// current message, or the generic fallback when nothing in the table fires.
func (p *CategoryPolicy) Select(_ domain.Session, current domain.MatchResult) string {
	for _, rule := range p.table {
		if current.HasAny(rule.categories...) {
			return rule.template
		}
	}
	return "I am not sure I understand. Can you explain clearly what I need to do? I am ready to cooperate."
}

// ─── Stateful escalation policy ──────────────────────────────────────────────

// EscalationPolicy decides from the whole session: cumulative risk plus which
// artifacts are still missing. The point of the honeypot is to extract a
// payment handle or link, so high-confidence sessions are steered toward
// surrendering one.
type EscalationPolicy struct{}

// NewEscalationPolicy returns the stateful policy.
func NewEscalationPolicy() *EscalationPolicy {
	return &EscalationPolicy{}
}

// Select walks the (risk, artifact-presence) space; every branch is total.
func (p *EscalationPolicy) Select(sess domain.Session, _ domain.MatchResult) string {
	risk := sess.CumulativeRisk
	intel := sess.KnownArtifacts

	// Low confidence: play dumb to draw out more signal.
	if risk < domain.RiskBandStall {
		return FallbackReply
	}

	// Medium confidence: feign concern and stall.
	if risk < domain.RiskBandBait {
		return "Oh my god, I didn't know this was expired. I am very worried. What should I do now?"
	}

	// High confidence but no payment target yet: bait for one directly.
	if intel.PaymentHandle == nil && intel.URL == nil {
		return "I am ready to pay the penalty to avoid legal action. Can you send me the UPI ID or payment link?"
	}

	// Have a link but no handle: waste time and redirect to a handle.
	if intel.URL != nil && intel.PaymentHandle == nil {
		return "The link isn't opening on my phone. Can I just Google Pay you directly? What is the ID?"
	}

	// Everything collected: final stall before the scammer gives up.
	return "Okay, I am trying to send it now. Please wait a moment while I find my card."
}
