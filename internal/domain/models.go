// Package domain contains all core types used across the application.
// Keeping domain types in one place makes the detection pipeline easy to reason about.
package domain

// ─── Constants ───────────────────────────────────────────────────────────────

// Fraud-signal category names. Each is backed by a trigger-phrase list in the
// signal catalog.
const (
	CategoryUrgency       = "urgency"
	CategoryAuthority     = "authority"
	CategoryFinancial     = "financial"
	CategoryThreat        = "threat"
	CategoryLottery       = "lottery"
	CategoryImpersonation = "impersonation"
	CategoryJob           = "job"
	CategoryUtility       = "utility"
	CategorySextortion    = "sextortion"
	CategoryDigitalArrest = "digital_arrest"
	CategoryInvestment    = "investment"

	// CategoryObfuscation is synthetic: it fires on leetspeak-style evasions
	// of sensitive words ("p@y", "m0ney", "j0b") rather than on a real
	// vocabulary, and feeds a flat score bonus.
	CategoryObfuscation = "obfuscation"
)

// ScamThreshold is the strict cut-off for the scam verdict:
// is_scam = confidence_score > ScamThreshold.
const ScamThreshold = 60

// Risk bands used by the stateful reply policy.
const (
	RiskBandStall = 30 // below: play dumb; 30..59: feign concern and stall
	RiskBandBait  = 60 // at or above: actively bait for payment details
)

// ─── Matching ────────────────────────────────────────────────────────────────

// MatchResult is the outcome of running one message through the pattern
// matcher. Both slices are sorted and deduplicated so downstream logic never
// depends on map iteration order.
type MatchResult struct {
	// Categories that had at least one trigger present.
	Categories []string
	// Signals are the distinct trigger phrases that matched, across all
	// categories.
	Signals []string
}

// Has reports whether the given category matched.
func (r MatchResult) Has(category string) bool {
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// HasAny reports whether any of the given categories matched.
func (r MatchResult) HasAny(categories ...string) bool {
	for _, c := range categories {
		if r.Has(c) {
			return true
		}
	}
	return false
}

// ─── Scoring ─────────────────────────────────────────────────────────────────

// RiskFactor is a single fraud signal that contributed to the score.
// Exposing factors individually lets reviewers understand why a message was
// flagged and builds trust in the scoring system.
type RiskFactor struct {
	Name        string `json:"name"`        // machine-readable identifier
	Description string `json:"description"` // human-readable explanation
	ScoreDelta  int    `json:"score_delta"` // points added to total score
}

// ─── Extracted intelligence ──────────────────────────────────────────────────

// ArtifactBundle holds the structured artifacts pulled out of one message.
// All fields are optional; a nil pointer means "not found", which is distinct
// from an empty string.
type ArtifactBundle struct {
	PaymentHandle *string `json:"payment_handle,omitempty"` // localpart@domain token (UPI-style)
	PhoneNumber   *string `json:"phone_number,omitempty"`
	URL           *string `json:"url,omitempty"`
	BankAccount   *string `json:"bank_account,omitempty"` // 9-18 digit run
}

// Empty reports whether no artifact was found.
func (b ArtifactBundle) Empty() bool {
	return b.PaymentHandle == nil && b.PhoneNumber == nil && b.URL == nil && b.BankAccount == nil
}

// HasPaymentTarget reports whether a payment handle or a link is known —
// the two artifacts the bait strategy is built around.
func (b ArtifactBundle) HasPaymentTarget() bool {
	return b.PaymentHandle != nil || b.URL != nil
}

// ─── Session ─────────────────────────────────────────────────────────────────

// Session is the accumulated state of one sender's conversation. Instances
// handed out by the session store are snapshots: mutating them has no effect
// on the stored state.
type Session struct {
	ID string `json:"session_id"`

	// History is the ordered sequence of raw message texts received,
	// append-only.
	History []string `json:"-"`

	// TurnCount increments once per inbound message.
	TurnCount int `json:"turn_count"`

	// CumulativeRisk is the maximum over all turns of that turn's confidence
	// plus the intel bonus, capped at 100. It never decreases.
	CumulativeRisk int `json:"cumulative_risk"`

	// KnownCategories is the union of every category ever matched in this
	// session, sorted.
	KnownCategories []string `json:"known_categories"`

	// KnownArtifacts holds the best-known artifact per field. A field is
	// overwritten only by a message that yields a value for it; it is never
	// cleared by a message that fails to re-find it.
	KnownArtifacts ArtifactBundle `json:"known_artifacts"`
}

// SessionSummary is the condensed per-session view returned by the ops
// listing endpoint.
type SessionSummary struct {
	ID             string `json:"session_id"`
	TurnCount      int    `json:"turn_count"`
	CumulativeRisk int    `json:"cumulative_risk"`
	ArtifactCount  int    `json:"artifact_count"`
	IsScam         bool   `json:"is_scam"`
}

// ─── Transport types ─────────────────────────────────────────────────────────

// InboundMessage is one chat message as delivered by the platform.
// Sender and Timestamp are transport metadata the core does not use.
type InboundMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// AnalyzeRequest is the payload submitted per inbound scammer message.
// ConversationHistory and Metadata are accepted so strict clients don't get
// rejected, but the core tracks history itself.
type AnalyzeRequest struct {
	SessionID           string           `json:"sessionId"`
	Message             InboundMessage   `json:"message"`
	ConversationHistory []InboundMessage `json:"conversationHistory,omitempty"`
	Metadata            map[string]any   `json:"metadata,omitempty"`
}

// AnalyzeResponse is returned for every analyzed message. The confidence
// score is the session's cumulative risk after this turn, so it never drops
// below what an earlier turn already established.
type AnalyzeResponse struct {
	Status            string         `json:"status"`
	Reply             string         `json:"reply"`
	IsScam            bool           `json:"is_scam"`
	ConfidenceScore   int            `json:"confidence_score"`
	ConfidencePercent string         `json:"confidence_percentage"`
	MatchedCategories []string       `json:"matched_categories"`
	ExtractedIntel    ArtifactBundle `json:"extracted_intelligence"`
	Explanation       string         `json:"explanation"`
}

// ─── Reporting callback ──────────────────────────────────────────────────────

// IntelligenceReport is the body sent to the external reporting endpoint once
// a session qualifies. Array fields carry zero or one element depending on
// whether the artifact was captured.
type IntelligenceReport struct {
	ReportID               string               `json:"reportId"`
	SessionID              string               `json:"sessionId"`
	ScamDetected           bool                 `json:"scamDetected"`
	TotalMessagesExchanged int                  `json:"totalMessagesExchanged"`
	ExtractedIntelligence  ReportedIntelligence `json:"extractedIntelligence"`
	AgentNotes             string               `json:"agentNotes"`
}

// ReportedIntelligence flattens the artifact bundle and category union into
// the list-shaped schema the reporting endpoint expects.
type ReportedIntelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UpiIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}
