// Package catalog holds the signal catalog: the mapping of fraud-category
// names to trigger-phrase lists, the score weight table, and the escalator
// term lists used by compound scoring rules.
//
// All of it is data, not control flow. The built-in defaults can be replaced
// per category by an optional JSON overlay file, and the overlay can be hot
// reloaded at runtime (see watch.go), so tuning trigger vocabularies never
// requires a redeploy.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"sync"

	"scambait/honeypot-api/internal/domain"
)

// Weights is the score parameter table. Values are design parameters, not
// derived; the defaults reconcile the final rule set of the detection engine.
type Weights struct {
	Authority  int `json:"authority"`
	Threat     int `json:"threat"`
	Lottery    int `json:"lottery"`
	Sextortion int `json:"sextortion"`

	DigitalArrest           int `json:"digital_arrest"`
	DigitalArrestEscalation int `json:"digital_arrest_escalation"` // with authority or threat

	Investment           int `json:"investment"`
	InvestmentEscalation int `json:"investment_escalation"` // with group-solicitation terms

	Job           int `json:"job"`
	JobEscalation int `json:"job_escalation"` // with fee / daily-income terms

	// Utility wording is dangerous with a threat but near-benign with mere
	// urgency, to avoid flagging legitimate bill reminders.
	UtilityWithThreat   int `json:"utility_with_threat"`
	UtilityWithPressure int `json:"utility_with_pressure"` // urgency AND financial

	ImpersonationWithPressure int `json:"impersonation_with_pressure"` // financial or urgency present
	ImpersonationPlain        int `json:"impersonation_plain"`         // ordinary family chat

	// Generic fallback, applied only when no specialized category fired.
	FinancialUrgency int `json:"financial_urgency"`
	FinancialOnly    int `json:"financial_only"`
	UrgencyOnly      int `json:"urgency_only"`

	Diversity           int `json:"diversity"`
	DiversityMinSignals int `json:"diversity_min_signals"`

	Obfuscation      int `json:"obfuscation"`
	DataExfiltration int `json:"data_exfiltration"`

	// Session-level intel bonuses: a captured payment handle or link is far
	// stronger evidence than keywords alone.
	IntelPaymentHandle int `json:"intel_payment_handle"`
	IntelURL           int `json:"intel_url"`
}

// DefaultWeights returns the built-in weight table.
func DefaultWeights() Weights {
	return Weights{
		Authority:  30,
		Threat:     40,
		Lottery:    50,
		Sextortion: 50,

		DigitalArrest:           40,
		DigitalArrestEscalation: 30,

		Investment:           30,
		InvestmentEscalation: 30,

		Job:           30,
		JobEscalation: 30,

		UtilityWithThreat:   50,
		UtilityWithPressure: 10,

		ImpersonationWithPressure: 55,
		ImpersonationPlain:        10,

		FinancialUrgency: 40,
		FinancialOnly:    20,
		UrgencyOnly:      10,

		Diversity:           10,
		DiversityMinSignals: 3,

		Obfuscation:      15,
		DataExfiltration: 15,

		IntelPaymentHandle: 50,
		IntelURL:           50,
	}
}

// categoryOrder fixes the scan order so match results are deterministic
// regardless of overlay map iteration.
var categoryOrder = []string{
	domain.CategoryUrgency,
	domain.CategoryAuthority,
	domain.CategoryFinancial,
	domain.CategoryThreat,
	domain.CategoryLottery,
	domain.CategoryImpersonation,
	domain.CategoryJob,
	domain.CategoryUtility,
	domain.CategorySextortion,
	domain.CategoryDigitalArrest,
	domain.CategoryInvestment,
	domain.CategoryObfuscation,
}

// defaultTriggers lists the trigger vocabulary per category. Matching is
// anchored at word boundaries, so inflected forms that matter ("blocked",
// "expired", "arrested") are listed explicitly rather than relying on
// substring hits.
var defaultTriggers = map[string][]string{
	domain.CategoryUrgency: {
		"urgent", "immediately", "now", "today", "within 24 hours", "expire",
		"expired", "blocked", "verify", "kyc", "suspended", "action required",
		"deadline", "alert", "final notice",
	},
	domain.CategoryAuthority: {
		"police", "court", "rbi", "income tax", "official", "cbi", "officer",
		"bank manager", "cyber cell", "enforcement", "judge",
	},
	domain.CategoryFinancial: {
		"pay", "upi", "amount", "transfer", "refund", "deposit", "fee", "bank",
		"account", "credit", "debit", "wallet", "pin", "details", "balance",
		"money", "cash", "loan",
	},
	domain.CategoryThreat: {
		"jail", "arrest", "arrested", "suspend", "disconnect", "disconnected", "illegal",
		"case file", "warrant", "legal action", "fir", "fine", "penalty",
		"block", "blocked", "cut off", "detain", "prosecute",
	},
	domain.CategoryLottery: {
		"lottery", "won", "prize", "congratulations", "claim", "winner",
		"lucky", "cash reward", "crore", "lakh", "jackpot",
	},
	domain.CategoryImpersonation: {
		"mom", "dad", "son", "daughter", "accident", "hospital", "lost phone",
		"new number", "emergency", "help", "friend", "family",
	},
	domain.CategoryJob: {
		"hiring", "job", "job offer", "part time", "part-time", "wfh",
		"work from home", "salary", "daily income", "earn", "telegram", "hr",
		"vacancy",
	},
	domain.CategoryUtility: {
		"electricity", "power", "bill", "consumer number", "light",
		"connection", "meter", "update",
	},
	domain.CategorySextortion: {
		"viral", "video", "video call", "leak", "exposure", "footage", "clip",
		"upload", "youtube", "social media", "reputation", "private video",
	},
	domain.CategoryDigitalArrest: {
		"narcotics", "drugs", "parcel", "fedex", "customs", "seized",
		"statement", "money laundering", "aadhaar",
	},
	domain.CategoryInvestment: {
		"invest", "investment", "trading", "stock", "market", "crypto",
		"bitcoin", "returns", "profit", "double", "vip group",
		"whatsapp group", "guidance", "tips",
	},
	// Leetspeak evasions of pay / money / job / cash. Firing any of these is
	// itself a signal: legitimate senders don't disguise these words.
	domain.CategoryObfuscation: {
		"p@y", "m0ney", "j0b", "c@sh",
	},
}

// defaultEscalators are the companion-term lists consulted by compound rules.
var defaultEscalators = map[string][]string{
	domain.CategoryInvestment: {
		"whatsapp", "telegram", "double", "double your money", "join this group",
	},
	domain.CategoryJob: {
		"telegram", "daily", "daily income", "fee", "registration fee",
	},
}

// Trigger is one compiled trigger phrase.
type Trigger struct {
	Phrase string
	re     *regexp.Regexp
}

// MatchIn reports whether the trigger occurs in the normalized text as a
// whole word or contiguous whole phrase.
func (t Trigger) MatchIn(normalized string) bool {
	return t.re.MatchString(normalized)
}

// Category is a named bucket with its compiled triggers, in catalog order.
type Category struct {
	Name     string
	Triggers []Trigger
}

// RuleSet is an immutable snapshot of the catalog: categories, weights, and
// escalators. Matcher and scorer work off one snapshot per message, so a
// concurrent reload can never produce a half-updated view.
type RuleSet struct {
	Categories []Category
	Weights    Weights
	escalators map[string][]Trigger
}

// EscalatorIn reports whether any escalator term registered for the category
// occurs in the normalized text.
func (rs *RuleSet) EscalatorIn(category, normalized string) bool {
	for _, t := range rs.escalators[category] {
		if t.MatchIn(normalized) {
			return true
		}
	}
	return false
}

// Catalog serves RuleSet snapshots and supports overlay reloads.
type Catalog struct {
	mu    sync.RWMutex
	rules *RuleSet

	overlayPath string
}

// overlay is the JSON shape of the optional catalog file. Categories listed
// replace that category's trigger list entirely; omitted categories keep
// their defaults. Weights and escalators merge the same way.
type overlay struct {
	Categories map[string][]string `json:"categories"`
	Weights    json.RawMessage     `json:"weights"`
	Escalators map[string][]string `json:"escalators"`
}

// New builds a catalog from the built-in defaults.
func New() *Catalog {
	rs, err := compile(defaultTriggers, DefaultWeights(), defaultEscalators)
	if err != nil {
		// Defaults are static literals; a compile failure is a programming
		// error, not a runtime condition.
		panic(fmt.Sprintf("catalog: default rule set failed to compile: %v", err))
	}
	return &Catalog{rules: rs}
}

// NewFromFile builds a catalog from defaults plus the overlay at path.
func NewFromFile(path string) (*Catalog, error) {
	c := New()
	c.overlayPath = path
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Rules returns the current immutable rule-set snapshot.
func (c *Catalog) Rules() *RuleSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rules
}

// Reload re-reads the overlay file and swaps in the merged rule set.
// With no overlay path configured it resets to the built-in defaults.
// On any error the previous rule set stays in effect.
func (c *Catalog) Reload() error {
	triggers := cloneStringListMap(defaultTriggers)
	escalators := cloneStringListMap(defaultEscalators)
	weights := DefaultWeights()

	if c.overlayPath != "" {
		data, err := os.ReadFile(c.overlayPath)
		if err != nil {
			return fmt.Errorf("read catalog overlay: %w", err)
		}
		var ov overlay
		if err := json.Unmarshal(data, &ov); err != nil {
			return fmt.Errorf("parse catalog overlay: %w", err)
		}
		for name, list := range ov.Categories {
			if !knownCategory(name) {
				return fmt.Errorf("catalog overlay: unknown category %q", name)
			}
			triggers[name] = list
		}
		for name, list := range ov.Escalators {
			if !knownCategory(name) {
				return fmt.Errorf("catalog overlay: unknown escalator category %q", name)
			}
			escalators[name] = list
		}
		if len(ov.Weights) > 0 {
			// Partial overrides merge over the defaults.
			if err := json.Unmarshal(ov.Weights, &weights); err != nil {
				return fmt.Errorf("catalog overlay: weights: %w", err)
			}
		}
	}

	rs, err := compile(triggers, weights, escalators)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rules = rs
	c.mu.Unlock()
	return nil
}

// compile normalizes every phrase and builds its boundary-anchored regex.
// Phrases are matched against normalized text, so the patterns are plain
// lowercase; boundaries are non-alphanumeric characters or string edges,
// which keeps "now" from firing inside "know".
func compile(triggers map[string][]string, w Weights, escalators map[string][]string) (*RuleSet, error) {
	rs := &RuleSet{
		Weights:    w,
		escalators: make(map[string][]Trigger, len(escalators)),
	}

	for _, name := range categoryOrder {
		compiled, err := compileList(triggers[name])
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", name, err)
		}
		rs.Categories = append(rs.Categories, Category{Name: name, Triggers: compiled})
	}

	for name, list := range escalators {
		compiled, err := compileList(list)
		if err != nil {
			return nil, fmt.Errorf("escalators for %s: %w", name, err)
		}
		rs.escalators[name] = compiled
	}

	return rs, nil
}

func compileList(phrases []string) ([]Trigger, error) {
	out := make([]Trigger, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		norm := Normalize(p)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		re, err := regexp.Compile(`(?:^|[^a-z0-9])` + regexp.QuoteMeta(norm) + `(?:[^a-z0-9]|$)`)
		if err != nil {
			return nil, fmt.Errorf("trigger %q: %w", p, err)
		}
		out = append(out, Trigger{Phrase: norm, re: re})
	}
	return out, nil
}

func knownCategory(name string) bool {
	for _, n := range categoryOrder {
		if n == name {
			return true
		}
	}
	return false
}

func cloneStringListMap(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// CategoryNames returns all category names the catalog knows, sorted.
func CategoryNames() []string {
	names := append([]string(nil), categoryOrder...)
	sort.Strings(names)
	return names
}
