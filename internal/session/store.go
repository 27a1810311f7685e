// Package session provides the thread-safe, in-memory session store for the
// honeypot.
//
// Design rationale: sessions live only as long as the process — the honeypot
// has no durability requirement, so a mutex-guarded map is the whole store.
// Update is the sole writer of session state and holds the lock for the full
// read-modify-write, so two concurrent updates on the same session id can
// never interleave field-by-field. A production deployment wanting durable
// sessions would swap this for Redis without touching the scoring logic.
package session

import (
	"sort"
	"sync"

	"scambait/honeypot-api/internal/domain"
)

// Config carries the session-level score bonuses. A captured payment handle
// or phishing link is treated as hard evidence worth far more than keyword
// matches.
type Config struct {
	PaymentHandleBonus int
	URLBonus           int
}

// DefaultConfig returns the standard intel bonuses.
func DefaultConfig() Config {
	return Config{PaymentHandleBonus: 50, URLBonus: 50}
}

// Store is a thread-safe in-memory session store.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	cfg      Config
}

// New creates an empty, ready-to-use Store.
func New(cfg Config) *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		cfg:      cfg,
	}
}

// Update records one inbound message against the session, creating the
// session lazily if the id has not been seen before. It appends to history,
// bumps the turn counter, unions the matched categories, merges artifacts
// (a field is overwritten only when the new message provides a value; a
// message that fails to re-find an artifact never clears it), and ratchets
// the cumulative risk:
//
//	cumulative = max(cumulative, min(turnConfidence+intelBonus, 100))
//
// so session risk is monotonically non-decreasing for the session's
// lifetime. The returned Session is a snapshot the caller owns.
func (s *Store) Update(id, text string, result domain.MatchResult, artifacts domain.ArtifactBundle, turnConfidence int) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &domain.Session{ID: id}
		s.sessions[id] = sess
	}

	sess.History = append(sess.History, text)
	sess.TurnCount++
	sess.KnownCategories = unionSorted(sess.KnownCategories, result.Categories)
	mergeArtifacts(&sess.KnownArtifacts, artifacts)

	bonus := 0
	if sess.KnownArtifacts.PaymentHandle != nil {
		bonus += s.cfg.PaymentHandleBonus
	}
	if sess.KnownArtifacts.URL != nil {
		bonus += s.cfg.URLBonus
	}

	risk := turnConfidence + bonus
	if risk > 100 {
		risk = 100
	}
	if risk > sess.CumulativeRisk {
		sess.CumulativeRisk = risk
	}

	return snapshot(sess)
}

// Snapshot returns a copy of the session, if one exists.
func (s *Store) Snapshot(id string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return snapshot(sess), true
}

// List returns a summary for every session, sorted by descending risk and
// then by id for a stable order.
func (s *Store) List() []domain.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		summaries = append(summaries, domain.SessionSummary{
			ID:             sess.ID,
			TurnCount:      sess.TurnCount,
			CumulativeRisk: sess.CumulativeRisk,
			ArtifactCount:  artifactCount(sess.KnownArtifacts),
			IsScam:         sess.CumulativeRisk > domain.ScamThreshold,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CumulativeRisk != summaries[j].CumulativeRisk {
			return summaries[i].CumulativeRisk > summaries[j].CumulativeRisk
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

// ─── Internals ───────────────────────────────────────────────────────────────

// snapshot deep-copies a session so readers never share slices or pointers
// with the stored state. Must be called with the lock held.
func snapshot(sess *domain.Session) domain.Session {
	out := domain.Session{
		ID:              sess.ID,
		History:         append([]string(nil), sess.History...),
		TurnCount:       sess.TurnCount,
		CumulativeRisk:  sess.CumulativeRisk,
		KnownCategories: append([]string(nil), sess.KnownCategories...),
	}
	out.KnownArtifacts.PaymentHandle = cloneString(sess.KnownArtifacts.PaymentHandle)
	out.KnownArtifacts.PhoneNumber = cloneString(sess.KnownArtifacts.PhoneNumber)
	out.KnownArtifacts.URL = cloneString(sess.KnownArtifacts.URL)
	out.KnownArtifacts.BankAccount = cloneString(sess.KnownArtifacts.BankAccount)
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// mergeArtifacts copies each present field of incoming over known, leaving
// previously captured values intact when incoming lacks them.
func mergeArtifacts(known *domain.ArtifactBundle, incoming domain.ArtifactBundle) {
	if incoming.PaymentHandle != nil {
		known.PaymentHandle = cloneString(incoming.PaymentHandle)
	}
	if incoming.PhoneNumber != nil {
		known.PhoneNumber = cloneString(incoming.PhoneNumber)
	}
	if incoming.URL != nil {
		known.URL = cloneString(incoming.URL)
	}
	if incoming.BankAccount != nil {
		known.BankAccount = cloneString(incoming.BankAccount)
	}
}

// unionSorted merges additions into existing, deduplicated and sorted.
func unionSorted(existing, additions []string) []string {
	seen := make(map[string]bool, len(existing)+len(additions))
	out := make([]string, 0, len(existing)+len(additions))
	for _, s := range existing {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range additions {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func artifactCount(b domain.ArtifactBundle) int {
	n := 0
	for _, p := range []*string{b.PaymentHandle, b.PhoneNumber, b.URL, b.BankAccount} {
		if p != nil {
			n++
		}
	}
	return n
}
