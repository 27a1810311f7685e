// Package intel extracts structured artifacts — payment handles, phone
// numbers, links, bank-account-like digit runs — from raw message text.
//
// Extraction runs on the original, non-lowercased text, independently of
// category matching: identifiers are shape-defined, not vocabulary-defined.
// Recognition is shape-only; a payment handle is not checked against any
// registrar. Absence is the only failure signal — malformed input never
// produces an error.
package intel

import (
	"regexp"

	"scambait/honeypot-api/internal/domain"
)

var (
	// UPI-style payment handle: localpart@domain where the domain is a bare
	// registrar word ("merchant@upi", "99999@ybl").
	rePaymentHandle = regexp.MustCompile(`[A-Za-z0-9._\-]{2,256}@[A-Za-z]{2,64}`)

	// Indian mobile number: optional +91/91 prefix, then ten digits starting
	// 6-9.
	rePhoneNumber = regexp.MustCompile(`(?:\+?91[\s\-]?)?[6-9][0-9]{9}`)

	// http(s) URL or a bare www.-prefixed token.
	reURL = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)

	// Bank-account-like run of 9-18 digits.
	reBankAccount = regexp.MustCompile(`[0-9]{9,18}`)
)

// Extract pulls the first occurrence of each artifact shape out of text.
// Fields with no shape match stay nil.
func Extract(text string) domain.ArtifactBundle {
	var bundle domain.ArtifactBundle
	if text == "" {
		return bundle
	}

	if m := rePaymentHandle.FindString(text); m != "" {
		bundle.PaymentHandle = &m
	}
	if m := rePhoneNumber.FindString(text); m != "" {
		bundle.PhoneNumber = &m
	}
	if m := reURL.FindString(text); m != "" {
		bundle.URL = &m
	}
	if m := reBankAccount.FindString(text); m != "" {
		bundle.BankAccount = &m
	}

	return bundle
}
