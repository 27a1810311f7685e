package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for trigger matching: NFKD unicode normalization,
// unicode whitespace folded to plain spaces, lowercased, runs of whitespace
// collapsed. Trigger phrases are passed through the same function at compile
// time so both sides agree on the representation.
func Normalize(text string) string {
	text = norm.NFKD.String(text)

	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)

	text = strings.ToLower(strings.TrimSpace(text))

	return strings.Join(strings.Fields(text), " ")
}
