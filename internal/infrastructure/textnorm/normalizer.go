package textnorm

import (
	"strings"
	"unicode"
)

// Normalizer cleans raw extracted text into the canonical form the rest of
// the pipeline analyzes. Pure and total; normalizing twice is a no-op.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize strips control characters (keeping line breaks), collapses
// whitespace runs to single spaces and newline runs to single newlines,
// and trims the result. The empty string is a valid output.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var cleaned strings.Builder
	cleaned.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '\n' || r == '\r':
			cleaned.WriteByte('\n')
		case r == '\t':
			cleaned.WriteByte(' ')
		case unicode.IsPrint(r):
			cleaned.WriteRune(r)
		}
	}

	var out strings.Builder
	out.Grow(cleaned.Len())
	pendingSpace := false
	pendingNewline := false
	for _, r := range cleaned.String() {
		switch r {
		case '\n':
			pendingNewline = true
		case ' ':
			pendingSpace = true
		default:
			if out.Len() > 0 {
				if pendingNewline {
					out.WriteByte('\n')
				} else if pendingSpace {
					out.WriteByte(' ')
				}
			}
			pendingSpace = false
			pendingNewline = false
			out.WriteRune(r)
		}
	}
	return out.String()
}
