package naming

import (
	"strings"
	"unicode"
)

const DefaultMaxStemLength = 150

// Sanitizer rewrites a generated stem into a portable filename stem.
// Forbidden filesystem characters are dropped, whitespace runs become a
// single underscore, and overlong stems are truncated in the middle so
// both the leading fields and the trailing date survive.
type Sanitizer struct {
	maxLength int
}

func NewSanitizer(maxLength int) *Sanitizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxStemLength
	}
	return &Sanitizer{maxLength: maxLength}
}

func (s *Sanitizer) Sanitize(stem string) string {
	var b strings.Builder
	b.Grow(len(stem))

	pendingSep := false
	for _, r := range stem {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			// dropped entirely
		case unicode.IsSpace(r) || r == '_':
			pendingSep = true
		default:
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._")
	return s.truncate(out)
}

// truncate keeps the head and tail of an overlong stem joined by "...".
func (s *Sanitizer) truncate(stem string) string {
	runes := []rune(stem)
	if len(runes) <= s.maxLength {
		return stem
	}
	half := (s.maxLength - 3) / 2
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}
