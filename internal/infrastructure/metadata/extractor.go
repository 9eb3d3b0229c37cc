package metadata

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

const outputDateFormat = "2006-01-02"

// datePattern pairs a regex with a parse function. Patterns are evaluated
// in priority order; for the final pick the earliest occurrence in text
// order wins, with pattern priority as the tie-break at equal offsets.
type datePattern struct {
	re    *regexp.Regexp
	parse func(m []string) (time.Time, bool)
}

var datePatterns = []datePattern{
	// DD/MM/YYYY (falls back to MM/DD/YYYY when the day slot exceeds 31
	// or the month slot exceeds 12)
	{
		re: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			if d, ok := makeDate(m[3], m[2], m[1]); ok {
				return d, true
			}
			return makeDate(m[3], m[1], m[2])
		},
	},
	// YYYY-MM-DD
	{
		re: regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(m[1], m[2], m[3])
		},
	},
	// Month DD, YYYY
	{
		re: regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{1,2}),? (\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeNamedDate(m[3], m[1], m[2])
		},
	},
	// DD Month YYYY
	{
		re: regexp.MustCompile(`(?i)\b(\d{1,2}) (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeNamedDate(m[3], m[2], m[1])
		},
	},
	// Month YYYY (day defaults to the first)
	{
		re: regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeNamedDate(m[2], m[1], "1")
		},
	},
	// DD-MM-YYYY
	{
		re: regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			if d, ok := makeDate(m[3], m[2], m[1]); ok {
				return d, true
			}
			return makeDate(m[3], m[1], m[2])
		},
	},
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 {
		return time.Time{}, false
	}
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject those.
	if d < 1 || date.Day() != d || date.Month() != time.Month(m) {
		return time.Time{}, false
	}
	return date, true
}

func makeNamedDate(year, month, day string) (time.Time, bool) {
	m, ok := months[strings.ToLower(month)[:3]]
	if !ok {
		return time.Time{}, false
	}
	return makeDate(year, strconv.Itoa(int(m)), day)
}

var (
	orgAfterLabelRe    = regexp.MustCompile(`(?:Company|Corporation|Corp|Inc|Ltd|LLC|Organization)[\s:]+([A-Z][A-Za-z&]*(?: [A-Z][A-Za-z&]*)*)`)
	orgBeforeLabelRe   = regexp.MustCompile(`([A-Z][A-Za-z&]*(?: [A-Z][A-Za-z&]*)*) (?:Company|Corporation|Corp|Inc|Ltd|LLC)\b`)
	personAfterRoleRe  = regexp.MustCompile(`(?:Name|Employee|Client|Customer)[\s:]+([A-Z][a-z]+ [A-Z][a-z]+)`)
	personAfterTitleRe = regexp.MustCompile(`\b(?:Mr|Ms|Mrs|Dr)\.\s+([A-Z][a-z]+ [A-Z][a-z]+)`)
	keywordRe          = regexp.MustCompile(`\b[a-z]{4,}\b`)
)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {}, "from": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "been": {}, "have": {},
	"has": {}, "had": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "might": {}, "must": {}, "they": {},
	"there": {}, "their": {}, "were": {}, "into": {}, "over": {}, "also": {},
	"more": {}, "other": {}, "please": {}, "your": {}, "dear": {},
}

// Extractor derives a date and best-effort entities/keywords from cleaned
// text. It never fails: the file modification time backs the date when the
// text carries none.
type Extractor struct {
	maxKeywords int
}

func New() *Extractor {
	return &Extractor{maxKeywords: 3}
}

func (e *Extractor) Extract(text string, modTime time.Time) domain.Metadata {
	md := domain.Metadata{}

	if date, ok := earliestDate(text); ok {
		md.Date = date.Format(outputDateFormat)
		md.DateSource = domain.DateSourceDocument
	} else {
		md.Date = modTime.Format(outputDateFormat)
		md.DateSource = domain.DateSourceFileMtime
	}

	md.Organization = firstSubmatch(text, orgAfterLabelRe, orgBeforeLabelRe)
	md.Person = firstSubmatch(text, personAfterRoleRe, personAfterTitleRe)
	md.Keywords = e.topKeywords(text)
	return md
}

// earliestDate scans the whole text with every pattern and picks the match
// starting earliest in text order. At equal offsets the pattern listed
// first wins.
func earliestDate(text string) (time.Time, bool) {
	bestPos := -1
	var best time.Time
	for _, p := range datePatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if bestPos >= 0 && idx[0] >= bestPos {
				continue
			}
			m := make([]string, 0, len(idx)/2)
			for i := 0; i < len(idx); i += 2 {
				if idx[i] < 0 {
					m = append(m, "")
					continue
				}
				m = append(m, text[idx[i]:idx[i+1]])
			}
			date, ok := p.parse(m)
			if !ok {
				continue
			}
			bestPos = idx[0]
			best = date
		}
	}
	return best, bestPos >= 0
}

func firstSubmatch(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// topKeywords ranks lowercase words of four letters or more by frequency,
// skipping stopwords. Ties keep first-occurrence order so the result is
// deterministic.
func (e *Extractor) topKeywords(text string) []string {
	words := keywordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return nil
	}

	freq := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, w := range words {
		if _, skip := stopwords[w]; skip {
			continue
		}
		if _, seen := freq[w]; !seen {
			firstSeen[w] = i
		}
		freq[w]++
	}
	if len(freq) == 0 {
		return nil
	}

	uniq := make([]string, 0, len(freq))
	for w := range freq {
		uniq = append(uniq, w)
	}
	sort.Slice(uniq, func(i, j int) bool {
		if freq[uniq[i]] != freq[uniq[j]] {
			return freq[uniq[i]] > freq[uniq[j]]
		}
		return firstSeen[uniq[i]] < firstSeen[uniq[j]]
	})

	if len(uniq) > e.maxKeywords {
		uniq = uniq[:e.maxKeywords]
	}
	return uniq
}
