package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quangtn/vietcal/internal/normalize"
)

// LocationExtractor finds a location label in text that already had reminder
// and time phrases removed. Matching runs on the folded form; the returned
// label is cut from the caller's text with diacritics intact.
type LocationExtractor struct {
	marker   *regexp.Regexp
	compound *regexp.Regexp
	building *regexp.Regexp
	boundary *regexp.Regexp
}

const (
	placePat    = `(?:cong\s*ty|van\s*phong|truong|benh\s*vien|nha\s*hang|quan|cafe|sieu\s*thi|cho)`
	buildingPat = `(?:phong|tang|toa|lau)\s*\w+`
)

func NewLocationExtractor() *LocationExtractor {
	return &LocationExtractor{
		// Marker capture runs to punctuation and is truncated at the
		// first connector keyword afterwards (no lookahead in RE2).
		marker: regexp.MustCompile(`(?:^|\s)(?:o|tai)\s+([^,.;!?]+)`),

		// Compound organization+building before bare building, so
		// "cong ty abc phong 401" is not reduced to "phong 401".
		compound: regexp.MustCompile(`\b(` + placePat + `(?:\s+\w+)?(?:\s+` + buildingPat + `)?)`),
		building: regexp.MustCompile(`\b(` + buildingPat + `)`),

		boundary: regexp.MustCompile(`\s*\b(?:vao|luc|den|truoc|nhac|som)\b`),
	}
}

// Extract returns the location label or "" when none is found.
func (e *LocationExtractor) Extract(text string) string {
	folded, posmap := normalize.Fold(text)

	for _, re := range []*regexp.Regexp{e.marker, e.compound, e.building} {
		m := re.FindStringSubmatchIndex(folded)
		if m == nil {
			continue
		}
		if loc := e.clean(text, posmap, folded, m[2], m[3]); loc != "" {
			return loc
		}
	}
	return ""
}

// clean trims a folded capture range and maps it back to the original text.
func (e *LocationExtractor) clean(text string, posmap []int, folded string, start, end int) string {
	cap := folded[start:end]

	// Truncate at connector keywords that leaked into the capture
	if b := e.boundary.FindStringIndex(cap); b != nil {
		end = start + b[0]
		cap = folded[start:end]
	}

	// Drop a leading marker word that survived inside the capture
	for _, prefix := range []string{"o ", "tai "} {
		if strings.HasPrefix(cap, prefix) {
			start += len(prefix)
			cap = folded[start:end]
			break
		}
	}

	for end > start && (folded[end-1] == ' ' || folded[end-1] == '.') {
		end--
	}
	for start < end && folded[start] == ' ' {
		start++
	}
	if end <= start {
		return ""
	}

	os, oe := normalize.OrigRange(text, posmap, start, end)
	out := strings.Trim(text[os:oe], " ,.;!?")
	if utf8.RuneCountInString(out) <= 2 {
		return ""
	}
	return out
}
