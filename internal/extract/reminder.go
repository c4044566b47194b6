package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quangtn/vietcal/internal/normalize"
)

// Reminder pattern fragments, matched on folded text so diacritic-free input
// works identically.
const (
	verbPat    = `(?:nhac\s*nho|nhac|bao\s*thuc|bao|remind|notify)`
	pronounPat = `(?:\s*(?:toi|minh|t\b))?`
	beforePat  = `(?:truoc|som\s*hon)`
	hourUnit   = `(?:tieng|gio|hr|h)`
	minuteUnit = `(?:phut|p)`
)

type reminderRule struct {
	re      *regexp.Regexp
	minutes int // minutes per captured unit
}

// ReminderExtractor pulls "remind me N minutes/hours before" phrases out of
// a sentence. It runs before time and location extraction because reminder
// phrases contain time-shaped tokens ("trước 1 giờ") that would otherwise be
// claimed as the event time.
type ReminderExtractor struct {
	rules    []reminderRule
	bareRe   *regexp.Regexp
	fallback int
}

// NewReminderExtractor builds the extractor. bareMinutes is the offset
// assigned when a reminder verb appears with no number at all.
func NewReminderExtractor(bareMinutes int) *ReminderExtractor {
	// Hour patterns come before minute patterns, verb-first word order
	// before number-first. First match wins.
	verbFirst := func(unit string) string {
		return `\b` + verbPat + pronounPat + `\s*` + beforePat + `?\s*(\d{1,3})\s*` + unit + `\b(?:\s*` + beforePat + `)?`
	}
	// The number-first order requires "trước" between number and verb
	// ("10 phút trước nhắc tôi"), otherwise an event time followed by a
	// bare reminder verb would be swallowed as the offset.
	verbLast := func(unit string) string {
		return `\b(\d{1,3})\s*` + unit + `\s*` + beforePat + `\s*` + verbPat + pronounPat
	}

	return &ReminderExtractor{
		rules: []reminderRule{
			{regexp.MustCompile(verbFirst(hourUnit)), 60},
			{regexp.MustCompile(verbFirst(minuteUnit)), 1},
			{regexp.MustCompile(verbLast(hourUnit)), 60},
			{regexp.MustCompile(verbLast(minuteUnit)), 1},
		},
		bareRe:   regexp.MustCompile(`\b(?:nhac\s*nho|nhac|bao\s*thuc|remind|notify)` + pronounPat),
		fallback: bareMinutes,
	}
}

// Extract returns the reminder offset in minutes, the text with the reminder
// phrase removed, and whether any reminder phrase was present. Zero minutes
// with had=false means no reminder was requested.
func (e *ReminderExtractor) Extract(text string) (minutes int, residual string, had bool) {
	folded, posmap := normalize.Fold(text)

	for _, rule := range e.rules {
		m := rule.re.FindStringSubmatchIndex(folded)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(folded[m[2]:m[3]])
		if err != nil {
			continue
		}
		return n * rule.minutes, cutSpan(text, posmap, m[0], m[1]), true
	}

	// Bare verb with no number: the phrase still has to leave the text so
	// the event-name cleaner never sees it.
	if m := e.bareRe.FindStringIndex(folded); m != nil {
		return e.fallback, cutSpan(text, posmap, m[0], m[1]), true
	}

	return 0, text, false
}

// cutSpan removes a folded-coordinate span from the original text and tidies
// the seam left behind.
func cutSpan(text string, posmap []int, start, end int) string {
	os, oe := normalize.OrigRange(text, posmap, start, end)
	out := text[:os] + " " + text[oe:]
	out = strings.Join(strings.Fields(out), " ")
	return strings.Trim(out, " ,.;")
}
