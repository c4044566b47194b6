package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quangtn/vietcal/internal/normalize"
)

// EventCleaner produces the event label from the text after every other
// extractor claimed its fragment. Best-effort and lossy, but deterministic:
// the same input always yields the same label.
type EventCleaner struct {
	protected  *regexp.Regexp
	reminder   *regexp.Regexp
	connectors *regexp.Regexp
	periods    *regexp.Regexp
	numbers    *regexp.Regexp
	verbs      map[string]bool
	noise      map[string]bool
}

func NewEventCleaner() *EventCleaner {
	return &EventCleaner{
		// Compound verb phrases that must survive even though their last
		// word doubles as location or period vocabulary.
		protected: regexp.MustCompile(`\b(?:di|ra)\s+cho\b|\ban\s+(?:toi|sang|trua)\b|\bdi\s+cafe\b|\bkham\s+benh\b`),

		reminder:   regexp.MustCompile(`\b(?:nhac\s*nho|nhac|bao\s*thuc|remind|notify)\b(?:\s*(?:toi|minh))?(?:\s*(?:truoc|som\s*hon))?(?:\s*\d{1,3}\s*(?:phut|p|gio|h|tieng)\b)?`),
		connectors: regexp.MustCompile(`\b(?:vao|luc|tu|den|va|o|tai)\b`),
		periods:    regexp.MustCompile(`\b(?:sang|trua|chieu|dem|khuya|toi)\b`),
		numbers:    regexp.MustCompile(`\b\d+\b`),

		verbs: wordSet("hop", "di", "lam", "gap", "hoc", "an", "chay", "tap", "mua", "kham"),
		noise: wordSet("o", "tai", "vao", "luc", "den", "va", "nhe", "ne", "nha", "roi"),
	}
}

func wordSet(ws ...string) map[string]bool {
	s := make(map[string]bool, len(ws))
	for _, w := range ws {
		s[w] = true
	}
	return s
}

// Clean removes timePhrase, location, reminder and filler vocabulary from
// text and returns what is left as the event label. text is the sentence
// with the reminder phrase already cut out; timePhrase and location are the
// verbatim fragments the other extractors reported (either may be empty).
func (c *EventCleaner) Clean(text, timePhrase, location string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	folded, posmap := normalize.Fold(text)
	remove := make([]bool, len(text))
	protect := make([]bool, len(text))

	for _, loc := range c.protected.FindAllStringIndex(folded, -1) {
		os, oe := normalize.OrigRange(text, posmap, loc[0], loc[1])
		markRange(protect, nil, os, oe)
	}

	if timePhrase != "" {
		if i := strings.Index(text, timePhrase); i >= 0 {
			markRange(remove, protect, i, i+len(timePhrase))
		}
	}
	if location != "" {
		if i := strings.Index(text, location); i >= 0 {
			markRange(remove, protect, markerStart(text, i), i+len(location))
		}
		c.removeLocationTokens(text, folded, posmap, remove, protect, location)
	}

	for _, re := range []*regexp.Regexp{c.reminder, c.connectors, c.numbers} {
		for _, loc := range re.FindAllStringIndex(folded, -1) {
			os, oe := normalize.OrigRange(text, posmap, loc[0], loc[1])
			markRange(remove, protect, os, oe)
		}
	}

	// Period words go too, except when "toi" is the pronoun
	for _, loc := range c.periods.FindAllStringIndex(folded, -1) {
		if folded[loc[0]:loc[1]] == "toi" && !normalize.PeriodEvening(text, posmap, folded, loc[0]) {
			continue
		}
		os, oe := normalize.OrigRange(text, posmap, loc[0], loc[1])
		markRange(remove, protect, os, oe)
	}

	if out := c.finish(text, remove); out != "" {
		return out
	}
	if out := c.recoverVerbPhrase(text); out != "" {
		return out
	}
	return firstWords(text, 3)
}

// removeLocationTokens scrubs individual location words that appear outside
// the verbatim location span (diacritic variants of the same token).
func (c *EventCleaner) removeLocationTokens(text, folded string, posmap []int, remove, protect []bool, location string) {
	for _, tok := range strings.Fields(location) {
		if utf8.RuneCountInString(tok) < 3 {
			continue
		}
		ft, _ := normalize.Fold(tok)
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(ft) + `\b`)
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(folded, -1) {
			os, oe := normalize.OrigRange(text, posmap, loc[0], loc[1])
			markRange(remove, protect, os, oe)
		}
	}
}

// markRange marks [start,end) in mask, skipping protected bytes
func markRange(mask, protect []bool, start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(mask) {
		end = len(mask)
	}
	for i := start; i < end; i++ {
		if protect != nil && protect[i] {
			continue
		}
		mask[i] = true
	}
}

// markerStart widens a location span to include the marker word before it
func markerStart(text string, i int) int {
	head := text[:i]
	for _, marker := range []string{"ở ", "tại ", "o ", "tai "} {
		if strings.HasSuffix(head, marker) {
			return i - len(marker)
		}
	}
	return i
}

// finish assembles the kept bytes, tidies whitespace and punctuation, and
// drops a short trailing noise fragment.
func (c *EventCleaner) finish(text string, remove []bool) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if remove[i] {
			continue
		}
		b.WriteByte(text[i])
	}

	fields := strings.Fields(strings.Trim(b.String(), " ,.;!?-"))
	for len(fields) > 0 {
		last := strings.Trim(fields[len(fields)-1], ",.;!?")
		lf, _ := normalize.Fold(last)
		if utf8.RuneCountInString(last) <= 3 && c.noise[lf] {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}

	out := strings.Trim(strings.Join(fields, " "), " ,.;!?-")
	if utf8.RuneCountInString(out) < 2 {
		return ""
	}
	return out
}

// recoverVerbPhrase searches the text for a known action verb and returns it
// with the following one or two words.
func (c *EventCleaner) recoverVerbPhrase(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		ff, _ := normalize.Fold(strings.Trim(f, ",.;!?"))
		if !c.verbs[ff] {
			continue
		}
		end := i + 3
		if end > len(fields) {
			end = len(fields)
		}
		out := strings.Trim(strings.Join(fields[i:end], " "), " ,.;!?")
		if utf8.RuneCountInString(out) >= 2 {
			return out
		}
	}
	return ""
}

func firstWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Trim(strings.Join(fields, " "), " ,.;!?")
}
