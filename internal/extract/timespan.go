package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quangtn/vietcal/internal/normalize"
)

// TimeSpan is a matched time expression, with byte offsets into the original
// (diacritics intact) text.
type TimeSpan struct {
	Start int
	End   int
	Text  string
}

// Pattern fragments shared by the rule table. All of them match the folded
// (lowercase, diacritic-free, typo-fixed) form of the input.
const (
	periodPat  = `(?:sang|trua|chieu|toi|dem|khuya)`
	weekdayPat = `(?:chu\s*nhat|cn|thu\s*(?:[2-7]|hai|ba|tu|nam|sau|bay)|t\s*[2-7])`
	numWordPat = `(?:muoi\s+(?:mot|hai)|mot|hai|ba|bon|tu|nam|sau|bay|tam|chin|muoi)`
	relDayPat  = `(?:hom\s+nay|ngay\s+mai|mai\s+mot|ngay\s+mot|ngay\s+kia|hom\s+kia|hom\s+qua|mai|mot)`
	weekSufPat = `(?:\s+tuan\s+(?:sau|toi|truoc))?`
)

// timeRule is one entry of the ordered pattern table. Table order is the
// priority encoding: compound expressions come before the generic single
// tokens they contain, and on equal match length the earlier rule wins.
type timeRule struct {
	kind string
	re   *regexp.Regexp
}

// TimeSegmenter locates time expressions in free-form Vietnamese text
type TimeSegmenter struct {
	rules []timeRule
}

// NewTimeSegmenter compiles the pattern table. Compilation failures are
// programmer errors and panic at construction.
func NewTimeSegmenter() *TimeSegmenter {
	mk := func(kind, pat string) timeRule {
		return timeRule{kind: kind, re: regexp.MustCompile(pat)}
	}

	return &TimeSegmenter{rules: []timeRule{
		// Explicit ranges first: "tu 9h den 11h sang mai", "9h-11h"
		mk("range", `(?:\btu\s+)?\b\d{1,2}\s*(?:h|gio|:)(?:\d{1,2})?(?:\s*phut)?\s*(?:\bden\b|[-–—])\s*\d{1,2}\s*(?:h|gio|:)(?:\d{1,2})?(?:\s*phut)?(?:\s+`+periodPat+`)?(?:\s+(?:mai|hom\s+nay|ngay\s+mai|ngay\s+kia))?`),

		// Weekday and spelled-out hour combinations, both orders
		mk("weekday-numword", `\b`+weekdayPat+`\s+`+numWordPat+`\s+gio(?:\s+`+periodPat+`)?`),
		mk("numword-weekday", `\b`+numWordPat+`\s+gio(?:\s+`+periodPat+`)?\s+`+weekdayPat+`\b`),

		// Weekday with clock time, period before or after
		mk("weekday-period-clock", `\b`+weekdayPat+`\s+`+periodPat+`\s+\d{1,2}\s*(?:h|gio)`),
		mk("weekday-clock", `\b`+weekdayPat+weekSufPat+`\s+\d{1,2}\s*(?:h|gio|:)\s*\d{0,2}(?:\s*`+periodPat+`)?`),

		// Relative day with clock time, either order
		mk("relday-clock", `\b`+relDayPat+`\s+\d{1,2}\s*(?:h|gio)(?:\s*\d{1,2}\s*phut)?(?:\s*`+periodPat+`)?`),
		mk("clock-day", `\b\d{1,2}\s*(?:h\d{2}|h|gio|:\d{2})(?:\s*`+periodPat+`)?\s+(?:`+relDayPat+`|`+weekdayPat+weekSufPat+`)\b`),

		// Clock combined with a literal date
		mk("clock-date-literal", `\b\d{1,2}\s*(?:h|gio|:)\s*\d{0,2}\s*(?:vao\s+)?(?:ngay\s+)?\d{1,2}[./]\d{1,2}(?:[./]\d{2,4})?`),
		mk("clock-date", `\b\d{1,2}\s*(?:h|gio)\s+ngay\s+\d{1,2}\s+thang\s+\d{1,2}\b`),

		// "luc"-prefixed times
		mk("luc-clock", `\bluc\s+\d{1,2}\s*(?:h|gio)(?:\s*\d{1,2}(?:\s*phut)?)?(?:\s*`+periodPat+`)?`),

		// Colloquial clock forms
		mk("half-past", `\b\d{1,2}\s*(?:h|gio)?\s*ruoi\b`),
		mk("to-the-hour", `\b\d{1,2}\s*(?:h|gio)\s*kem\s*\d{1,2}\b`),
		mk("clock-period", `\b\d{1,2}\s*(?:h|gio)(?:\s*\d{1,2}\s*phut)?\s*`+periodPat+`\b`),

		// Plain clock times
		mk("clock", `\b\d{1,2}:\d{1,2}\b|\b\d{1,2}\s*h\s*\d{0,2}\b|\b\d{1,2}\s*gio(?:\s*\d{1,2}\s*phut)?\b`),
		mk("numword-clock", `\b`+numWordPat+`\s+gio(?:\s+`+periodPat+`)?`),

		// Dates, relative days, weekdays
		mk("date", `\bngay\s*\d{1,2}\s*thang\s*\d{1,2}\b`),
		mk("relday", `\b(?:`+relDayPat+`|tuan\s+sau|cuoi\s+tuan)\b`),
		mk("weekday", `\b`+weekdayPat+weekSufPat+`(?:\s+`+periodPat+`)?`),

		// Durations and timezones
		mk("duration", `\b(?:trong|sau)\s*\d{1,3}\s*(?:phut|gio|ngay|tuan)\b|\b\d{1,3}\s*(?:phut|gio|ngay|tuan)\s*nua\b`),
		mk("timezone", `\b(?:mui\s*gio\s*)?(?:utc|gmt)\s*[+-]?\d{1,2}(?::?\d{2})?\b|\bmui\s*gio\s*[+-]?\d{1,2}(?::?\d{2})?`),

		// Bare period words as last resort
		mk("period", `\b`+periodPat+`\b(?:\s+(?:nay|mai|qua))?`),
	}}
}

type candidate struct {
	start, end int
	rule       int
}

var toiTokenRe = regexp.MustCompile(`\btoi\b`)

// Segment scans text for time expressions. It returns the canonical span
// (the longest merged span, mapped back to the original text and extended
// across any trailing letters) and the residual text with every merged span
// removed. Returns a nil span and the text unchanged when nothing matches.
func (s *TimeSegmenter) Segment(text string) (*TimeSpan, string) {
	folded, posmap := normalize.FoldTime(text)
	if folded == "" {
		return nil, text
	}

	var cands []candidate
	for ri, rule := range s.rules {
		for _, loc := range rule.re.FindAllStringIndex(folded, -1) {
			// Optional \s*\d{0,2} tails can leave trailing whitespace in
			// the match; trim it so the back-mapping never extends the
			// span across the following word.
			start, end := loc[0], trimSpace(folded, loc[0], loc[1])
			if end <= start {
				continue
			}
			if !allowSpan(text, posmap, folded, start, end) {
				continue
			}
			cands = append(cands, candidate{start: start, end: end, rule: ri})
		}
	}
	if len(cands) == 0 {
		return nil, text
	}

	merged := mergeCandidates(cands)

	// Longest merged span wins; ties go to the span holding the
	// highest-priority rule, then to the earlier one.
	best := merged[0]
	for _, m := range merged[1:] {
		switch {
		case m.end-m.start > best.end-best.start:
			best = m
		case m.end-m.start == best.end-best.start && m.rule < best.rule:
			best = m
		}
	}

	origStart, origEnd := normalize.OrigRange(text, posmap, best.start, best.end)
	origEnd = extendLetters(text, origEnd)
	span := &TimeSpan{Start: origStart, End: origEnd, Text: text[origStart:origEnd]}

	return span, removeSpans(text, posmap, merged)
}

// allowSpan rejects matches whose "toi" token is the pronoun, not the
// evening period word.
func allowSpan(orig string, posmap []int, folded string, start, end int) bool {
	for _, loc := range toiTokenRe.FindAllStringIndex(folded[start:end], -1) {
		if !normalize.PeriodEvening(orig, posmap, folded, start+loc[0]) {
			return false
		}
	}
	return true
}

// mergeCandidates merges overlapping or near-adjacent spans (gap of at most
// 3 folded bytes), keeping the best rule priority of the constituents.
func mergeCandidates(cands []candidate) []candidate {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].end > cands[j].end
	})

	merged := []candidate{cands[0]}
	for _, c := range cands[1:] {
		last := &merged[len(merged)-1]
		if c.start <= last.end+3 {
			if c.end > last.end {
				last.end = c.end
			}
			if c.rule < last.rule {
				last.rule = c.rule
			}
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

// trimSpace backs end off any whitespace at the tail of folded[start:end]
func trimSpace(folded string, start, end int) int {
	for end > start && (folded[end-1] == ' ' || folded[end-1] == '\t') {
		end--
	}
	return end
}

// extendLetters pushes end forward while the original text continues with
// letter runes, so a span never stops mid-word after diacritic folding.
func extendLetters(text string, end int) int {
	for end < len(text) {
		r, sz := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsLetter(r) {
			break
		}
		end += sz
	}
	return end
}

// removeSpans deletes every merged span from the original text
func removeSpans(text string, posmap []int, spans []candidate) string {
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		os, oe := normalize.OrigRange(text, posmap, sp.start, sp.end)
		oe = extendLetters(text, oe)
		if os < prev {
			os = prev
		}
		if oe < os {
			continue
		}
		b.WriteString(text[prev:os])
		b.WriteByte(' ')
		prev = oe
	}
	if prev < len(text) {
		b.WriteString(text[prev:])
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
