package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/quangtn/vietcal/internal/normalize"
)

// PeriodFlags records which time-of-day qualifiers appear in a phrase. Only
// used to disambiguate a bare 1-12 hour into a 24-hour value, recomputed per
// call and never persisted.
type PeriodFlags struct {
	Sang   bool
	Trua   bool
	Chieu  bool
	Toi    bool
	NuaDem bool
}

// Resolver turns an extracted Vietnamese time phrase into concrete instants
// relative to an explicit base. It holds only compiled patterns and is safe
// for concurrent use.
type Resolver struct {
	fallbackHour int

	zoneRe     *regexp.Regexp
	dateVNRe   *regexp.Regexp
	dateLitRe  *regexp.Regexp
	durRe      *regexp.Regexp
	weekdayRe  *regexp.Regexp
	weekendRe  *regexp.Regexp
	nextWeekRe *regexp.Regexp
	rangeRe    *regexp.Regexp
	numWordRe  *regexp.Regexp

	relRules   []relRule
	clockRules []clockRule
}

type relRule struct {
	re   *regexp.Regexp
	days int
}

type clockRule struct {
	re     *regexp.Regexp
	hour   func(m []string) (int, int) // returns hour, minute
}

var numWords = map[string]int{
	"mot": 1, "hai": 2, "ba": 3, "bon": 4, "tu": 4, "nam": 5, "sau": 6,
	"bay": 7, "tam": 8, "chin": 9, "muoi": 10, "muoi mot": 11, "muoi hai": 12,
}

var (
	wsRe     = regexp.MustCompile(`\s+`)
	nuaDemRe = regexp.MustCompile(`\bnua\s*dem\b|\bmidnight\b`)
)

// NewResolver compiles the pattern tables. fallbackHour is the hour
// ResolveSingle substitutes when the phrase cannot be resolved at all.
func NewResolver(fallbackHour int) *Resolver {
	atoi := func(s string) int { n, _ := strconv.Atoi(s); return n }

	return &Resolver{
		fallbackHour: fallbackHour,

		zoneRe:     regexp.MustCompile(`(?:mui\s*gio\s*)?(?:utc|gmt)\s*([+-]?\d{1,2})(?::(\d{2}))?|mui\s*gio\s*([+-]?\d{1,2})`),
		dateVNRe:   regexp.MustCompile(`ngay\s*(\d{1,2})\s*thang\s*(\d{1,2})(?:\s*nam\s*(\d{4}))?`),
		dateLitRe:  regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})(?:[./](\d{2,4}))?\b`),
		durRe:      regexp.MustCompile(`\b(?:trong|sau)\s*(\d{1,3})\s*(phut|tieng|gio|ngay|tuan)\b|\b(\d{1,3})\s*(phut|tieng|gio|ngay|tuan)\s*nua\b`),
		weekdayRe:  regexp.MustCompile(`\b(?:thu\s*([2-7]|hai|ba|tu|nam|sau|bay)|t\s*([2-7])|(chu\s*nhat|cn))\b(?:\s*tuan\s*(sau|toi|truoc))?`),
		weekendRe:  regexp.MustCompile(`\bcuoi\s*tuan\b`),
		nextWeekRe: regexp.MustCompile(`\btuan\s*(sau|toi)\b`),
		rangeRe:    regexp.MustCompile(`\bden\b|[-–—]`),
		numWordRe:  regexp.MustCompile(`\b(muoi\s+(?:mot|hai)|mot|hai|ba|bon|tu|nam|sau|bay|tam|chin|muoi)\s+gio\b`),

		relRules: []relRule{
			{regexp.MustCompile(`\bhom\s*nay\b`), 0},
			{regexp.MustCompile(`\bngay\s*mai\b`), 1},
			{regexp.MustCompile(`\bmai\s*mot\b`), 2},
			{regexp.MustCompile(`\bngay\s*mot\b`), 2},
			{regexp.MustCompile(`\bngay\s*kia\b`), 2},
			{regexp.MustCompile(`\bhom\s*kia\b`), -2},
			{regexp.MustCompile(`\bhom\s*qua\b`), -1},
			{regexp.MustCompile(`\bmai\b`), 1},
			{regexp.MustCompile(`\bmot\b`), 2},
		},

		// Colloquial forms first so "10h kem 15" never reads as "10h"
		clockRules: []clockRule{
			{regexp.MustCompile(`\b(\d{1,2})\s*(?:h|gio)?\s*ruoi\b`),
				func(m []string) (int, int) { return atoi(m[1]), 30 }},
			{regexp.MustCompile(`\b(\d{1,2})\s*(?:h|gio)\s*kem\s*(\d{1,2})\b`),
				func(m []string) (int, int) { return atoi(m[1]) - 1, 60 - atoi(m[2]) }},
			{regexp.MustCompile(`\b(\d{1,2}):(\d{1,2})\b`),
				func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
			{regexp.MustCompile(`\b(\d{1,2})\s*h\s*(\d{1,2})\b`),
				func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
			{regexp.MustCompile(`\b(\d{1,2})\s*gio(?:\s*(\d{1,2})\s*phut)?`),
				func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
			{regexp.MustCompile(`\b(\d{1,2})\s*h\b`),
				func(m []string) (int, int) { return atoi(m[1]), 0 }},
		},
	}
}

// Resolve parses phrase against base and returns the start and optional end
// instants. A nil start means the phrase carried no resolvable time.
func (r *Resolver) Resolve(phrase string, base time.Time) (*time.Time, *time.Time) {
	res := r.run(phrase, base)
	return res.start, res.end
}

// ResolveSingle returns only the start and substitutes the fallback hour on
// the resolved day when nothing else parsed. Always returns a value for
// non-empty phrases; callers wanting strict semantics use Resolve.
func (r *Resolver) ResolveSingle(phrase string, base time.Time) *time.Time {
	res := r.run(phrase, base)
	if res.start != nil {
		return res.start
	}
	t := time.Date(res.day.Year(), res.day.Month(), res.day.Day(), r.fallbackHour, 0, 0, 0, base.Location())
	return &t
}

type resolution struct {
	start *time.Time
	end   *time.Time
	day   time.Time
	flags PeriodFlags
}

// run is the fixed-order state machine: timezone, explicit date, duration,
// relative words, period flags, range split, per-segment clock parsing,
// hour disambiguation, combination.
func (r *Resolver) run(phrase string, base time.Time) resolution {
	res := resolution{day: base}
	s, _ := normalize.FoldTime(phrase)
	s = strings.TrimSpace(s)
	if s == "" {
		return res
	}
	s = r.canonNumberWords(s)
	// Fuse "nua dem" into one token so the duration rule cannot read
	// "12 gio nua dem" as a twelve-hour offset.
	s = nuaDemRe.ReplaceAllString(s, "nuadem")

	loc := base.Location()
	if rest, zone := r.extractZone(s); zone != nil {
		s, loc = rest, zone
	}

	dayResolved := false
	if rest, d, ok := r.extractDate(s, base); ok {
		s, res.day, dayResolved = rest, d, true
	}

	// Minute/hour durations produce a full instant; day/week durations
	// only move the calendar day and leave the time to later stages.
	var durInstant *time.Time
	if rest, inst, unit, ok := r.extractDuration(s, base); ok {
		s = rest
		res.day, dayResolved = inst, true
		if unit == "phut" || unit == "gio" || unit == "tieng" {
			t := inst.Truncate(time.Minute)
			durInstant = &t
		}
	}

	if !dayResolved {
		if rest, d, ok := r.extractRelative(s, base); ok {
			s, res.day, dayResolved = rest, d, true
		}
	}

	res.flags = DetectPeriods(s)

	segs := r.rangeRe.Split(s, 2)
	start := r.resolveSegment(segs[0], res.day, res.flags, loc)
	if start == nil && durInstant != nil {
		start = durInstant
	}
	if start == nil {
		start = r.periodDefault(s, res.day, res.flags, loc)
	}
	res.start = start

	if len(segs) == 2 && start != nil {
		// End inherits the day and period flags of the whole phrase.
		// An end at or before the start is returned untouched; the
		// overnight reading is the caller's decision.
		res.end = r.resolveSegment(segs[1], res.day, res.flags, loc)
	}
	return res
}

// resolveSegment parses one range segment for an explicit clock time
func (r *Resolver) resolveSegment(seg string, day time.Time, f PeriodFlags, loc *time.Location) *time.Time {
	for _, rule := range r.clockRules {
		m := rule.re.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		h, min := rule.hour(m)
		if h < 0 || h > 23 || min < 0 || min > 59 {
			continue
		}
		h = AdjustHour(h, f)
		t := time.Date(day.Year(), day.Month(), day.Day(), h, min, 0, 0, loc)
		return &t
	}
	return nil
}

// periodDefault substitutes the conventional hour of a bare period word
func (r *Resolver) periodDefault(s string, day time.Time, f PeriodFlags, loc *time.Location) *time.Time {
	var h int
	switch {
	case f.NuaDem:
		h = 0
	case f.Sang:
		h = 8
	case f.Trua:
		h = 12
	case f.Chieu:
		h = 15
	case f.Toi:
		h = 20
	case r.weekendRe.MatchString(s):
		h = 9
	default:
		return nil
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, loc)
	return &t
}

// AdjustHour maps a raw 0-12 hour plus period flags to a 24-hour value.
// Hours 13 and above are already unambiguous and pass through unchanged.
func AdjustHour(h int, f PeriodFlags) int {
	if h >= 13 {
		return h
	}
	switch {
	case f.NuaDem:
		return 0
	case f.Sang:
		if h == 12 {
			return 0
		}
		return h
	case f.Trua:
		switch {
		case h == 12:
			return 12
		case h >= 1 && h <= 5:
			return h + 12
		default:
			return 12
		}
	case f.Toi:
		switch {
		case h >= 1 && h <= 11:
			return h + 12
		case h == 12:
			return 0
		default:
			return h
		}
	case f.Chieu:
		switch {
		case h >= 1 && h <= 5:
			return h + 12
		case h == 12:
			return 12
		case h < 12:
			return h + 12
		default:
			return h
		}
	}
	return h
}

// DetectPeriods scans a folded phrase for period-of-day qualifiers
func DetectPeriods(s string) PeriodFlags {
	p := wordPad(nuaDemRe.ReplaceAllString(s, "nuadem"))
	return PeriodFlags{
		NuaDem: strings.Contains(p, " nuadem "),
		Sang:   strings.Contains(p, " sang "),
		Trua:   strings.Contains(p, " trua ") || strings.Contains(p, " noon "),
		Chieu:  strings.Contains(p, " chieu "),
		Toi:    strings.Contains(p, " toi ") || strings.Contains(p, " dem ") || strings.Contains(p, " khuya "),
	}
}

func wordPad(s string) string {
	return " " + wsRe.ReplaceAllString(s, " ") + " "
}

// canonNumberWords rewrites spelled-out hours to digits ("muoi mot gio" to
// "11 gio") so the clock rules and the bare "mot" relative-day rule stop
// competing for the same token.
func (r *Resolver) canonNumberWords(s string) string {
	return r.numWordRe.ReplaceAllStringFunc(s, func(m string) string {
		word := strings.TrimSuffix(m, "gio")
		word = wsRe.ReplaceAllString(strings.TrimSpace(word), " ")
		n, ok := numWords[word]
		if !ok {
			return m
		}
		return fmt.Sprintf("%d gio", n)
	})
}

// extractZone pulls a fixed UTC offset out of the phrase
func (r *Resolver) extractZone(s string) (string, *time.Location) {
	m := r.zoneRe.FindStringSubmatch(s)
	if m == nil {
		return s, nil
	}
	hs := m[1]
	if hs == "" {
		hs = m[3]
	}
	h, err := strconv.Atoi(strings.TrimPrefix(hs, "+"))
	if err != nil || h < -14 || h > 14 {
		return s, nil
	}
	offset := h * 3600
	if m[2] != "" {
		mm, _ := strconv.Atoi(m[2])
		if h < 0 {
			offset -= mm * 60
		} else {
			offset += mm * 60
		}
	}
	name := fmt.Sprintf("UTC%+d", h)
	return r.cut(s, r.zoneRe), time.FixedZone(name, offset)
}

// extractDate resolves "ngay D thang M [nam Y]" and literal DD.MM or DD/MM
// dates against the base year.
func (r *Resolver) extractDate(s string, base time.Time) (string, time.Time, bool) {
	if m := r.dateVNRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y := base.Year()
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
		}
		if validDate(d, mo) {
			return r.cut(s, r.dateVNRe), time.Date(y, time.Month(mo), d, 0, 0, 0, 0, base.Location()), true
		}
	}
	if m := r.dateLitRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y := base.Year()
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
			if y < 100 {
				y += 2000
			}
		}
		if validDate(d, mo) {
			return r.cut(s, r.dateLitRe), time.Date(y, time.Month(mo), d, 0, 0, 0, 0, base.Location()), true
		}
	}
	return s, base, false
}

func validDate(d, m int) bool {
	return d >= 1 && d <= 31 && m >= 1 && m <= 12
}

// extractDuration resolves "trong/sau N don vi" and "N don vi nua"
func (r *Resolver) extractDuration(s string, base time.Time) (string, time.Time, string, bool) {
	m := r.durRe.FindStringSubmatch(s)
	if m == nil {
		return s, base, "", false
	}
	ns, unit := m[1], m[2]
	if ns == "" {
		ns, unit = m[3], m[4]
	}
	n, err := strconv.Atoi(ns)
	if err != nil {
		return s, base, "", false
	}
	rest := r.cut(s, r.durRe)
	switch unit {
	case "phut":
		return rest, base.Add(time.Duration(n) * time.Minute), unit, true
	case "gio", "tieng":
		return rest, base.Add(time.Duration(n) * time.Hour), unit, true
	case "ngay":
		return rest, base.AddDate(0, 0, n), unit, true
	case "tuan":
		return rest, base.AddDate(0, 0, 7*n), unit, true
	}
	return s, base, "", false
}

// extractRelative resolves day words and weekday anchors
func (r *Resolver) extractRelative(s string, base time.Time) (string, time.Time, bool) {
	if m := r.weekdayRe.FindStringSubmatch(s); m != nil {
		target := time.Sunday
		switch {
		case m[1] != "":
			target = weekdayOf(m[1])
		case m[2] != "":
			target = weekdayOf(m[2])
		}
		offset := (int(target) - int(base.Weekday()) + 7) % 7
		// A bare weekday naming today means the same day next week
		switch {
		case m[4] == "truoc":
			offset -= 7
		case m[4] == "sau" || m[4] == "toi" || offset == 0:
			offset += 7
		}
		return r.cut(s, r.weekdayRe), base.AddDate(0, 0, offset), true
	}

	for _, rule := range r.relRules {
		if rule.re.MatchString(s) {
			return r.cut(s, rule.re), base.AddDate(0, 0, rule.days), true
		}
	}

	if r.weekendRe.MatchString(s) {
		offset := (int(time.Saturday) - int(base.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		return s, base.AddDate(0, 0, offset), true
	}
	if r.nextWeekRe.MatchString(s) {
		return r.cut(s, r.nextWeekRe), base.AddDate(0, 0, 7), true
	}
	return s, base, false
}

func weekdayOf(w string) time.Weekday {
	switch w {
	case "2", "hai":
		return time.Monday
	case "3", "ba":
		return time.Tuesday
	case "4", "tu":
		return time.Wednesday
	case "5", "nam":
		return time.Thursday
	case "6", "sau":
		return time.Friday
	default:
		return time.Saturday
	}
}

// cut removes the first match of re from s and tidies the seam
func (r *Resolver) cut(s string, re *regexp.Regexp) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return strings.TrimSpace(wsRe.ReplaceAllString(s[:loc[0]]+" "+s[loc[1]:], " "))
}
