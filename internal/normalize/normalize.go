// Package normalize folds Vietnamese text into an ASCII-range form suitable
// for diacritic- and typo-tolerant pattern matching.
//
// Folding is lossy, so every function that rewrites text also returns a
// position map carrying one entry per output byte: the byte offset of the
// original rune it was derived from. Extracted spans are mapped back through
// this table instead of being recomputed.
//
// All functions are pure and safe for concurrent use.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// typoRe fixes a stray "h" typed after a number word ("sauh" -> "sau").
// The folded text is ASCII at this point, so \b is reliable.
var typoRe = regexp.MustCompile(`\b(?:mot|hai|ba|bon|tu|nam|sau|bay|tam|chin|muoi)h\b`)

// Fold lowercases text, maps đ/Đ to d (it does not decompose under NFD),
// decomposes the remaining runes and drops combining marks. Vietnamese input
// comes out as plain ASCII. The second return value maps each byte of the
// folded string to the byte offset of the source rune in text.
func Fold(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	posmap := make([]int, 0, len(text))

	for i, r := range text {
		lr := unicode.ToLower(r)
		if lr == 'đ' {
			b.WriteByte('d')
			posmap = append(posmap, i)
			continue
		}
		for _, dr := range norm.NFD.String(string(lr)) {
			if unicode.Is(unicode.Mn, dr) {
				continue
			}
			n := b.Len()
			b.WriteRune(dr)
			for ; n < b.Len(); n++ {
				posmap = append(posmap, i)
			}
		}
	}

	return b.String(), posmap
}

// FoldTime is Fold followed by the number-word typo canonicalization used
// when matching time expressions. The position map stays aligned with the
// returned string.
func FoldTime(text string) (string, []int) {
	s, m := Fold(text)

	locs := typoRe.FindAllStringIndex(s, -1)
	if locs == nil {
		return s, m
	}

	var b strings.Builder
	out := make([]int, 0, len(m))
	prev := 0
	for _, loc := range locs {
		// Drop the trailing "h" byte of the match and its map entry
		b.WriteString(s[prev : loc[1]-1])
		out = append(out, m[prev:loc[1]-1]...)
		prev = loc[1]
	}
	b.WriteString(s[prev:])
	out = append(out, m[prev:]...)

	return b.String(), out
}

// OrigRange maps a half-open byte range of the folded string back to a byte
// range of the original text. orig must be the exact string the map was
// produced from.
func OrigRange(orig string, posmap []int, start, end int) (int, int) {
	if len(posmap) == 0 || start >= len(posmap) {
		return len(orig), len(orig)
	}
	if start < 0 {
		start = 0
	}
	os := posmap[start]
	if end <= start {
		return os, os
	}
	if end > len(posmap) {
		end = len(posmap)
	}
	oe := posmap[end-1]
	_, sz := utf8.DecodeRuneInString(orig[oe:])
	return os, oe + sz
}

var (
	clockBeforeRe = regexp.MustCompile(`\d\s*(?:h|gio)?\s*$`)
	dayAfterRe    = regexp.MustCompile(`^\s+(?:nay|mai|qua|hom\s)`)
)

// PeriodEvening reports whether the folded token "toi" starting at byte pos
// denotes the evening period word "tối" rather than the pronoun "tôi".
// A diacritic-free "toi" counts as a period only when a clock time precedes
// it or a day word follows it ("6h toi", "toi mai").
func PeriodEvening(orig string, posmap []int, folded string, pos int) bool {
	os, oe := OrigRange(orig, posmap, pos, pos+3)
	switch orig[os:oe] {
	case "tối":
		return true
	case "tôi":
		return false
	}
	if clockBeforeRe.MatchString(folded[:pos]) {
		return true
	}
	return dayAfterRe.MatchString(folded[pos+3:])
}
