package normalize

import (
	"strings"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Họp nhóm", "hop nhom"},
		{"đi chợ", "di cho"},
		{"Đà Nẵng", "da nang"},
		{"chiều thứ Bảy", "chieu thu bay"},
		{"10h sáng mai", "10h sang mai"},
		{"plain ascii 123", "plain ascii 123"},
		{"", ""},
	}
	for _, tt := range tests {
		got, m := Fold(tt.in)
		if got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(m) != len(got) {
			t.Errorf("Fold(%q): posmap len %d, folded len %d", tt.in, len(m), len(got))
		}
	}
}

func TestFoldPositionMap(t *testing.T) {
	orig := "họp 10h sáng mai ở phòng 302"
	folded, m := Fold(orig)

	if folded != "hop 10h sang mai o phong 302" {
		t.Fatalf("folded = %q", folded)
	}

	// Map the folded "sang mai" back to the original bytes.
	fs := strings.Index(folded, "sang mai")
	os, oe := OrigRange(orig, m, fs, fs+len("sang mai"))
	if orig[os:oe] != "sáng mai" {
		t.Errorf("OrigRange mapped to %q, want %q", orig[os:oe], "sáng mai")
	}

	// Full-string round trip
	os, oe = OrigRange(orig, m, 0, len(folded))
	if os != 0 || oe != len(orig) {
		t.Errorf("full range mapped to [%d,%d), want [0,%d)", os, oe, len(orig))
	}
}

func TestFoldTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sauh giờ chiều", "sau gio chieu"},
		{"muoih gio", "muoi gio"},
		{"sau giờ", "sau gio"}, // already canonical
		{"hahn", "hahn"},      // not a number-word typo
	}
	for _, tt := range tests {
		got, m := FoldTime(tt.in)
		if got != tt.want {
			t.Errorf("FoldTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(m) != len(got) {
			t.Errorf("FoldTime(%q): posmap len %d, folded len %d", tt.in, len(m), len(got))
		}
	}
}

func TestFoldTimeMapStaysValid(t *testing.T) {
	orig := "sauh giờ tối"
	folded, m := FoldTime(orig)

	fs := strings.Index(folded, "gio")
	os, oe := OrigRange(orig, m, fs, fs+len("gio"))
	if orig[os:oe] != "giờ" {
		t.Errorf("after typo fix, OrigRange mapped to %q, want %q", orig[os:oe], "giờ")
	}
}

func TestOrigRangeBounds(t *testing.T) {
	orig := "họp"
	folded, m := Fold(orig)

	os, oe := OrigRange(orig, m, len(folded), len(folded)+5)
	if os != len(orig) || oe != len(orig) {
		t.Errorf("out-of-range start mapped to [%d,%d), want [%d,%d)", os, oe, len(orig), len(orig))
	}

	os, oe = OrigRange(orig, m, -1, 1)
	if os != 0 {
		t.Errorf("negative start mapped to %d, want 0", os)
	}
	_ = oe
}

func TestPeriodEvening(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"8h tối nay", true},     // diacritics say evening
		{"10h tôi có họp", false}, // diacritics say pronoun
		{"6h toi", true},          // ascii, clock precedes
		{"toi mai di hoc", true},  // ascii, day word follows
		{"gap toi", false},        // ascii, no time context
		{"toi nay ranh", true},    // ascii, "nay" follows
	}
	for _, tt := range tests {
		folded, m := FoldTime(tt.text)
		pos := strings.Index(folded, "toi")
		if pos < 0 {
			t.Fatalf("no folded toi in %q", tt.text)
		}
		if got := PeriodEvening(tt.text, m, folded, pos); got != tt.want {
			t.Errorf("PeriodEvening(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
