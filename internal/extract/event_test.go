package extract

import "testing"

func TestEventClean(t *testing.T) {
	c := NewEventCleaner()

	tests := []struct {
		text     string
		time     string
		location string
		want     string
	}{
		{"họp nhóm lúc 10h sáng mai ở phòng 302", "lúc 10h sáng mai", "phòng 302", "họp nhóm"},
		{"t2 8h sang hop o van phong", "t2 8h sang", "van phong", "hop"},
		{"gặp khách 14:30", "14:30", "", "gặp khách"},
		{"10h tôi có họp", "10h", "", "tôi có họp"}, // pronoun survives
		{"học tiếng anh tối nay", "tối nay", "", "học tiếng anh"},
	}
	for _, tt := range tests {
		if got := c.Clean(tt.text, tt.time, tt.location); got != tt.want {
			t.Errorf("Clean(%q, %q, %q) = %q, want %q", tt.text, tt.time, tt.location, got, tt.want)
		}
	}
}

func TestEventCleanProtectedCompounds(t *testing.T) {
	c := NewEventCleaner()

	tests := []struct {
		text     string
		time     string
		location string
		want     string
	}{
		{"đi chợ lúc 5h chiều", "lúc 5h chiều", "chợ", "đi chợ"},
		{"ăn tối với gia đình", "tối", "", "ăn tối với gia đình"},
		{"đi khám bệnh 7h sáng", "7h sáng", "", "đi khám bệnh"},
	}
	for _, tt := range tests {
		if got := c.Clean(tt.text, tt.time, tt.location); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestEventCleanIdempotent(t *testing.T) {
	c := NewEventCleaner()

	first := c.Clean("họp nhóm lúc 10h sáng mai ở phòng 302", "lúc 10h sáng mai", "phòng 302")
	second := c.Clean(first, "lúc 10h sáng mai", "phòng 302")
	if first != second {
		t.Errorf("not idempotent: %q then %q", first, second)
	}
}

func TestEventCleanFallbacks(t *testing.T) {
	c := NewEventCleaner()

	// Everything removed: fall back to the first words of the text
	got := c.Clean("ở phòng 302 lúc 10h", "lúc 10h", "phòng 302")
	if got == "" {
		t.Error("fallback produced empty label")
	}

	if got := c.Clean("", "", ""); got != "" {
		t.Errorf("empty input produced %q", got)
	}
}
