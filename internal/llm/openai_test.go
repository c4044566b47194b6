package llm

import "testing"

func TestNewDisabled(t *testing.T) {
	b, err := New(Config{Provider: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != nil {
		t.Fatal("disabled provider returned a backend")
	}

	if _, err := New(Config{Provider: "something-else"}); err == nil {
		t.Error("unknown provider did not error")
	}
	if _, err := New(Config{Provider: "openai"}); err == nil {
		t.Error("missing API key did not error")
	}
}

func TestSliceJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{`Here you go: {"event_name":"hop"} hope that helps`, `{"event_name":"hop"}`},
		{`no json at all`, `no json at all`},
	}
	for _, tt := range tests {
		if got := sliceJSON(tt.in, '{', '}'); got != tt.want {
			t.Errorf("sliceJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
