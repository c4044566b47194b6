package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/quangtn/vietcal/internal/model"
)

var base = time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC)

func TestProcessFullSentence(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil)

	res, err := p.Process(context.Background(), "Họp nhóm lúc 10h sáng mai ở phòng 302, nhắc trước 15 phút", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(res.EventName, "họp nhóm") {
		t.Errorf("event = %q, want it to contain %q", res.EventName, "họp nhóm")
	}
	for _, forbidden := range []string{"10h", "sáng", "mai", "phòng", "302", "nhắc"} {
		if strings.Contains(res.EventName, forbidden) {
			t.Errorf("event %q still contains %q", res.EventName, forbidden)
		}
	}
	want := time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC)
	if res.StartTime == nil || !res.StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", res.StartTime, want)
	}
	if res.Location != "phòng 302" {
		t.Errorf("location = %q", res.Location)
	}
	if res.ReminderMinutes != 15 {
		t.Errorf("reminder = %d", res.ReminderMinutes)
	}
}

func TestProcessDiacriticFree(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil)

	res, err := p.Process(context.Background(), "t2 8h sang hop o van phong", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.EventName, "hop") {
		t.Errorf("event = %q", res.EventName)
	}
	want := time.Date(2025, 11, 10, 8, 0, 0, 0, time.UTC) // next Monday
	if res.StartTime == nil || !res.StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", res.StartTime, want)
	}
	if res.Location != "van phong" {
		t.Errorf("location = %q", res.Location)
	}
}

func TestProcessPronounNotEvening(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil)

	res, _ := p.Process(context.Background(), "10h tôi có họp", base)
	if res.StartTime == nil || res.StartTime.Hour() != 10 {
		t.Errorf("start = %v, want hour 10", res.StartTime)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil)

	res, err := p.Process(context.Background(), "", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EventName != "" || res.StartTime != nil || res.EndTime != nil || res.Location != "" || res.ReminderMinutes != 0 {
		t.Errorf("empty input produced %+v", res)
	}
}

func TestProcessCached(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil)

	a, _ := p.Process(context.Background(), "họp 9h sáng mai", base)
	b, _ := p.Process(context.Background(), "họp 9h sáng mai", base)
	if a != b {
		t.Error("identical (text, base) pair missed the cache")
	}

	c, _ := p.Process(context.Background(), "họp 9h sáng mai", base.AddDate(0, 0, 1))
	if a == c {
		t.Error("different base instant shared a cache entry")
	}
}

type mockBackend struct {
	res *model.Result
	err error
}

func (m *mockBackend) Name() string { return "mock" }
func (m *mockBackend) Process(ctx context.Context, text string, b time.Time) (*model.Result, error) {
	return m.res, m.err
}

func TestEnsembleMerge(t *testing.T) {
	secStart := time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC)
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false

	sec := &mockBackend{res: &model.Result{
		EventName: "họp nhóm", StartTime: &secStart, Location: "phòng 302", Backends: "mock",
	}}
	p := New(cfg, sec, nil)

	res, err := p.Process(context.Background(), "họp nhóm lúc 10h sáng mai ở phòng 302", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backends != "rule+mock" {
		t.Errorf("backends = %q", res.Backends)
	}
	if res.Agreement == nil {
		t.Fatal("no agreement scores")
	}
	if res.Agreement.Time != 1.0 {
		t.Errorf("time agreement = %v, want 1.0", res.Agreement.Time)
	}
	if res.Agreement.Location != 1.0 {
		t.Errorf("location agreement = %v, want 1.0", res.Agreement.Location)
	}

	// Rule fields always win; event name falls back only when rule is empty
	if res.Location != "phòng 302" {
		t.Errorf("location = %q", res.Location)
	}
}

func TestEnsembleEventFallback(t *testing.T) {
	rule := &model.Result{Backends: "rule"}
	sec := &model.Result{EventName: "đi họp", Backends: "mock"}

	merged := Merge(rule, sec)
	if merged.EventName != "đi họp" {
		t.Errorf("event = %q, want fallback to secondary", merged.EventName)
	}

	rule.EventName = "họp nhóm"
	merged = Merge(rule, sec)
	if merged.EventName != "họp nhóm" {
		t.Errorf("event = %q, want rule value", merged.EventName)
	}
}

func TestEnsembleSecondaryFailureIgnored(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := New(cfg, &mockBackend{err: context.DeadlineExceeded}, nil)

	res, err := p.Process(context.Background(), "họp 10h", base)
	if err != nil {
		t.Fatalf("secondary failure leaked: %v", err)
	}
	if res.Backends != "rule" {
		t.Errorf("backends = %q", res.Backends)
	}
}

func TestTextAgreement(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"họp nhóm", "họp nhóm", 1.0},
		{"", "", 1.0},
		{"họp nhóm", "họp", 0.7},
		{"họp", "ăn trưa", 0.0},
		{"họp", "", 0.0},
	}
	for _, tt := range tests {
		if got := textAgreement(tt.a, tt.b); got != tt.want {
			t.Errorf("textAgreement(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLocationFromTags(t *testing.T) {
	tags := []model.TokenLabel{
		{Token: "hop", Label: "O"},
		{Token: "phong", Label: "B-LOC"},
		{Token: "302", Label: "I-LOC"},
		{Token: "nhe", Label: "O"},
	}
	if got := LocationFromTags(tags); got != "phong 302" {
		t.Errorf("got %q", got)
	}
	if got := LocationFromTags(nil); got != "" {
		t.Errorf("got %q for empty tags", got)
	}
}

func TestRenderFormats(t *testing.T) {
	start := time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC)
	res := &model.Result{EventName: "họp nhóm", StartTime: &start, Location: "phòng 302", ReminderMinutes: 15}
	r := NewRenderer()

	var buf bytes.Buffer
	if err := r.Render(res, "json", &buf); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(buf.String(), `"event_name": "họp nhóm"`) {
		t.Errorf("json output missing event: %s", buf.String())
	}

	buf.Reset()
	if err := r.Render(res, "yaml", &buf); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "event_name: họp nhóm") {
		t.Errorf("yaml output missing event: %s", buf.String())
	}

	buf.Reset()
	if err := r.Render(res, "summary", &buf); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(buf.String(), "họp nhóm") || !strings.Contains(buf.String(), "15 minutes") {
		t.Errorf("summary output: %s", buf.String())
	}
}
