package worker

import (
	"context"
	"testing"
	"time"

	"github.com/quangtn/vietcal/internal/model"
	"github.com/quangtn/vietcal/internal/pipeline"
)

func TestBatchPreservesOrder(t *testing.T) {
	pipe := pipeline.New(model.DefaultConfig(), nil, nil)
	b := NewBatchProcessor(pipe, 4)

	base := time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC)
	lines := []string{
		"họp nhóm lúc 10h sáng mai ở phòng 302",
		"ăn trưa 12h",
		"",
		"gặp khách 14:30",
	}

	results := b.Process(context.Background(), lines, base)
	if len(results) != len(lines) {
		t.Fatalf("got %d results, want %d", len(results), len(lines))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if r.Text != lines[i] {
			t.Errorf("result %d text = %q, want %q", i, r.Text, lines[i])
		}
		if r.Err != nil {
			t.Errorf("line %d errored: %v", i, r.Err)
		}
	}

	if results[0].Result.Location != "phòng 302" {
		t.Errorf("line 0 location = %q", results[0].Result.Location)
	}
	if results[2].Result.EventName != "" || results[2].Result.StartTime != nil {
		t.Errorf("empty line produced %+v", results[2].Result)
	}
}
