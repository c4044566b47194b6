package worker

import (
	"context"
	"sort"
	"time"

	"github.com/quangtn/vietcal/internal/model"
	"github.com/quangtn/vietcal/internal/pipeline"
)

// ParseJob parses one input line against a shared reference instant
type ParseJob struct {
	Index int
	Text  string
	Base  time.Time
	Pipe  *pipeline.Pipeline
}

// ParseResult pairs a parsed line with its position in the input
type ParseResult struct {
	Index  int
	Text   string
	Result *model.Result
	Err    error
}

// GetError implements the pool's Result interface
func (r *ParseResult) GetError() error { return r.Err }

// Execute implements the pool's Job interface
func (j *ParseJob) Execute(ctx context.Context) Result {
	res, err := j.Pipe.Process(ctx, j.Text, j.Base)
	return &ParseResult{Index: j.Index, Text: j.Text, Result: res, Err: err}
}

// BatchProcessor parses many sentences concurrently
type BatchProcessor struct {
	pipe    *pipeline.Pipeline
	workers int
}

// NewBatchProcessor creates a batch processor over an assembled pipeline
func NewBatchProcessor(pipe *pipeline.Pipeline, workers int) *BatchProcessor {
	if workers <= 0 {
		workers = 1
	}
	return &BatchProcessor{pipe: pipe, workers: workers}
}

// Process parses every line and returns one result per line, in input order
func (b *BatchProcessor) Process(ctx context.Context, lines []string, base time.Time) []*ParseResult {
	pool := NewPool(b.workers)
	pool.Start()

	for i, line := range lines {
		pool.Submit(&ParseJob{Index: i, Text: line, Base: base, Pipe: b.pipe})
	}

	raw := pool.Wait()
	out := make([]*ParseResult, 0, len(raw))
	for _, r := range raw {
		if pr, ok := r.(*ParseResult); ok {
			out = append(out, pr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
