package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockResult struct {
	id  int
	err error
}

func (r *mockResult) GetError() error { return r.err }

type mockJob struct {
	id   int
	fail bool
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.fail {
		return &mockResult{id: j.id, err: errors.New("boom")}
	}
	return &mockResult{id: j.id}
}

func TestPoolRunsAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	for i := 0; i < 20; i++ {
		pool.Submit(&mockJob{id: i})
	}

	results := pool.Wait()
	if len(results) != 20 {
		t.Fatalf("got %d results, want 20", len(results))
	}

	seen := make(map[int]bool)
	for _, r := range results {
		mr := r.(*mockResult)
		if seen[mr.id] {
			t.Errorf("job %d executed twice", mr.id)
		}
		seen[mr.id] = true
	}
}

func TestPoolPropagatesErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&mockJob{id: 0, fail: true})
	pool.Submit(&mockJob{id: 1})

	var failed int
	for _, r := range pool.Wait() {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("got %d failures, want 1", failed)
	}
}

func TestPoolZeroWorkers(t *testing.T) {
	pool := NewPool(0)
	pool.Start()
	pool.Submit(&mockJob{id: 0})

	if got := len(pool.Wait()); got != 1 {
		t.Errorf("got %d results, want 1", got)
	}
}

func TestLimiterWait(t *testing.T) {
	l := NewLimiter(100, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "model-a"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
}

func TestLimiterPerKey(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("a") {
		t.Error("first request on key a should pass")
	}
	if l.Allow("a") {
		t.Error("second immediate request on key a should be throttled")
	}
	if !l.Allow("b") {
		t.Error("key b has its own bucket")
	}

	l.SetRate("a", 1000, 10)
	if !l.Allow("a") {
		t.Error("raised rate for key a should pass")
	}
}
