package workqueue

import (
	"errors"
	"testing"
)

func TestLocalPoolRunsAllJobs(t *testing.T) {
	pool := NewLocalPool(4)
	jobs := make([]Job, 10)
	for i := range jobs {
		i := i
		jobs[i] = Job{ID: "j", Run: func() (any, error) { return i * i, nil }}
	}
	results, err := pool.Submit(jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range results {
		if r.(int) != i*i {
			t.Errorf("job %d: want %d, got %v", i, i*i, r)
		}
	}
}

func TestLocalPoolReportsWorkerFailure(t *testing.T) {
	pool := NewLocalPool(2)
	jobs := []Job{
		{ID: "ok", Run: func() (any, error) { return 1, nil }},
		{ID: "bad", Run: func() (any, error) { return nil, errors.New("boom") }},
	}
	_, err := pool.Submit(jobs)
	if err == nil {
		t.Fatal("want an aggregated error reporting the failed job")
	}
}

func TestLocalPoolRecoversPanic(t *testing.T) {
	pool := NewLocalPool(1)
	jobs := []Job{{ID: "panics", Run: func() (any, error) { panic("boom") }}}
	_, err := pool.Submit(jobs)
	if err == nil {
		t.Fatal("want a reported error for a panicking job, not a crash")
	}
}

func TestWorkerCountScalesDown(t *testing.T) {
	if WorkerCount(0) < 1 {
		t.Fatal("worker count should never be below 1")
	}
	small := WorkerCount(1_000)
	large := WorkerCount(200_000_000)
	if large > small {
		t.Fatalf("a large IC count should scale workers down, got small=%d large=%d", small, large)
	}
}

func TestEffectiveWorkersCapsToLocalhost(t *testing.T) {
	if got := EffectiveWorkers(8, 3); got != 3 {
		t.Fatalf("candidate count below worker count should reduce workers to it, got %d", got)
	}
	if got := EffectiveWorkers(8, 100); got != 8 {
		t.Fatalf("candidate count above worker count should leave workers alone, got %d", got)
	}
}
