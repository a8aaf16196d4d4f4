package workqueue

import (
	"errors"
	"testing"
	"time"
)

func TestEmbeddedNATSQueueRunsJobs(t *testing.T) {
	q, err := NewEmbeddedNATSQueue(NATSConfig{Subject: "besmarts.test.ok", PollInterval: 2 * time.Second})
	if err != nil {
		t.Fatalf("starting embedded queue: %v", err)
	}
	defer q.Close()

	jobs := []Job{
		{ID: "a", Run: func() (any, error) { return map[string]any{"x": 1.0}, nil }},
		{ID: "b", Run: func() (any, error) { return map[string]any{"x": 2.0}, nil }},
	}
	results, err := q.Submit(jobs)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	for i, r := range results {
		m, ok := r.(map[string]any)
		if !ok {
			t.Fatalf("job %d: want map[string]any, got %T", i, r)
		}
		if m["x"] != float64(i+1) {
			t.Fatalf("job %d: want x=%v, got %v", i, i+1, m["x"])
		}
	}
}

func TestEmbeddedNATSQueueReportsJobFailure(t *testing.T) {
	q, err := NewEmbeddedNATSQueue(NATSConfig{Subject: "besmarts.test.err", PollInterval: 2 * time.Second})
	if err != nil {
		t.Fatalf("starting embedded queue: %v", err)
	}
	defer q.Close()

	jobs := []Job{{ID: "bad", Run: func() (any, error) { return nil, errors.New("boom") }}}
	if _, err := q.Submit(jobs); err == nil {
		t.Fatal("want an aggregated error for the failed job")
	}
}
