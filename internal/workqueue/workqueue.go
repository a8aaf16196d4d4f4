// Package workqueue implements the work-queue abstraction of spec.md §5:
// a shared contract for fanning candidate-scoring (or decode) jobs out to
// workers, whether local goroutines or remote processes behind NATS. Both
// backends share the same Job/Queue contract so the caller never branches
// on which is in use.
package workqueue

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ntBre/besmarts/internal/errs"
)

// Job is one unit of work submitted to a Queue: a stable id (used for
// result correlation and, on the NATS backend, as the wire lookup key) and
// the work itself.
type Job struct {
	ID  string
	Run func() (any, error)
}

// Queue is the shared work-queue contract of spec.md §5: "workers may be
// local processes or remote; the contract is identical."
type Queue interface {
	// Submit runs every job, returning results in the same order as jobs.
	// A job whose Run panics or errors is reported as spec.md §7's
	// WorkerFailure rather than aborting the batch.
	Submit(jobs []Job) ([]any, error)
}

// LocalPool is a bounded-concurrency goroutine pool, the default
// localhost backend of spec.md §5.
type LocalPool struct {
	Workers int
}

func NewLocalPool(workers int) *LocalPool {
	if workers < 1 {
		workers = 1
	}
	return &LocalPool{Workers: workers}
}

func (p *LocalPool) Submit(jobs []Job) ([]any, error) {
	results := make([]any, len(jobs))
	jobErrs := make([]error, len(jobs))
	sem := make(chan struct{}, p.Workers)
	var wg sync.WaitGroup

	for i, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, j Job) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					jobErrs[i] = fmt.Errorf("%w: job %s panicked: %v", errs.ErrWorkerFailure, j.ID, r)
				}
			}()
			res, err := j.Run()
			results[i] = res
			if err != nil {
				jobErrs[i] = fmt.Errorf("%w: job %s: %v", errs.ErrWorkerFailure, j.ID, err)
			}
		}(i, j)
	}
	wg.Wait()

	var me errs.MultiError
	for _, e := range jobErrs {
		me.Append(e)
	}
	return results, me.AsError()
}

// WorkerCount is spec.md §5's default worker count: host CPU count, scaled
// down by total IC count to bound memory per worker.
func WorkerCount(totalICs int) int {
	n := runtime.NumCPU()
	switch {
	case totalICs > 100_000_000:
		n /= 10
	case totalICs > 50_000_000:
		n /= 5
	case totalICs > 10_000_000:
		n /= 3
	case totalICs > 5_000_000:
		n /= 2
	}
	if n < 1 {
		n = 1
	}
	return n
}

// EffectiveWorkers reduces workers to candidateCount when there are no more
// candidates than workers, and otherwise returns workers unchanged. It
// returns a count only: it does not select a backend, and nothing here
// restricts dispatch to localhost.
func EffectiveWorkers(workers, candidateCount int) int {
	if candidateCount <= workers {
		return candidateCount
	}
	return workers
}
