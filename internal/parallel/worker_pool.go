// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"

	"pii-anonymizer/internal/observability"
)

// ProcessFunc transforms the text of one job.
type ProcessFunc func(ctx context.Context, text string) (string, error)

// WorkerPool runs a ProcessFunc over submitted texts on a fixed number of
// goroutines.
type WorkerPool struct {
	workers  int
	process  ProcessFunc
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	observer *observability.StandardObserver
	once     sync.Once
}

// Job is one text to process. ID is echoed in the Result so callers can
// restore input order.
type Job struct {
	ID   int
	Text string
}

// Result of a Job.
type Result struct {
	ID       int
	Text     string
	Error    error
	Duration time.Duration
}

// NewWorkerPool creates a pool. workers <= 0 uses GOMAXPROCS.
func NewWorkerPool(ctx context.Context, workers int, process ProcessFunc, observer *observability.StandardObserver) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if observer == nil {
		observer = observability.Nop()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workers:  workers,
		process:  process,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		observer: observer,
	}
}

// Start initializes worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Close signals that no more jobs will be submitted. Results is closed once
// every submitted job has been processed.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.jobs)
		go func() {
			wp.wg.Wait()
			close(wp.results)
			wp.cancel()
		}()
	})
}

// Cancel abandons outstanding jobs.
func (wp *WorkerPool) Cancel() {
	wp.cancel()
}

// Submit adds a job to the queue. It returns false if the pool was cancelled.
func (wp *WorkerPool) Submit(job *Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for job := range wp.jobs {
		result := wp.processJob(job)

		select {
		case wp.results <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job *Job) *Result {
	start := time.Now()
	if err := wp.ctx.Err(); err != nil {
		return &Result{ID: job.ID, Error: err}
	}
	text, err := wp.process(wp.ctx, job.Text)
	return &Result{ID: job.ID, Text: text, Error: err, Duration: time.Since(start)}
}

// Map applies fn to every input on a pool of workers and returns the outputs
// in input order. The first error cancels the remaining work and is returned.
func Map(ctx context.Context, workers int, inputs []string, fn ProcessFunc, observer *observability.StandardObserver) ([]string, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}
	wp := NewWorkerPool(ctx, workers, fn, observer)
	done := wp.observer.StartTiming("worker_pool", "map", "")
	wp.Start()

	go func() {
		defer wp.Close()
		for i, text := range inputs {
			if !wp.Submit(&Job{ID: i, Text: text}) {
				return
			}
		}
	}()

	outputs := make([]string, len(inputs))
	var firstErr error
	var busy time.Duration
	for r := range wp.Results() {
		if r.Error != nil {
			if firstErr == nil {
				firstErr = r.Error
				wp.Cancel()
			}
			continue
		}
		outputs[r.ID] = r.Text
		busy += r.Duration
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}

	done(firstErr == nil, map[string]interface{}{
		"jobs":    len(inputs),
		"workers": wp.workers,
		"busy_ms": busy.Milliseconds(),
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return outputs, nil
}
