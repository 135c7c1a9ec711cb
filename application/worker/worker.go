// Package worker provides the single-consumer job queue that decouples the
// caller's thread from long-running batch work. Exactly one worker goroutine
// exists per instance; jobs run one at a time in FIFO order, so everything a
// job touches is accessed serially.
package worker

import (
	"sync"
	"time"

	"github.com/darcovia/music-forge/pkg/logger"
	"go.uber.org/zap"
)

// pollInterval bounds the idle wait so the loop periodically re-checks the
// stop flag.
const pollInterval = 200 * time.Millisecond

// Job is an arbitrary unit of work executed on the worker goroutine.
type Job func()

// Worker consumes jobs from an unbounded FIFO queue, one at a time.
// Submit never blocks the caller. A panicking job is recovered and logged;
// the worker survives it and continues serving subsequent jobs.
type Worker struct {
	mu     sync.Mutex
	jobs   []Job
	wake   chan struct{}
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
	log    *logger.Logger
}

// New creates a worker and starts its goroutine.
func New(log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Nop()
	}
	w := &Worker{
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		log:    log,
	}
	go w.loop()
	return w
}

// Submit enqueues a job and returns immediately. Returns false when the
// worker has been stopped.
func (w *Worker) Submit(job Job) bool {
	if job == nil {
		return false
	}
	select {
	case <-w.stopCh:
		return false
	default:
	}

	w.mu.Lock()
	w.jobs = append(w.jobs, job)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the number of jobs waiting to run (excluding a job that
// is currently executing).
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.jobs)
}

// Stop signals the worker to exit after the current job (or immediately if
// idle). Jobs still queued when Stop is called never start. Stop is
// idempotent and waits for the worker goroutine to finish.
func (w *Worker) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
	})
	<-w.done
}

func (w *Worker) loop() {
	defer close(w.done)

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		job := w.take()
		if job == nil {
			select {
			case <-w.stopCh:
				return
			case <-w.wake:
			case <-time.After(pollInterval):
			}
			continue
		}

		w.run(job)
	}
}

func (w *Worker) take() Job {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.jobs) == 0 {
		return nil
	}
	job := w.jobs[0]
	w.jobs = w.jobs[1:]
	return job
}

// run executes one job, recovering any panic so a failing job cannot crash
// the worker loop.
func (w *Worker) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("job panicked", zap.Any("panic", r))
		}
	}()
	job()
}
