package worker

import (
	"sync"
	"testing"
	"time"
)

func TestJobsRunInOrder(t *testing.T) {
	w := New(nil)
	defer w.Stop()

	var mu sync.Mutex
	var order []int
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		i := i
		last := i == 4
		ok := w.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			if last {
				close(done)
			}
		})
		if !ok {
			t.Fatalf("Submit(%d) returned false", i)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not complete")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("execution order = %v, want FIFO", order)
		}
	}
}

func TestWorkerSurvivesPanickingJob(t *testing.T) {
	w := New(nil)
	defer w.Stop()

	done := make(chan struct{})
	w.Submit(func() { panic("boom") })
	w.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not survive a panicking job")
	}
}

func TestJobsDoNotOverlap(t *testing.T) {
	w := New(nil)
	defer w.Stop()

	var running int32
	var mu sync.Mutex
	overlap := false
	done := make(chan struct{})

	for i := 0; i < 3; i++ {
		last := i == 2
		w.Submit(func() {
			mu.Lock()
			running++
			if running > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			if last {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not complete")
	}
	if overlap {
		t.Error("two jobs ran concurrently; worker must serialize")
	}
}

func TestStopIsIdempotentAndRefusesNewJobs(t *testing.T) {
	w := New(nil)
	w.Stop()
	w.Stop() // must not panic or deadlock

	if w.Submit(func() {}) {
		t.Error("Submit after Stop should return false")
	}
}

func TestStopWaitsForCurrentJob(t *testing.T) {
	w := New(nil)

	started := make(chan struct{})
	finished := make(chan struct{})
	w.Submit(func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
		close(finished)
	})

	<-started
	w.Stop()

	select {
	case <-finished:
	default:
		t.Error("Stop returned before the in-flight job finished")
	}
}

func TestSubmitNilRejected(t *testing.T) {
	w := New(nil)
	defer w.Stop()
	if w.Submit(nil) {
		t.Error("Submit(nil) should return false")
	}
}
