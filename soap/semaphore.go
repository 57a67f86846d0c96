package soap

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

var (
	// ErrQueueFull is returned when the call queue limit is reached.
	ErrQueueFull = errors.New("soap: call queue is full")

	// ErrAcquireTimeout is returned when waiting for a call slot times out.
	ErrAcquireTimeout = errors.New("soap: timeout waiting for a call slot")
)

// callSemaphore bounds the number of calls in flight and queues the rest
// client-side.
type callSemaphore struct {
	sem       chan struct{}
	maxSize   int
	queueSize int32 // atomic
	maxQueue  int
	timeout   time.Duration
}

// newCallSemaphore creates a semaphore.
// maxQueue: waiters allowed (-1 = unbounded, 0 = no queue).
func newCallSemaphore(maxInFlight, maxQueue int, timeout time.Duration) *callSemaphore {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &callSemaphore{
		sem:      make(chan struct{}, maxInFlight),
		maxSize:  maxInFlight,
		maxQueue: maxQueue,
		timeout:  timeout,
	}
}

// Acquire blocks until a slot is available or timeout/cancel.
func (cs *callSemaphore) Acquire(ctx context.Context) error {
	// A free slot never counts against the queue limit.
	select {
	case cs.sem <- struct{}{}:
		return nil
	default:
	}

	qLen := atomic.AddInt32(&cs.queueSize, 1)
	defer atomic.AddInt32(&cs.queueSize, -1)

	if cs.maxQueue >= 0 && int(qLen) > cs.maxQueue {
		return ErrQueueFull
	}

	timeout := cs.timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case cs.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrAcquireTimeout
	}
}

// Release returns a slot. It must only be called after a successful Acquire.
func (cs *callSemaphore) Release() {
	select {
	case <-cs.sem:
	default:
	}
}

// Stats returns busy slots, waiters and capacity.
func (cs *callSemaphore) Stats() (active, queued, max int) {
	return len(cs.sem), int(atomic.LoadInt32(&cs.queueSize)), cs.maxSize
}
