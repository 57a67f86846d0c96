package soap

import (
	"sync"
	"time"
)

// Clock tells the circuit breaker when a call failed and when the open
// state may end.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// mockClock lets breaker tests step over ResetTimeout without sleeping.
type mockClock struct {
	mu      sync.Mutex
	current time.Time
}

func (m *mockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Advance moves the clock forward by d.
func (m *mockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}

func newMockClock(start time.Time) *mockClock {
	return &mockClock{current: start}
}
