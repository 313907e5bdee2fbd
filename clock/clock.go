// Package clock supplies the monotonic time source the frontends sample once
// per frame, and a controllable mock for tests.
package clock

import (
	"sync"
	"time"
)

// TimeProvider returns the current time
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider provides a controllable time source for testing
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockTimeProvider creates a new mock time provider with the given start time
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{
		currentTime: startTime,
	}
}

// Now returns the current mocked time
func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// SetTime sets the current time for the mock
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance advances the current time by the given duration
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Stopwatch reports seconds elapsed since the test started
type Stopwatch struct {
	tp    TimeProvider
	start time.Time
}

// NewStopwatch starts a stopwatch on tp
func NewStopwatch(tp TimeProvider) *Stopwatch {
	return &Stopwatch{tp: tp, start: tp.Now()}
}

// Seconds returns elapsed seconds since start
func (s *Stopwatch) Seconds() float64 {
	return s.tp.Now().Sub(s.start).Seconds()
}
