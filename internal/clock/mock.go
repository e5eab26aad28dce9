package clock

import (
	"context"
	"time"
)

// MockClock is a Clock implementation for tests. Sleep advances the
// clock instead of blocking.
type MockClock struct {
	CurrentTime time.Time

	// Slept records every duration passed to Sleep, in order.
	Slept []time.Duration
}

var _ Clock = (*MockClock)(nil)

func NewMock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

func (c *MockClock) Sleep(_ context.Context, d time.Duration) {
	c.Slept = append(c.Slept, d)
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Advance moves the clock forward by the given duration.
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}
