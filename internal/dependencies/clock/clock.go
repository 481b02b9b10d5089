package clock

import "time"

// Clock abstracts the wall clock so session expiry and timestamps can be
// driven from tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
