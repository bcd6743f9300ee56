// Package clock abstracts the current time so rollover decisions can be tested
// against fixed instants.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

var (
	_ Clock = RealClock{}
	_ Clock = Func(nil)
)
