package services

import "time"

// Clock supplies the server-assigned instants used for createdAt/updatedAt/
// acceptedAt/completedAt, injected so tests can run against fixed time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall-clock Clock used in production.
var SystemClock Clock = systemClock{}
