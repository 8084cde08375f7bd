package clock

import "time"

type Clock interface {
	Now() time.Time
}

// DefaultClock implements the Clock interface using the system clock in UTC.
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Useful in tests.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
