// Package system implements clock.Clock with the real wall clock.
package system

import "time"

// Clock reads the system time in UTC. Source pages carry Lisbon-local dates
// while the scheduler thinks in Europe/Lisbon; keeping every internal
// timestamp in UTC avoids mixed-zone comparisons in between.
type Clock struct{}

// New returns a Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
