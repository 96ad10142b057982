// Package clock abstracts time for components that need a testable "now".
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}
