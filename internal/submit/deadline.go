package submit

import (
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned for a registration saved after the deadline.
var ErrClosed = errors.New("registration is closed")

// Deadline ends registration at a point in time. The zero Deadline never
// closes.
type Deadline struct {
	At time.Time
}

// Open reports whether registrations are still accepted at now.
func (d Deadline) Open(now time.Time) bool {
	return d.At.IsZero() || now.Before(d.At)
}

// Check returns ErrClosed when registration is no longer open at now.
func (d Deadline) Check(now time.Time) error {
	if d.Open(now) {
		return nil
	}
	return fmt.Errorf("%w since %s", ErrClosed, d.At.Format("02.01.2006 15:04"))
}

// Reference is the date scout categories are counted against: the deadline
// when one is set, now otherwise.
func (d Deadline) Reference(now time.Time) time.Time {
	if d.At.IsZero() {
		return now
	}
	return d.At
}
