// internal/status/tracker.go
package status

import (
	"errors"

	tmodbus "github.com/tamzrod/modbus-mapper/internal/transport/modbus"
)

// Tracker owns the device status state between poll cycles.
// It is driven by one goroutine and is not safe for concurrent use.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in HealthUnknown with no error.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Observe folds one poll outcome into the state and reports whether it changed.
// Seconds in error are reset on recovery and only advanced by Tick.
func (t *Tracker) Observe(err error) bool {
	next := t.snap

	if err == nil {
		next.Health = HealthOK
		next.LastErrorCode = 0
		next.SecondsInError = 0
	} else {
		next.Health = HealthError
		next.LastErrorCode = ErrorCode(err)
	}

	changed := next != t.snap
	t.snap = next
	return changed
}

// Tick advances seconds_in_error by one while not OK.
// It saturates at MaxSecondsInError and never wraps.
func (t *Tracker) Tick() bool {
	if t.snap.Health == HealthOK || t.snap.SecondsInError >= MaxSecondsInError {
		return false
	}
	t.snap.SecondsInError++
	return true
}

// ErrorCode extracts a best-effort uint16 code from an error.
// Modbus exceptions yield their exception code; anything else that
// does not expose a code returns 1 (generic error).
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	if code, ok := tmodbus.ExceptionCode(err); ok {
		return uint16(code)
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return 1
}
