// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/modbus-mapper/internal/codec"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Name string
	At   time.Time

	// Raw is the record span exactly as read.
	Raw []byte

	// Values is the decoded record; empty when Err is set.
	Values codec.Values

	Err error // non-nil means the poll cycle failed
}
