// internal/status/snapshot.go
package status

// Health is the device health state written at OffsetHealthCode.
type Health uint16

const (
	HealthUnknown Health = iota
	HealthOK
	HealthError
	HealthStale
	HealthDisabled
)

func (h Health) String() string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDisabled:
		return "disabled"
	default:
		return "health(?)"
	}
}

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         Health
	LastErrorCode  uint16
	SecondsInError uint16
}
