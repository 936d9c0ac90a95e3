// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-mapper/internal/bytesconv"
	"github.com/tamzrod/modbus-mapper/internal/schema"
	"github.com/tamzrod/modbus-mapper/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	type span struct {
		start int
		end   int // exclusive
		owner string
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if strings.TrimSpace(cfg.Device.Endpoint) == "" {
		return errors.New("device: endpoint required")
	}
	if cfg.Device.TimeoutMs < 0 {
		return fmt.Errorf("device: timeout_ms %d must be >= 0", cfg.Device.TimeoutMs)
	}
	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms %d must be >= 0", cfg.Poll.IntervalMs)
	}

	// ------------------------------------------------------------
	// SCHEMA OPTIONS
	// ------------------------------------------------------------

	sc := cfg.Schema

	if sc.Endianness != "" {
		if _, err := bytesconv.ParseEndianness(sc.Endianness); err != nil {
			return fmt.Errorf("schema %q: %w", sc.Name, err)
		}
	}

	boolRepr := schema.DefaultOptions().BoolRepr
	if sc.BoolRepr != "" {
		r, err := schema.ParseBoolRepr(sc.BoolRepr)
		if err != nil {
			return fmt.Errorf("schema %q: %w", sc.Name, err)
		}
		// Register transports move whole registers only.
		if r == schema.Native {
			return fmt.Errorf("schema %q: bool_repr native is not register aligned; use int16 or int32", sc.Name)
		}
		boolRepr = r
	}

	// ------------------------------------------------------------
	// FIELD GEOMETRY
	// ------------------------------------------------------------

	if len(sc.Fields) == 0 {
		return fmt.Errorf("schema %q: at least one field required", sc.Name)
	}

	names := make(map[string]struct{}, len(sc.Fields))
	var spans []span

	for _, f := range sc.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("schema %q: field with empty name", sc.Name)
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("schema %q: field %q declared twice", sc.Name, f.Name)
		}
		names[f.Name] = struct{}{}

		d, err := f.Decl()
		if err != nil {
			return fmt.Errorf("schema %q: %w", sc.Name, err)
		}
		size, err := schema.FieldSize(d, boolRepr)
		if err != nil {
			return fmt.Errorf("schema %q: %w", sc.Name, err)
		}
		if f.ReadOnly {
			continue
		}

		if f.Address%2 != 0 {
			return fmt.Errorf("schema %q: field %q: address %d is not register aligned", sc.Name, f.Name, f.Address)
		}

		start := int(f.Address)
		end := start + size

		if end > 0x10000 {
			return fmt.Errorf("schema %q: field %q: range %d-%d exceeds address space", sc.Name, f.Name, start, end-1)
		}

		for _, s := range spans {
			if start < s.end && s.start < end {
				return fmt.Errorf(
					"schema %q: field %q range=%d-%d overlaps field %q range=%d-%d",
					sc.Name, f.Name, start, end-1, s.owner, s.start, s.end-1,
				)
			}
		}
		spans = append(spans, span{start: start, end: end, owner: f.Name})
	}

	if len(spans) == 0 {
		return fmt.Errorf("schema %q: every field is readonly", sc.Name)
	}

	// ------------------------------------------------------------
	// DEVICE STATUS BLOCK VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	st := cfg.Status
	if st == nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(st.Transport)) {
	case "", TransportModbus, TransportIngest:
	default:
		return fmt.Errorf("status: unknown transport %q", st.Transport)
	}

	for i := 0; i < len(st.DeviceName); i++ {
		if st.DeviceName[i] > 0x7F {
			return errors.New("status: device_name must contain ASCII characters only")
		}
	}

	if st.Address%2 != 0 {
		return fmt.Errorf("status: address %d is not register aligned", st.Address)
	}

	start := int(st.Address)
	end := start + status.BlockSize
	if end > 0x10000 {
		return fmt.Errorf("status: block %d-%d exceeds address space", start, end-1)
	}

	// Only a block on the same endpoint and unit can collide with the record.
	sameTarget := (st.Endpoint == "" || st.Endpoint == cfg.Device.Endpoint) &&
		(st.UnitID == nil || *st.UnitID == cfg.Device.UnitID)

	if sameTarget {
		for _, s := range spans {
			if start < s.end && s.start < end {
				return fmt.Errorf(
					"status: block range=%d-%d overlaps field %q range=%d-%d",
					start, end-1, s.owner, s.start, s.end-1,
				)
			}
		}
	}

	return nil
}
