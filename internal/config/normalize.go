// internal/config/normalize.go
package config

import "strings"

const (
	DefaultTimeoutMs  = 1000
	DefaultIntervalMs = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.TimeoutMs == 0 {
		cfg.Device.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultIntervalMs
	}

	sc := &cfg.Schema
	if sc.Name == "" {
		sc.Name = "device"
	}
	sc.Endianness = strings.ToLower(strings.TrimSpace(sc.Endianness))
	sc.BoolRepr = strings.ToLower(strings.TrimSpace(sc.BoolRepr))
	for i := range sc.Fields {
		f := &sc.Fields[i]
		f.Type = strings.ToLower(strings.TrimSpace(f.Type))
		f.Base = strings.ToLower(strings.TrimSpace(f.Base))
	}

	// ------------------------------------------------------------
	// DEVICE STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	st := cfg.Status
	if st == nil {
		return
	}

	if st.Endpoint == "" {
		st.Endpoint = cfg.Device.Endpoint
	}
	if st.UnitID == nil {
		id := cfg.Device.UnitID
		st.UnitID = &id
	}

	st.Transport = strings.ToLower(strings.TrimSpace(st.Transport))
	if st.Transport == "" {
		st.Transport = TransportModbus
	}

	// ASCII already validated; truncate to max 16 characters.
	if len(st.DeviceName) > 16 {
		st.DeviceName = st.DeviceName[:16]
	}
}
