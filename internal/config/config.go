// internal/config/config.go
package config

import "time"

type Config struct {
	Device  DeviceConfig  `yaml:"device" toml:"device"`
	Schema  SchemaConfig  `yaml:"schema" toml:"schema"`
	Poll    PollConfig    `yaml:"poll" toml:"poll"`
	Status  *StatusConfig `yaml:"status" toml:"status"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id" toml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`
}

func (d DeviceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// ---- SCHEMA ----

type SchemaConfig struct {
	Name       string        `yaml:"name" toml:"name"`
	Endianness string        `yaml:"endianness" toml:"endianness"`
	BoolRepr   string        `yaml:"bool_repr" toml:"bool_repr"`
	Fields     []FieldConfig `yaml:"fields" toml:"fields"`
}

// FieldConfig declares one field. Address is a byte address.
type FieldConfig struct {
	Name     string `yaml:"name" toml:"name"`
	Address  uint16 `yaml:"address" toml:"address"`
	Type     string `yaml:"type" toml:"type"`
	Base     string `yaml:"base" toml:"base"` // enum only
	ReadOnly bool   `yaml:"readonly" toml:"readonly"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms" toml:"interval_ms"`
}

func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

// ---- STATUS ----

// StatusConfig places the device status block (optional, opt-in).
// Endpoint and UnitID default to the device's.
type StatusConfig struct {
	Address    uint16 `yaml:"address" toml:"address"`
	DeviceName string `yaml:"device_name" toml:"device_name"`
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	UnitID     *uint8 `yaml:"unit_id" toml:"unit_id"`
	Transport  string `yaml:"transport" toml:"transport"` // modbus | ingest
}

const (
	TransportModbus = "modbus"
	TransportIngest = "ingest"
)

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
}
