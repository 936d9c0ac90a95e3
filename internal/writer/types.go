// internal/writer/types.go
package writer

import "github.com/tamzrod/modbus-mapper/internal/frame"

// EndpointClient is the exact contract the writers use.
// Register data is laid out two bytes per register, as the codec encodes it.
type EndpointClient interface {
	WriteRegisters(unitID uint8, regAddr uint16, data []byte) error
	WriteCoils(unitID uint8, addr uint16, bits []bool) error
}

// Plan is the fully-built write plan for one device.
type Plan struct {
	Endpoint string
	UnitID   uint8
	Status   *StatusPlan
}

// StatusPlan places the device status block.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	Address    uint16 // byte address of the block
	Transport  string
	DeviceName string
}

// Writer delivers frames to the device.
type Writer interface {
	Write(frames []frame.Frame, coils []frame.BitFrame) error
}
