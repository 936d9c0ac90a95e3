// internal/transport/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-mapper/internal/frame"
)

// Per-request quantity limits from the Modbus application protocol.
const (
	MaxReadRegisters  = 125
	MaxWriteRegisters = 123
	MaxReadCoils      = 2000
	MaxWriteCoils     = 1968
)

var (
	ErrOddAddress = errors.New("modbus: byte address is not register aligned")
	ErrOddLength  = errors.New("modbus: payload is not a whole number of registers")
)

// registerClient is the subset of modbus.Client this package drives.
type registerClient interface {
	ReadCoils(address, quantity uint16) ([]byte, error)
	WriteMultipleCoils(address, quantity uint16, value []byte) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// Client is a single TCP connection to one Modbus server.
// It serializes requests because it mutates SlaveId per request.
type Client struct {
	mu      sync.Mutex
	unitID  uint8
	client  registerClient
	setUnit func(uint8)
	close   func() error
}

// Dial connects to cfg.Endpoint.
func Dial(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		unitID:  cfg.UnitID,
		client:  modbus.NewClient(h),
		setUnit: func(id uint8) { h.SlaveId = id },
		close:   h.Close,
	}, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.close == nil {
		return nil
	}
	return c.close()
}

// UnitID is the default unit for frame and read-request calls.
func (c *Client) UnitID() uint8 { return c.unitID }

// ------------------------------------------------------------
// REGISTERS
// ------------------------------------------------------------

// WriteRegisters writes data (two bytes per register, as laid out by the
// codec) starting at regAddr, splitting into protocol-sized requests.
func (c *Client) WriteRegisters(unitID uint8, regAddr uint16, data []byte) error {
	if len(data)%2 != 0 {
		return ErrOddLength
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setUnit(unitID)

	for off := 0; off < len(data); off += MaxWriteRegisters * 2 {
		end := min(off+MaxWriteRegisters*2, len(data))
		addr := regAddr + uint16(off/2)
		qty := uint16((end - off) / 2)

		if _, err := c.client.WriteMultipleRegisters(addr, qty, data[off:end]); err != nil {
			return fmt.Errorf("modbus: write registers unit=%d addr=%d qty=%d: %w", unitID, addr, qty, err)
		}
	}
	return nil
}

// ReadRegisters reads count holding registers starting at regAddr.
func (c *Client) ReadRegisters(unitID uint8, regAddr uint16, count int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setUnit(unitID)

	out := make([]byte, 0, count*2)
	for done := 0; done < count; {
		qty := min(count-done, MaxReadRegisters)
		addr := regAddr + uint16(done)

		b, err := c.client.ReadHoldingRegisters(addr, uint16(qty))
		if err != nil {
			return nil, fmt.Errorf("modbus: read registers unit=%d addr=%d qty=%d: %w", unitID, addr, qty, err)
		}
		if len(b) != qty*2 {
			return nil, fmt.Errorf("modbus: read registers unit=%d addr=%d: got %d bytes, want %d", unitID, addr, len(b), qty*2)
		}
		out = append(out, b...)
		done += qty
	}
	return out, nil
}

// ------------------------------------------------------------
// COILS
// ------------------------------------------------------------

func (c *Client) WriteCoils(unitID uint8, addr uint16, bits []bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setUnit(unitID)

	for off := 0; off < len(bits); off += MaxWriteCoils {
		end := min(off+MaxWriteCoils, len(bits))
		a := addr + uint16(off)
		qty := uint16(end - off)

		if _, err := c.client.WriteMultipleCoils(a, qty, packBits(bits[off:end])); err != nil {
			return fmt.Errorf("modbus: write coils unit=%d addr=%d qty=%d: %w", unitID, a, qty, err)
		}
	}
	return nil
}

func (c *Client) ReadCoils(unitID uint8, addr uint16, count int) ([]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setUnit(unitID)

	out := make([]bool, 0, count)
	for done := 0; done < count; {
		qty := min(count-done, MaxReadCoils)
		a := addr + uint16(done)

		b, err := c.client.ReadCoils(a, uint16(qty))
		if err != nil {
			return nil, fmt.Errorf("modbus: read coils unit=%d addr=%d qty=%d: %w", unitID, a, qty, err)
		}
		bits, err := unpackBits(b, qty)
		if err != nil {
			return nil, err
		}
		out = append(out, bits...)
		done += qty
	}
	return out, nil
}

// ------------------------------------------------------------
// FRAMES
// ------------------------------------------------------------

// WriteFrame delivers a byte-addressed frame to the default unit.
func (c *Client) WriteFrame(f frame.Frame) error {
	if f.Address()%2 != 0 {
		return ErrOddAddress
	}
	return c.WriteRegisters(c.unitID, f.RegisterAddress(), f.Data())
}

// ReadBits executes a coil read request against the default unit.
func (c *Client) ReadBits(req frame.BitReadRequest) ([]bool, error) {
	return c.ReadCoils(c.unitID, req.Address(), req.Count())
}

// Read executes a read request against the default unit and returns
// exactly ByteCount bytes.
func (c *Client) Read(req frame.ReadRequest) ([]byte, error) {
	if req.Address()%2 != 0 {
		return nil, ErrOddAddress
	}
	b, err := c.ReadRegisters(c.unitID, req.RegisterAddress(), req.Count())
	if err != nil {
		return nil, err
	}
	return b[:req.ByteCount()], nil
}

// ExceptionCode reports the Modbus exception code carried by err, if any.
func ExceptionCode(err error) (byte, bool) {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return me.ExceptionCode, true
	}
	return 0, false
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

func packBits(bits []bool) []byte {
	n := (len(bits) + 7) / 8
	out := make([]byte, n)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func unpackBits(b []byte, qty int) ([]bool, error) {
	if len(b)*8 < qty {
		return nil, fmt.Errorf("modbus: coil response has %d bytes for %d coils", len(b), qty)
	}
	out := make([]bool, qty)
	for i := range out {
		out[i] = b[i/8]&(1<<uint(i%8)) != 0
	}
	return out, nil
}
