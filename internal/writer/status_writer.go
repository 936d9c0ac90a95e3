// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-mapper/internal/batch"
	"github.com/tamzrod/modbus-mapper/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and writes it verbatim.
// No logic, no state, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter is the concrete implementation used by the mapper.
type deviceStatusWriter struct {
	plan  *StatusPlan
	cli   EndpointClient
	block *status.Block
	batch *batch.Builder

	needFull bool
	last     status.Snapshot
}

// NewDeviceStatusWriter builds a status writer if status is enabled.
// If plan.Status is nil, status is disabled.
func NewDeviceStatusWriter(plan Plan, cli EndpointClient) (*deviceStatusWriter, bool, error) {
	if plan.Status == nil {
		return nil, false, nil
	}

	sp := plan.Status
	block, err := status.NewBlock(sp.Address)
	if err != nil {
		return nil, false, err
	}

	return &deviceStatusWriter{
		plan:     sp,
		cli:      cli,
		block:    block,
		batch:    batch.NewBuilder(block.Mapper().Codec()),
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
	}, true, nil
}

// WriteStatus delivers a device status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		data, err := sw.block.Encode(s, sw.plan.DeviceName)
		if err != nil {
			return fmt.Errorf("status writer: encode: %w", err)
		}

		if err := sw.cli.WriteRegisters(unitID, sw.block.Address()/2, data); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Changed fields only, merged where adjacent
	// ------------------------------------------------------------
	sw.batch.Clear()

	if sw.last.Health != s.Health {
		if err := batch.Set(sw.batch, sw.block.Health, s.Health); err != nil {
			return fmt.Errorf("status writer: health: %w", err)
		}
	}
	if sw.last.LastErrorCode != s.LastErrorCode {
		if err := batch.Set(sw.batch, sw.block.LastErrorCode, s.LastErrorCode); err != nil {
			return fmt.Errorf("status writer: last error code: %w", err)
		}
	}
	if sw.last.SecondsInError != s.SecondsInError {
		if err := batch.Set(sw.batch, sw.block.SecondsInError, s.SecondsInError); err != nil {
			return fmt.Errorf("status writer: seconds in error: %w", err)
		}
	}

	var errs []string
	for _, f := range sw.batch.BuildOptimized() {
		if err := writeFrame(sw.cli, unitID, f); err != nil {
			errs = append(errs, fmt.Sprintf("addr=%d len=%d write failed: %v", f.Address(), f.Len(), err))
		}
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	sw.last = s
	return nil
}
