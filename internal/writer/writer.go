// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-mapper/internal/frame"
	"github.com/tamzrod/modbus-mapper/internal/observability"
)

type frameWriter struct {
	plan Plan
	cli  EndpointClient
}

func New(plan Plan, cli EndpointClient) Writer {
	return &frameWriter{
		plan: plan,
		cli:  cli,
	}
}

// Write attempts every frame, in order, and reports all failures at once.
func (w *frameWriter) Write(frames []frame.Frame, coils []frame.BitFrame) error {
	if w.cli == nil {
		return fmt.Errorf("writer: missing client for endpoint %s", w.plan.Endpoint)
	}

	var errs []string
	unitID := w.plan.UnitID

	// ------------------------------------------------------------
	// REGISTER FRAMES
	// ------------------------------------------------------------

	for _, f := range frames {
		err := writeFrame(w.cli, unitID, f)
		observability.RecordFrame("registers", err)
		if err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d addr=%d len=%d err=%v",
				w.plan.Endpoint, unitID, f.Address(), f.Len(), err,
			))
		}
	}

	// ------------------------------------------------------------
	// COIL FRAMES
	// ------------------------------------------------------------

	for _, f := range coils {
		err := w.cli.WriteCoils(unitID, f.Address(), f.Bits())
		observability.RecordFrame("coils", err)
		if err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d coil=%d qty=%d err=%v",
				w.plan.Endpoint, unitID, f.Address(), f.Len(), err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}

// writeFrame converts a byte-addressed frame to a register write.
func writeFrame(cli EndpointClient, unitID uint8, f frame.Frame) error {
	if f.Address()%2 != 0 {
		return fmt.Errorf("byte address %d is not register aligned", f.Address())
	}
	if f.Len()%2 != 0 {
		return fmt.Errorf("payload of %d bytes is not whole registers", f.Len())
	}
	return cli.WriteRegisters(unitID, f.RegisterAddress(), f.Data())
}
