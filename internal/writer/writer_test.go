// internal/writer/writer_test.go
package writer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tamzrod/modbus-mapper/internal/frame"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	writes []writeCall
	failAt map[uint16]error // keyed by register / coil address
}

type writeCall struct {
	unitID uint8
	addr   uint16
	coils  bool
	data   []byte
	bits   []bool
}

func (f *fakeEndpointClient) WriteCoils(unitID uint8, addr uint16, bits []bool) error {
	if err := f.failAt[addr]; err != nil {
		return err
	}
	f.writes = append(f.writes, writeCall{
		unitID: unitID,
		addr:   addr,
		coils:  true,
		bits:   append([]bool(nil), bits...),
	})
	return nil
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, data []byte) error {
	if err := f.failAt[addr]; err != nil {
		return err
	}
	f.writes = append(f.writes, writeCall{
		unitID: unitID,
		addr:   addr,
		data:   append([]byte(nil), data...),
	})
	return nil
}

func (f *fakeEndpointClient) last() writeCall {
	return f.writes[len(f.writes)-1]
}

// ---- tests ----

func TestWriter_RegisterAddressMath(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := New(Plan{Endpoint: "ep1", UnitID: 5}, fake)

	frames := []frame.Frame{
		frame.New(100, []byte{0, 1, 0, 2}),
		frame.New(110, []byte{0, 3}),
	}
	coils := []frame.BitFrame{frame.NewBitFrame(7, true, false)}

	if err := w.Write(frames, coils); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.writes) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(fake.writes))
	}
	if fake.writes[0].addr != 50 || fake.writes[1].addr != 55 {
		t.Fatalf("expected register addrs 50,55, got %d,%d", fake.writes[0].addr, fake.writes[1].addr)
	}
	if !bytes.Equal(fake.writes[0].data, []byte{0, 1, 0, 2}) {
		t.Fatalf("payload mismatch: %v", fake.writes[0].data)
	}
	if c := fake.writes[2]; !c.coils || c.addr != 7 || len(c.bits) != 2 {
		t.Fatalf("unexpected coil write: %+v", c)
	}
	for _, c := range fake.writes {
		if c.unitID != 5 {
			t.Fatalf("expected unit 5, got %d", c.unitID)
		}
	}
}

func TestWriter_AttemptsAllAndJoinsErrors(t *testing.T) {
	fake := &fakeEndpointClient{
		failAt: map[uint16]error{50: errors.New("boom")},
	}
	w := New(Plan{Endpoint: "ep1", UnitID: 1}, fake)

	frames := []frame.Frame{
		frame.New(100, []byte{0, 1}),
		frame.New(101, []byte{0, 1}), // misaligned
		frame.New(200, []byte{0, 1}),
	}

	err := w.Write(frames, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if n := strings.Count(err.Error(), " | "); n != 1 {
		t.Fatalf("expected 2 joined errors, got %q", err)
	}
	if len(fake.writes) != 1 || fake.writes[0].addr != 100 {
		t.Fatalf("expected only the frame at 200 delivered, got %+v", fake.writes)
	}
}

func TestWriter_MissingClient(t *testing.T) {
	w := New(Plan{Endpoint: "ep1"}, nil)
	if err := w.Write([]frame.Frame{frame.New(0, []byte{0, 0})}, nil); err == nil {
		t.Fatalf("expected error for missing client")
	}
}
