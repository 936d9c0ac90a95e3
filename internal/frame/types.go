// internal/frame/types.go
package frame

// Frame is one contiguous wire write: a byte address and its payload.
// Frames are immutable; Data returns a copy.
type Frame struct {
	address uint16
	data    []byte
}

// New copies data into a Frame at the given byte address.
func New(address uint16, data []byte) Frame {
	return Frame{address: address, data: append([]byte(nil), data...)}
}

func (f Frame) Address() uint16 { return f.address }

func (f Frame) Data() []byte { return append([]byte(nil), f.data...) }

func (f Frame) Len() int { return len(f.data) }

// RegisterAddress is Address in 2-byte register units.
func (f Frame) RegisterAddress() uint16 { return f.address / 2 }

// RegisterCount is the payload length in registers, rounded up.
func (f Frame) RegisterCount() int { return (len(f.data) + 1) / 2 }

// ReadRequest is one wire read.
// Count is in registers; ByteCount is the underlying byte span.
type ReadRequest struct {
	address   uint16
	count     int
	byteCount int
}

// NewReadRequest sizes a register read covering byteCount bytes.
func NewReadRequest(address uint16, byteCount int) ReadRequest {
	return ReadRequest{
		address:   address,
		count:     (byteCount + 1) / 2,
		byteCount: byteCount,
	}
}

func (r ReadRequest) Address() uint16 { return r.address }

func (r ReadRequest) Count() int { return r.count }

func (r ReadRequest) ByteCount() int { return r.byteCount }

func (r ReadRequest) RegisterAddress() uint16 { return r.address / 2 }

// BitFrame is one contiguous coil write.
type BitFrame struct {
	address uint16
	bits    []bool
}

func NewBitFrame(address uint16, bits ...bool) BitFrame {
	return BitFrame{address: address, bits: append([]bool(nil), bits...)}
}

func (f BitFrame) Address() uint16 { return f.address }

func (f BitFrame) Bits() []bool { return append([]bool(nil), f.bits...) }

func (f BitFrame) Len() int { return len(f.bits) }

// BitReadRequest is one coil read: Count coils from Address.
type BitReadRequest struct {
	address uint16
	count   int
}

func NewBitReadRequest(address uint16, count int) BitReadRequest {
	return BitReadRequest{address: address, count: count}
}

func (r BitReadRequest) Address() uint16 { return r.address }

func (r BitReadRequest) Count() int { return r.count }
