// internal/frame/builder.go
package frame

import (
	"fmt"
	"sort"

	"github.com/tamzrod/modbus-mapper/internal/codec"
	"github.com/tamzrod/modbus-mapper/internal/schema"
)

// Builder turns records and values into frames and read requests.
// It performs no I/O.
type Builder struct {
	codec *codec.Codec
}

func NewBuilder(c *codec.Codec) *Builder {
	return &Builder{codec: c}
}

func (b *Builder) Codec() *codec.Codec { return b.codec }

// ------------------------------------------------------------
// WRITE FRAMES
// ------------------------------------------------------------

// WriteRecord frames the whole encoded record at the schema start address.
func (b *Builder) WriteRecord(rec codec.Record) (Frame, error) {
	data, err := b.codec.Encode(rec)
	if err != nil {
		return Frame{}, err
	}
	return Frame{address: uint16(b.codec.Schema().StartAddress()), data: data}, nil
}

// WriteField frames one field value at the field's address.
func (b *Builder) WriteField(ref schema.Ref, v codec.Value) (Frame, error) {
	fd, err := b.codec.Schema().Field(ref)
	if err != nil {
		return Frame{}, err
	}
	data, err := b.codec.EncodeField(ref, v)
	if err != nil {
		return Frame{}, err
	}
	return Frame{address: fd.Address, data: data}, nil
}

// WriteAt frames v at an arbitrary byte address.
func (b *Builder) WriteAt(address uint16, v codec.Value) (Frame, error) {
	data, err := b.codec.EncodeValue(v)
	if err != nil {
		return Frame{}, err
	}
	return Frame{address: address, data: data}, nil
}

// ------------------------------------------------------------
// READ REQUESTS
// ------------------------------------------------------------

// ReadRecord covers the whole schema span.
func (b *Builder) ReadRecord() ReadRequest {
	s := b.codec.Schema()
	return NewReadRequest(uint16(s.StartAddress()), s.TotalSize())
}

func (b *Builder) ReadField(ref schema.Ref) (ReadRequest, error) {
	fd, err := b.codec.Schema().Field(ref)
	if err != nil {
		return ReadRequest{}, err
	}
	return NewReadRequest(fd.Address, fd.Size), nil
}

// ReadAt sizes a read of one kind at an arbitrary byte address.
func (b *Builder) ReadAt(address uint16, kind schema.Kind) (ReadRequest, error) {
	size, err := b.codec.ValueSize(kind)
	if err != nil {
		return ReadRequest{}, err
	}
	return NewReadRequest(address, size), nil
}

// ------------------------------------------------------------
// COILS
// ------------------------------------------------------------

// CoilFrames emits one single-bit frame per boolean field of rec,
// in ascending address order.
func (b *Builder) CoilFrames(rec codec.Record) []BitFrame {
	bools := b.codec.ExtractBooleans(rec)

	addrs := make([]int, 0, len(bools))
	for a := range bools {
		addrs = append(addrs, int(a))
	}
	sort.Ints(addrs)

	out := make([]BitFrame, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, NewBitFrame(uint16(a), bools[uint16(a)]))
	}
	return out
}

// ReadBitRecord covers every boolean field of the record as coils.
func (b *Builder) ReadBitRecord() (BitReadRequest, error) {
	start, count := b.codec.BitSpan()
	if count == 0 {
		return BitReadRequest{}, fmt.Errorf("frame: record %q has no boolean fields", b.codec.Schema().Record())
	}
	return NewBitReadRequest(start, count), nil
}

// ReadBitField reads the single coil of a boolean field.
func (b *Builder) ReadBitField(ref schema.Ref) (BitReadRequest, error) {
	fd, err := b.codec.Schema().Field(ref)
	if err != nil {
		return BitReadRequest{}, err
	}
	if !fd.IsBool() {
		return BitReadRequest{}, fmt.Errorf("frame: field %q is %s, not bool", fd.Name, fd.Kind)
	}
	return NewBitReadRequest(fd.Address, 1), nil
}
