// internal/batch/builder.go
package batch

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/modbus-mapper/internal/codec"
	"github.com/tamzrod/modbus-mapper/internal/frame"
	"github.com/tamzrod/modbus-mapper/internal/schema"
)

type entry struct {
	address uint16
	data    []byte
	seq     int
}

func (e entry) end() int { return int(e.address) + len(e.data) }

// Builder accumulates pending register writes and emits them as frames.
// Addresses are not checked against the schema span.
// A Builder is not safe for concurrent use.
type Builder struct {
	codec   *codec.Codec
	entries []entry
	seq     int
}

func NewBuilder(c *codec.Codec) *Builder {
	return &Builder{codec: c}
}

// Write encodes v for the referenced field and queues it at the field address.
// On error nothing is queued.
func (b *Builder) Write(ref schema.Ref, v codec.Value) error {
	addr, err := b.codec.Schema().Address(ref)
	if err != nil {
		return err
	}
	data, err := b.codec.EncodeField(ref, v)
	if err != nil {
		return err
	}
	b.push(addr, data)
	return nil
}

// WriteAt encodes v with the codec's rules and queues it at address.
func (b *Builder) WriteAt(address uint16, v codec.Value) error {
	data, err := b.codec.EncodeValue(v)
	if err != nil {
		return err
	}
	b.push(address, data)
	return nil
}

// WriteRaw queues pre-encoded bytes. Empty payloads are ignored.
func (b *Builder) WriteRaw(address uint16, data []byte) {
	if len(data) == 0 {
		return
	}
	b.push(address, append([]byte(nil), data...))
}

// Set is the typed form of Write.
func Set[V any](b *Builder, f codec.Field[V], v V) error {
	return b.Write(f, f.Value(v))
}

func (b *Builder) push(address uint16, data []byte) {
	b.entries = append(b.entries, entry{address: address, data: data, seq: b.seq})
	b.seq++
}

// Count is the number of pending writes.
func (b *Builder) Count() int { return len(b.entries) }

// Clear drops every pending write. The builder can be reused.
func (b *Builder) Clear() {
	b.entries = nil
	b.seq = 0
}

// Build emits one frame per pending write in insertion order.
// Writes to the same address stay separate frames.
func (b *Builder) Build() []frame.Frame {
	out := make([]frame.Frame, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, frame.New(e.address, e.data))
	}
	return out
}

// BuildOptimized sorts pending writes by address and merges byte-contiguous
// writes into single frames.
//
// Writes whose spans overlap are merged into the same frame and resolved
// byte by byte: the later write wins.
func (b *Builder) BuildOptimized() []frame.Frame {
	if len(b.entries) == 0 {
		return nil
	}

	sorted := make([]entry, len(b.entries))
	copy(sorted, b.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].address < sorted[j].address
	})

	var out []frame.Frame

	for i := 0; i < len(sorted); {
		start := int(sorted[i].address)
		end := sorted[i].end()

		j := i + 1
		for j < len(sorted) && int(sorted[j].address) <= end {
			if e := sorted[j].end(); e > end {
				end = e
			}
			j++
		}

		out = append(out, frame.New(uint16(start), overlay(sorted[i:j], start, end)))
		i = j
	}

	log.Debug().
		Int("writes", len(b.entries)).
		Int("frames", len(out)).
		Msg("batch optimized")

	return out
}

// overlay lays run entries into [start,end) in insertion order.
func overlay(run []entry, start, end int) []byte {
	if len(run) == 1 {
		return run[0].data
	}

	ordered := make([]entry, len(run))
	copy(ordered, run)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	buf := make([]byte, end-start)
	for _, e := range ordered {
		copy(buf[int(e.address)-start:], e.data)
	}
	return buf
}
