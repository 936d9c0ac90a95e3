// internal/batch/coils.go
package batch

import (
	"sort"

	"github.com/tamzrod/modbus-mapper/internal/frame"
)

// Coils accumulates single-bit writes keyed by coil address.
// A later write to the same address replaces the earlier one.
type Coils struct {
	bits map[uint16]bool
}

func NewCoils() *Coils {
	return &Coils{bits: make(map[uint16]bool)}
}

func (c *Coils) Set(address uint16, v bool) *Coils {
	c.bits[address] = v
	return c
}

// Add queues every bit of the given frames, in order.
func (c *Coils) Add(frames ...frame.BitFrame) *Coils {
	for _, f := range frames {
		for i, v := range f.Bits() {
			c.Set(f.Address()+uint16(i), v)
		}
	}
	return c
}

func (c *Coils) Count() int { return len(c.bits) }

func (c *Coils) Clear() { c.bits = make(map[uint16]bool) }

// Build emits one single-bit frame per address, ascending.
func (c *Coils) Build() []frame.BitFrame {
	addrs := c.sortedAddresses()
	out := make([]frame.BitFrame, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, frame.NewBitFrame(a, c.bits[a]))
	}
	return out
}

// BuildOptimized merges consecutive coil addresses into one frame.
func (c *Coils) BuildOptimized() []frame.BitFrame {
	addrs := c.sortedAddresses()

	var out []frame.BitFrame
	for i := 0; i < len(addrs); {
		start := addrs[i]
		bits := []bool{c.bits[start]}

		j := i + 1
		for j < len(addrs) && int(addrs[j]) == int(start)+len(bits) {
			bits = append(bits, c.bits[addrs[j]])
			j++
		}

		out = append(out, frame.NewBitFrame(start, bits...))
		i = j
	}
	return out
}

func (c *Coils) sortedAddresses() []uint16 {
	addrs := make([]uint16, 0, len(c.bits))
	for a := range c.bits {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}
