// internal/bytesconv/bytesconv.go
package bytesconv

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Endianness selects the byte layout of multi-byte scalars.
type Endianness uint8

const (
	Little Endianness = iota
	Big
)

func (e Endianness) String() string {
	switch e {
	case Little:
		return "little"
	case Big:
		return "big"
	default:
		return fmt.Sprintf("endianness(%d)", uint8(e))
	}
}

// ParseEndianness accepts "little"/"le" and "big"/"be" (case-insensitive).
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little", "le":
		return Little, nil
	case "big", "be":
		return Big, nil
	default:
		return 0, fmt.Errorf("bytesconv: unknown endianness %q", s)
	}
}

// Conversions below never check lengths.
// Callers guarantee len(buf) >= width (2 or 4).

// ---- 16-bit ----

func PutUint16(dst []byte, v uint16, e Endianness) {
	if e == Big {
		binary.BigEndian.PutUint16(dst, v)
		return
	}
	binary.LittleEndian.PutUint16(dst, v)
}

func Uint16(src []byte, e Endianness) uint16 {
	if e == Big {
		return binary.BigEndian.Uint16(src)
	}
	return binary.LittleEndian.Uint16(src)
}

func PutInt16(dst []byte, v int16, e Endianness) { PutUint16(dst, uint16(v), e) }

func Int16(src []byte, e Endianness) int16 { return int16(Uint16(src, e)) }

// ---- 32-bit ----

// PutUint32 writes v in 4 bytes.
//
// Big is the field-bus word-swap layout, NOT plain big-endian:
//
//	bytes 0-1: low 16 bits, big-endian
//	bytes 2-3: high 16 bits, big-endian
//
// so 0x01020304 becomes 03 04 01 02. Little is plain little-endian.
func PutUint32(dst []byte, v uint32, e Endianness) {
	if e == Big {
		binary.BigEndian.PutUint16(dst[0:2], uint16(v))
		binary.BigEndian.PutUint16(dst[2:4], uint16(v>>16))
		return
	}
	binary.LittleEndian.PutUint32(dst, v)
}

// Uint32 reverses PutUint32 for the same endianness.
func Uint32(src []byte, e Endianness) uint32 {
	if e == Big {
		lo := binary.BigEndian.Uint16(src[0:2])
		hi := binary.BigEndian.Uint16(src[2:4])
		return uint32(hi)<<16 | uint32(lo)
	}
	return binary.LittleEndian.Uint32(src)
}

func PutInt32(dst []byte, v int32, e Endianness) { PutUint32(dst, uint32(v), e) }

func Int32(src []byte, e Endianness) int32 { return int32(Uint32(src, e)) }

// PutFloat32 writes the IEEE-754 bit pattern of v, so NaN payloads survive.
func PutFloat32(dst []byte, v float32, e Endianness) {
	PutUint32(dst, math.Float32bits(v), e)
}

func Float32(src []byte, e Endianness) float32 {
	return math.Float32frombits(Uint32(src, e))
}
