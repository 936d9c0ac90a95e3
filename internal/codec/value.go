// internal/codec/value.go
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tamzrod/modbus-mapper/internal/schema"
)

// Value is one scalar field value tagged with its wire kind.
// Enum values travel as their base kind. The zero Value has no kind.
type Value struct {
	kind schema.Kind
	bits uint32
}

func Int16(v int16) Value     { return Value{kind: schema.Int16, bits: uint32(uint16(v))} }
func UInt16(v uint16) Value   { return Value{kind: schema.UInt16, bits: uint32(v)} }
func Int32(v int32) Value     { return Value{kind: schema.Int32, bits: uint32(v)} }
func UInt32(v uint32) Value   { return Value{kind: schema.UInt32, bits: v} }
func Float32(v float32) Value { return Value{kind: schema.Float32, bits: math.Float32bits(v)} }

func Bool(v bool) Value {
	if v {
		return Value{kind: schema.Bool, bits: 1}
	}
	return Value{kind: schema.Bool}
}

func (v Value) Kind() schema.Kind { return v.kind }

func (v Value) IsZero() bool { return v.kind == 0 }

func (v Value) Int16() int16     { return int16(uint16(v.bits)) }
func (v Value) UInt16() uint16   { return uint16(v.bits) }
func (v Value) Int32() int32     { return int32(v.bits) }
func (v Value) UInt32() uint32   { return v.bits }
func (v Value) Float32() float32 { return math.Float32frombits(v.bits) }
func (v Value) Bool() bool       { return v.bits == 1 }

// Bits is the raw payload; float values keep their exact bit pattern.
func (v Value) Bits() uint32 { return v.bits }

func (v Value) String() string {
	switch v.kind {
	case schema.Int16:
		return strconv.FormatInt(int64(v.Int16()), 10)
	case schema.UInt16:
		return strconv.FormatUint(uint64(v.UInt16()), 10)
	case schema.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case schema.UInt32:
		return strconv.FormatUint(uint64(v.UInt32()), 10)
	case schema.Float32:
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32)
	case schema.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return "<none>"
	}
}

// ParseValue parses text into a Value of the field's wire kind.
func ParseValue(fd schema.FieldDescriptor, text string) (Value, error) {
	s := strings.TrimSpace(text)
	kind := fd.WireKind()

	switch kind {
	case schema.Int16:
		n, err := strconv.ParseInt(s, 0, 16)
		if err != nil {
			return Value{}, fmt.Errorf("codec: field %q: %w", fd.Name, err)
		}
		return Int16(int16(n)), nil
	case schema.UInt16:
		n, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return Value{}, fmt.Errorf("codec: field %q: %w", fd.Name, err)
		}
		return UInt16(uint16(n)), nil
	case schema.Int32:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return Value{}, fmt.Errorf("codec: field %q: %w", fd.Name, err)
		}
		return Int32(int32(n)), nil
	case schema.UInt32:
		n, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return Value{}, fmt.Errorf("codec: field %q: %w", fd.Name, err)
		}
		return UInt32(uint32(n)), nil
	case schema.Float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Value{}, fmt.Errorf("codec: field %q: %w", fd.Name, err)
		}
		return Float32(float32(f)), nil
	case schema.Bool:
		switch strings.ToLower(s) {
		case "on", "yes":
			return Bool(true), nil
		case "off", "no":
			return Bool(false), nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fmt.Errorf("codec: field %q: %w", fd.Name, err)
		}
		return Bool(b), nil
	default:
		return Value{}, &schema.UnsupportedTypeError{Field: fd.Name, Type: kind.String()}
	}
}
