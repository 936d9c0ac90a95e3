// internal/schema/kind.go
package schema

import (
	"fmt"
	"strings"
)

// Kind is the value type of one mapped field.
type Kind uint8

const (
	Int16 Kind = iota + 1
	UInt16
	Int32
	UInt32
	Float32
	Bool
	Enum
)

var kindNames = map[Kind]string{
	Int16:   "int16",
	UInt16:  "uint16",
	Int32:   "int32",
	UInt32:  "uint32",
	Float32: "float32",
	Bool:    "bool",
	Enum:    "enum",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a config type name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int16", "i16", "short":
		return Int16, nil
	case "uint16", "u16", "ushort":
		return UInt16, nil
	case "int32", "i32", "int":
		return Int32, nil
	case "uint32", "u32", "uint":
		return UInt32, nil
	case "float32", "f32", "float":
		return Float32, nil
	case "bool", "boolean":
		return Bool, nil
	case "enum":
		return Enum, nil
	default:
		return 0, &UnsupportedTypeError{Type: s}
	}
}

// IsEnumBase reports whether k may back an Enum field.
func (k Kind) IsEnumBase() bool {
	switch k {
	case Int16, UInt16, Int32, UInt32:
		return true
	}
	return false
}

// BoolRepr is the on-wire representation of boolean fields.
// The numeric value is the byte width.
type BoolRepr uint8

const (
	Native  BoolRepr = 1
	AsInt16 BoolRepr = 2
	AsInt32 BoolRepr = 4
)

func (r BoolRepr) String() string {
	switch r {
	case Native:
		return "native"
	case AsInt16:
		return "int16"
	case AsInt32:
		return "int32"
	default:
		return fmt.Sprintf("boolrepr(%d)", uint8(r))
	}
}

// Size returns the byte width of a boolean field under r.
func (r BoolRepr) Size() (int, error) {
	switch r {
	case Native, AsInt16, AsInt32:
		return int(r), nil
	default:
		return 0, &UnsupportedBooleanRepresentationError{Repr: r}
	}
}

// ParseBoolRepr accepts "native"/"int16"/"int32" (case-insensitive).
func ParseBoolRepr(s string) (BoolRepr, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "bool", "byte":
		return Native, nil
	case "int16", "i16":
		return AsInt16, nil
	case "int32", "i32":
		return AsInt32, nil
	default:
		return 0, fmt.Errorf("schema: unknown boolean representation %q", s)
	}
}

// scalarSize is the natural width of the non-bool scalar kinds.
func scalarSize(k Kind) (int, bool) {
	switch k {
	case Int16, UInt16:
		return 2, true
	case Int32, UInt32, Float32:
		return 4, true
	}
	return 0, false
}
