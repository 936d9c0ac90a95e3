// internal/codec/errors.go
package codec

import (
	"fmt"

	"github.com/tamzrod/modbus-mapper/internal/schema"
)

// BufferTooShortError is returned by decode calls given fewer bytes (or
// coils, for DecodeBits) than needed.
type BufferTooShortError struct {
	Need int
	Got  int
}

func (e *BufferTooShortError) Error() string {
	return fmt.Sprintf("codec: buffer too short: need %d, got %d", e.Need, e.Got)
}

// MissingValueError means a record has no value for a schema field.
type MissingValueError struct {
	Field string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("codec: no value for field %q", e.Field)
}

// KindMismatchError means a value's kind differs from the field's wire kind.
type KindMismatchError struct {
	Field string
	Want  schema.Kind
	Got   schema.Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("codec: field %q: want %s value, got %s", e.Field, e.Want, e.Got)
}
