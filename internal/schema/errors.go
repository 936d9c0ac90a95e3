// internal/schema/errors.go
package schema

import "fmt"

// SchemaError reports a record declaration that cannot form a schema.
type SchemaError struct {
	Record string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %q: %s", e.Record, e.Reason)
	}
	return fmt.Sprintf("schema %q: field %q: %s", e.Record, e.Field, e.Reason)
}

// FieldNotFoundError is returned when a name was never declared.
type FieldNotFoundError struct {
	Name string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("schema: field %q not found", e.Name)
}

// UnsupportedTypeError reports a field type with no byte conversion.
type UnsupportedTypeError struct {
	Field string
	Type  string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: unsupported type %q", e.Type)
	}
	return fmt.Sprintf("schema: field %q: unsupported type %q", e.Field, e.Type)
}

// UnsupportedBooleanRepresentationError means a BoolRepr outside
// Native/AsInt16/AsInt32 reached a conversion.
type UnsupportedBooleanRepresentationError struct {
	Repr BoolRepr
}

func (e *UnsupportedBooleanRepresentationError) Error() string {
	return fmt.Sprintf("schema: unsupported boolean representation %d", uint8(e.Repr))
}
