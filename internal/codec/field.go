// internal/codec/field.go
package codec

import "github.com/tamzrod/modbus-mapper/internal/schema"

// Field is a typed handle on one declared field. It is both the
// declaration fed to schema.New and the type-safe selector used for
// single-field encode/decode and batch writes.
type Field[V any] struct {
	decl schema.Decl
	wrap func(V) Value
	get  func(Value) V
}

func (f Field[V]) Name() string { return f.decl.Name }

func (f Field[V]) Address() uint16 { return f.decl.Address }

func (f Field[V]) Decl() schema.Decl { return f.decl }

// Value wraps v as the field's wire value.
func (f Field[V]) Value(v V) Value { return f.wrap(v) }

// From unwraps a Value produced for this field.
func (f Field[V]) From(v Value) V { return f.get(v) }

func newField[V any](name string, address uint16, kind schema.Kind, wrap func(V) Value, get func(Value) V) Field[V] {
	return Field[V]{
		decl: schema.Decl{Name: name, Address: address, Kind: kind},
		wrap: wrap,
		get:  get,
	}
}

func Int16Field(name string, address uint16) Field[int16] {
	return newField(name, address, schema.Int16, Int16, Value.Int16)
}

func UInt16Field(name string, address uint16) Field[uint16] {
	return newField(name, address, schema.UInt16, UInt16, Value.UInt16)
}

func Int32Field(name string, address uint16) Field[int32] {
	return newField(name, address, schema.Int32, Int32, Value.Int32)
}

func UInt32Field(name string, address uint16) Field[uint32] {
	return newField(name, address, schema.UInt32, UInt32, Value.UInt32)
}

func Float32Field(name string, address uint16) Field[float32] {
	return newField(name, address, schema.Float32, Float32, Value.Float32)
}

func BoolField(name string, address uint16) Field[bool] {
	return newField(name, address, schema.Bool, Bool, Value.Bool)
}

// ---- enums ----

func enumField[E any](name string, address uint16, base schema.Kind, wrap func(E) Value, get func(Value) E) Field[E] {
	f := newField(name, address, schema.Enum, wrap, get)
	f.decl.EnumBase = base
	return f
}

func Int16Enum[E ~int16](name string, address uint16) Field[E] {
	return enumField(name, address, schema.Int16,
		func(e E) Value { return Int16(int16(e)) },
		func(v Value) E { return E(v.Int16()) })
}

func UInt16Enum[E ~uint16](name string, address uint16) Field[E] {
	return enumField(name, address, schema.UInt16,
		func(e E) Value { return UInt16(uint16(e)) },
		func(v Value) E { return E(v.UInt16()) })
}

func Int32Enum[E ~int32](name string, address uint16) Field[E] {
	return enumField(name, address, schema.Int32,
		func(e E) Value { return Int32(int32(e)) },
		func(v Value) E { return E(v.Int32()) })
}

func UInt32Enum[E ~uint32](name string, address uint16) Field[E] {
	return enumField(name, address, schema.UInt32,
		func(e E) Value { return UInt32(uint32(e)) },
		func(v Value) E { return E(v.UInt32()) })
}
