// internal/codec/values.go
package codec

import (
	"sort"

	"github.com/tamzrod/modbus-mapper/internal/schema"
)

// Record is any source of field values keyed by field name.
type Record interface {
	Value(name string) (Value, bool)
}

// Values is an immutable set of field values.
// Decode returns one fully assembled Values; there is no partial record.
type Values struct {
	m map[string]Value
}

func (v Values) Value(name string) (Value, bool) {
	val, ok := v.m[name]
	return val, ok
}

func (v Values) Len() int { return len(v.m) }

// Names returns the field names in lexical order.
func (v Values) Names() []string {
	out := make([]string, 0, len(v.m))
	for name := range v.m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ValuesBuilder collects values and freezes them with Build.
type ValuesBuilder struct {
	m map[string]Value
}

func NewValuesBuilder() *ValuesBuilder {
	return &ValuesBuilder{m: make(map[string]Value)}
}

// Set stores v under the ref's name, replacing any earlier value.
// The zero ValuesBuilder is ready to use.
func (b *ValuesBuilder) Set(ref schema.Ref, v Value) *ValuesBuilder {
	if b.m == nil {
		b.m = make(map[string]Value)
	}
	b.m[ref.Name()] = v
	return b
}

// Build returns a snapshot. The builder stays usable.
func (b *ValuesBuilder) Build() Values {
	m := make(map[string]Value, len(b.m))
	for k, v := range b.m {
		m[k] = v
	}
	return Values{m: m}
}

// Put is the typed form of Set.
func Put[V any](b *ValuesBuilder, f Field[V], v V) *ValuesBuilder {
	return b.Set(f, f.Value(v))
}

// Get reads a typed field from any Record.
func Get[V any](rec Record, f Field[V]) (V, error) {
	var zero V
	v, ok := rec.Value(f.Name())
	if !ok {
		return zero, &MissingValueError{Field: f.Name()}
	}
	want := f.decl.Kind
	if want == schema.Enum {
		want = f.decl.EnumBase
	}
	if v.Kind() != want {
		return zero, &KindMismatchError{Field: f.Name(), Want: want, Got: v.Kind()}
	}
	return f.From(v), nil
}
