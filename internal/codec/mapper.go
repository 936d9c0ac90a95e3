// internal/codec/mapper.go
package codec

// Binding converts between a typed record and its field values.
// Assemble receives every decoded field at once and builds T in one step.
type Binding[T any] interface {
	Values(rec T) Values
	Assemble(vals Values) (T, error)
}

// BindingFuncs adapts two functions to a Binding.
type BindingFuncs[T any] struct {
	ToValues   func(rec T) Values
	FromValues func(vals Values) (T, error)
}

func (b BindingFuncs[T]) Values(rec T) Values { return b.ToValues(rec) }

func (b BindingFuncs[T]) Assemble(vals Values) (T, error) { return b.FromValues(vals) }

// Mapper is a Codec specialised to one Go record type.
type Mapper[T any] struct {
	codec   *Codec
	binding Binding[T]
}

func NewMapper[T any](c *Codec, b Binding[T]) *Mapper[T] {
	return &Mapper[T]{codec: c, binding: b}
}

func (m *Mapper[T]) Codec() *Codec { return m.codec }

func (m *Mapper[T]) Encode(rec T) ([]byte, error) {
	return m.codec.Encode(m.binding.Values(rec))
}

func (m *Mapper[T]) Decode(data []byte) (T, error) {
	vals, err := m.codec.Decode(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.binding.Assemble(vals)
}

func (m *Mapper[T]) ExtractBooleans(rec T) map[uint16]bool {
	return m.codec.ExtractBooleans(m.binding.Values(rec))
}
