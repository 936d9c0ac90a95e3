// internal/codec/codec.go
package codec

import (
	"github.com/tamzrod/modbus-mapper/internal/bytesconv"
	"github.com/tamzrod/modbus-mapper/internal/schema"
)

// converter moves one wire kind to and from bytes under fixed options.
type converter struct {
	size int
	put  func(dst []byte, v Value)
	get  func(src []byte) Value
}

// wireKinds are the kinds a Value can carry.
var wireKinds = []schema.Kind{
	schema.Int16, schema.UInt16, schema.Int32, schema.UInt32, schema.Float32, schema.Bool,
}

func resolveConverter(kind schema.Kind, opts schema.Options) (converter, error) {
	e := opts.Endianness

	switch kind {
	case schema.Int16:
		return converter{
			size: 2,
			put:  func(dst []byte, v Value) { bytesconv.PutInt16(dst, v.Int16(), e) },
			get:  func(src []byte) Value { return Int16(bytesconv.Int16(src, e)) },
		}, nil
	case schema.UInt16:
		return converter{
			size: 2,
			put:  func(dst []byte, v Value) { bytesconv.PutUint16(dst, v.UInt16(), e) },
			get:  func(src []byte) Value { return UInt16(bytesconv.Uint16(src, e)) },
		}, nil
	case schema.Int32:
		return converter{
			size: 4,
			put:  func(dst []byte, v Value) { bytesconv.PutInt32(dst, v.Int32(), e) },
			get:  func(src []byte) Value { return Int32(bytesconv.Int32(src, e)) },
		}, nil
	case schema.UInt32:
		return converter{
			size: 4,
			put:  func(dst []byte, v Value) { bytesconv.PutUint32(dst, v.UInt32(), e) },
			get:  func(src []byte) Value { return UInt32(bytesconv.Uint32(src, e)) },
		}, nil
	case schema.Float32:
		// Raw bits, not float conversion: NaN payloads must survive.
		return converter{
			size: 4,
			put:  func(dst []byte, v Value) { bytesconv.PutUint32(dst, v.Bits(), e) },
			get:  func(src []byte) Value { return Value{kind: schema.Float32, bits: bytesconv.Uint32(src, e)} },
		}, nil
	case schema.Bool:
		return resolveBool(opts)
	default:
		return converter{}, &schema.UnsupportedTypeError{Type: kind.String()}
	}
}

// Booleans encode as 0/1 in the representation width.
// Decoding treats exactly 1 as true.
func resolveBool(opts schema.Options) (converter, error) {
	e := opts.Endianness

	switch opts.BoolRepr {
	case schema.Native:
		return converter{
			size: 1,
			put:  func(dst []byte, v Value) { dst[0] = byte(v.Bits()) },
			get:  func(src []byte) Value { return Bool(src[0] == 1) },
		}, nil
	case schema.AsInt16:
		return converter{
			size: 2,
			put:  func(dst []byte, v Value) { bytesconv.PutUint16(dst, uint16(v.Bits()), e) },
			get:  func(src []byte) Value { return Bool(bytesconv.Int16(src, e) == 1) },
		}, nil
	case schema.AsInt32:
		return converter{
			size: 4,
			put:  func(dst []byte, v Value) { bytesconv.PutUint32(dst, v.Bits(), e) },
			get:  func(src []byte) Value { return Bool(bytesconv.Int32(src, e) == 1) },
		}, nil
	default:
		return converter{}, &schema.UnsupportedBooleanRepresentationError{Repr: opts.BoolRepr}
	}
}

type fieldPlan struct {
	desc   schema.FieldDescriptor
	offset int
	conv   converter
}

// Codec encodes and decodes records for one Schema.
// Converters are resolved once in New; a Codec is safe for concurrent use.
type Codec struct {
	schema  *schema.Schema
	plans   []fieldPlan
	byName  map[string]int
	scalars map[schema.Kind]converter

	// coil view: one coil per boolean field address
	bitStart uint16
	bitCount int
}

func New(s *schema.Schema) (*Codec, error) {
	opts := s.Options()

	scalars := make(map[schema.Kind]converter, len(wireKinds))
	for _, k := range wireKinds {
		conv, err := resolveConverter(k, opts)
		if err != nil {
			return nil, err
		}
		scalars[k] = conv
	}

	fields := s.Fields()
	c := &Codec{
		schema:  s,
		plans:   make([]fieldPlan, 0, len(fields)),
		byName:  make(map[string]int, len(fields)),
		scalars: scalars,
	}

	for _, fd := range fields {
		conv, ok := scalars[fd.WireKind()]
		if !ok {
			return nil, &schema.UnsupportedTypeError{Field: fd.Name, Type: fd.Kind.String()}
		}
		if fd.IsBool() {
			c.addBit(fd.Address)
		}
		c.byName[fd.Name] = len(c.plans)
		c.plans = append(c.plans, fieldPlan{
			desc:   fd,
			offset: int(fd.Address) - s.StartAddress(),
			conv:   conv,
		})
	}

	return c, nil
}

func (c *Codec) Schema() *schema.Schema { return c.schema }

// Encode writes every schema field of rec into a TotalSize buffer.
// Gap bytes stay zero. On error no buffer is returned.
func (c *Codec) Encode(rec Record) ([]byte, error) {
	buf := make([]byte, c.schema.TotalSize())

	for _, p := range c.plans {
		v, ok := rec.Value(p.desc.Name)
		if !ok {
			return nil, &MissingValueError{Field: p.desc.Name}
		}
		if err := checkKind(p.desc, v); err != nil {
			return nil, err
		}
		p.conv.put(buf[p.offset:p.offset+p.conv.size], v)
	}

	return buf, nil
}

// Decode reads all fields from data, which must hold at least TotalSize bytes.
func (c *Codec) Decode(data []byte) (Values, error) {
	if need := c.schema.TotalSize(); len(data) < need {
		return Values{}, &BufferTooShortError{Need: need, Got: len(data)}
	}

	m := make(map[string]Value, len(c.plans))
	for _, p := range c.plans {
		m[p.desc.Name] = p.conv.get(data[p.offset : p.offset+p.conv.size])
	}
	return Values{m: m}, nil
}

// ValueSize is the encoded width of kind under this codec's options.
func (c *Codec) ValueSize(kind schema.Kind) (int, error) {
	conv, ok := c.scalars[kind]
	if !ok {
		return 0, &schema.UnsupportedTypeError{Type: kind.String()}
	}
	return conv.size, nil
}

// EncodeValue encodes a single value with the schema's conversion rules.
func (c *Codec) EncodeValue(v Value) ([]byte, error) {
	conv, ok := c.scalars[v.Kind()]
	if !ok {
		return nil, &schema.UnsupportedTypeError{Type: v.Kind().String()}
	}
	out := make([]byte, conv.size)
	conv.put(out, v)
	return out, nil
}

// DecodeValue decodes one value of kind from the front of data.
func (c *Codec) DecodeValue(kind schema.Kind, data []byte) (Value, error) {
	conv, ok := c.scalars[kind]
	if !ok {
		return Value{}, &schema.UnsupportedTypeError{Type: kind.String()}
	}
	if len(data) < conv.size {
		return Value{}, &BufferTooShortError{Need: conv.size, Got: len(data)}
	}
	return conv.get(data[:conv.size]), nil
}

// EncodeField encodes v for the named field, checking its kind.
func (c *Codec) EncodeField(ref schema.Ref, v Value) ([]byte, error) {
	p, err := c.plan(ref)
	if err != nil {
		return nil, err
	}
	if err := checkKind(p.desc, v); err != nil {
		return nil, err
	}
	out := make([]byte, p.conv.size)
	p.conv.put(out, v)
	return out, nil
}

// DecodeField decodes the named field from the front of data.
func (c *Codec) DecodeField(ref schema.Ref, data []byte) (Value, error) {
	p, err := c.plan(ref)
	if err != nil {
		return Value{}, err
	}
	if len(data) < p.conv.size {
		return Value{}, &BufferTooShortError{Need: p.conv.size, Got: len(data)}
	}
	return p.conv.get(data[:p.conv.size]), nil
}

// ExtractBooleans returns the bool fields of rec keyed by byte address.
// Fields rec has no value for are skipped.
func (c *Codec) ExtractBooleans(rec Record) map[uint16]bool {
	out := make(map[uint16]bool)
	for _, p := range c.plans {
		if !p.desc.IsBool() {
			continue
		}
		v, ok := rec.Value(p.desc.Name)
		if !ok || v.Kind() != schema.Bool {
			continue
		}
		out[p.desc.Address] = v.Bool()
	}
	return out
}

func (c *Codec) addBit(address uint16) {
	if c.bitCount == 0 {
		c.bitStart, c.bitCount = address, 1
		return
	}
	// fields arrive in address order
	c.bitCount = int(address) - int(c.bitStart) + 1
}

// ---- coil view ----

// BitSpan is the coil range holding every boolean field, each at its
// field address. count is 0 when the schema has no booleans.
func (c *Codec) BitSpan() (start uint16, count int) {
	return c.bitStart, c.bitCount
}

// DecodeBits reads the boolean fields from coils starting at the BitSpan
// start. Non-boolean fields are absent from the result.
func (c *Codec) DecodeBits(bits []bool) (Values, error) {
	if len(bits) < c.bitCount {
		return Values{}, &BufferTooShortError{Need: c.bitCount, Got: len(bits)}
	}

	m := make(map[string]Value)
	for _, p := range c.plans {
		if !p.desc.IsBool() {
			continue
		}
		m[p.desc.Name] = Bool(bits[int(p.desc.Address)-int(c.bitStart)])
	}
	return Values{m: m}, nil
}

func (c *Codec) plan(ref schema.Ref) (fieldPlan, error) {
	i, ok := c.byName[ref.Name()]
	if !ok {
		return fieldPlan{}, &schema.FieldNotFoundError{Name: ref.Name()}
	}
	return c.plans[i], nil
}

func checkKind(fd schema.FieldDescriptor, v Value) error {
	if want := fd.WireKind(); v.Kind() != want {
		return &KindMismatchError{Field: fd.Name, Want: want, Got: v.Kind()}
	}
	return nil
}

// ---- typed single-field helpers ----

// EncodeFieldOf encodes a typed field value.
func EncodeFieldOf[V any](c *Codec, f Field[V], v V) ([]byte, error) {
	return c.EncodeField(f, f.Value(v))
}

// DecodeFieldOf decodes a typed field value.
func DecodeFieldOf[V any](c *Codec, f Field[V], data []byte) (V, error) {
	v, err := c.DecodeField(f, data)
	if err != nil {
		var zero V
		return zero, err
	}
	return f.From(v), nil
}
