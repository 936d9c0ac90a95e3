// internal/schema/schema.go
package schema

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/modbus-mapper/internal/bytesconv"
)

// Options are the per-schema conversion parameters.
type Options struct {
	BoolRepr   BoolRepr
	Endianness bytesconv.Endianness
}

// DefaultOptions is AsInt16 booleans with word-swapped big-endian.
func DefaultOptions() Options {
	return Options{BoolRepr: AsInt16, Endianness: bytesconv.Big}
}

// Decl declares one field: its name, byte address and value kind.
// EnumBase is required when Kind is Enum.
type Decl struct {
	Name     string
	Address  uint16
	Kind     Kind
	EnumBase Kind
	ReadOnly bool
}

// Decl lets a plain Decl be passed where a Declarer is expected.
func (d Decl) Decl() Decl { return d }

// Declarer is anything that can declare a field.
type Declarer interface {
	Decl() Decl
}

// Ref selects a field by name.
type Ref interface {
	Name() string
}

// FieldName is the untyped Ref.
type FieldName string

func (n FieldName) Name() string { return string(n) }

// FieldDescriptor is the derived, immutable layout of one field.
type FieldDescriptor struct {
	Name     string
	Kind     Kind
	EnumBase Kind
	Address  uint16
	Size     int
}

// WireKind is the scalar kind actually written: the base for enums.
func (f FieldDescriptor) WireKind() Kind {
	if f.Kind == Enum {
		return f.EnumBase
	}
	return f.Kind
}

// RegisterAddress is the field address in 2-byte register units.
func (f FieldDescriptor) RegisterAddress() uint16 { return f.Address / 2 }

func (f FieldDescriptor) IsBool() bool { return f.Kind == Bool }

// Schema is the address map of one record type.
// It is immutable after New and safe for concurrent readers.
type Schema struct {
	record    string
	opts      Options
	start     int
	total     int
	fields    map[string]FieldDescriptor
	byAddress []FieldDescriptor
}

// New derives a schema from field declarations.
// Declaration order is irrelevant.
func New(record string, opts Options, decls ...Declarer) (*Schema, error) {
	if _, err := opts.BoolRepr.Size(); err != nil {
		return nil, err
	}

	if len(decls) == 0 {
		return nil, &SchemaError{Record: record, Reason: "no address-annotated fields"}
	}

	fields := make(map[string]FieldDescriptor, len(decls))
	minAddr := int(^uint(0) >> 1)
	maxEnd := 0

	for _, d := range decls {
		decl := d.Decl()

		if decl.Name == "" {
			return nil, &SchemaError{Record: record, Reason: "field with empty name"}
		}
		if _, dup := fields[decl.Name]; dup {
			return nil, &SchemaError{Record: record, Field: decl.Name, Reason: "declared twice"}
		}
		if decl.ReadOnly {
			return nil, &SchemaError{Record: record, Field: decl.Name, Reason: "read-only field cannot be decoded into"}
		}

		size, err := FieldSize(decl, opts.BoolRepr)
		if err != nil {
			return nil, err
		}

		fd := FieldDescriptor{
			Name:     decl.Name,
			Kind:     decl.Kind,
			EnumBase: decl.EnumBase,
			Address:  decl.Address,
			Size:     size,
		}
		if fd.Kind != Enum {
			fd.EnumBase = 0
		}
		fields[fd.Name] = fd

		addr := int(fd.Address)
		if addr < minAddr {
			minAddr = addr
		}
		if end := addr + size; end > maxEnd {
			maxEnd = end
		}
	}

	byAddress := make([]FieldDescriptor, 0, len(fields))
	for _, fd := range fields {
		byAddress = append(byAddress, fd)
	}
	sort.Slice(byAddress, func(i, j int) bool {
		if byAddress[i].Address != byAddress[j].Address {
			return byAddress[i].Address < byAddress[j].Address
		}
		return byAddress[i].Name < byAddress[j].Name
	})

	if err := checkOverlap(record, byAddress); err != nil {
		return nil, err
	}

	s := &Schema{
		record:    record,
		opts:      opts,
		start:     minAddr,
		total:     maxEnd - minAddr,
		fields:    fields,
		byAddress: byAddress,
	}

	log.Debug().
		Str("record", record).
		Int("fields", len(fields)).
		Int("start", s.start).
		Int("size", s.total).
		Stringer("endianness", opts.Endianness).
		Stringer("bool_repr", opts.BoolRepr).
		Msg("schema derived")

	return s, nil
}

// FieldSize is the byte width of a declared field under repr.
func FieldSize(d Decl, repr BoolRepr) (int, error) {
	switch d.Kind {
	case Bool:
		return repr.Size()
	case Enum:
		if !d.EnumBase.IsEnumBase() {
			return 0, &UnsupportedTypeError{Field: d.Name, Type: "enum of " + d.EnumBase.String()}
		}
		size, _ := scalarSize(d.EnumBase)
		return size, nil
	default:
		size, ok := scalarSize(d.Kind)
		if !ok {
			return 0, &UnsupportedTypeError{Field: d.Name, Type: d.Kind.String()}
		}
		return size, nil
	}
}

// checkOverlap rejects byte ranges shared by two fields.
// fields must be sorted by address.
func checkOverlap(record string, fields []FieldDescriptor) error {
	var prev FieldDescriptor
	prevEnd := -1

	for _, fd := range fields {
		start := int(fd.Address)
		if start < prevEnd {
			return &SchemaError{
				Record: record,
				Field:  fd.Name,
				Reason: fmt.Sprintf("range %d-%d overlaps field %q range %d-%d",
					start, start+fd.Size-1, prev.Name, prev.Address, prevEnd-1),
			}
		}
		if end := start + fd.Size; end > prevEnd {
			prev, prevEnd = fd, end
		}
	}
	return nil
}

func (s *Schema) Record() string { return s.record }

func (s *Schema) Options() Options { return s.opts }

func (s *Schema) Endianness() bytesconv.Endianness { return s.opts.Endianness }

func (s *Schema) BoolRepr() BoolRepr { return s.opts.BoolRepr }

// StartAddress is the lowest field byte address.
func (s *Schema) StartAddress() int { return s.start }

// TotalSize is the byte span from StartAddress to the end of the
// highest field, gaps included.
func (s *Schema) TotalSize() int { return s.total }

// RegisterCount is TotalSize in registers, rounded up.
func (s *Schema) RegisterCount() int { return (s.total + 1) / 2 }

func (s *Schema) Len() int { return len(s.fields) }

// Field looks up a descriptor by name.
func (s *Schema) Field(ref Ref) (FieldDescriptor, error) {
	name := ref.Name()
	fd, ok := s.fields[name]
	if !ok {
		return FieldDescriptor{}, &FieldNotFoundError{Name: name}
	}
	return fd, nil
}

// Address is shorthand for Field(ref).Address.
func (s *Schema) Address(ref Ref) (uint16, error) {
	fd, err := s.Field(ref)
	if err != nil {
		return 0, err
	}
	return fd.Address, nil
}

// Fields returns all descriptors in address order. The slice is a copy.
func (s *Schema) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.byAddress))
	copy(out, s.byAddress)
	return out
}

// BooleanFields maps each bool field name to its byte address.
func (s *Schema) BooleanFields() map[string]uint16 {
	out := make(map[string]uint16)
	for _, fd := range s.byAddress {
		if fd.IsBool() {
			out[fd.Name] = fd.Address
		}
	}
	return out
}
