// internal/config/schema.go
package config

import (
	"fmt"

	"github.com/tamzrod/modbus-mapper/internal/bytesconv"
	"github.com/tamzrod/modbus-mapper/internal/schema"
)

// SchemaOptions converts the schema section into schema.Options.
// Empty values fall back to schema.DefaultOptions.
func (s SchemaConfig) SchemaOptions() (schema.Options, error) {
	opts := schema.DefaultOptions()

	if s.Endianness != "" {
		e, err := bytesconv.ParseEndianness(s.Endianness)
		if err != nil {
			return schema.Options{}, err
		}
		opts.Endianness = e
	}
	if s.BoolRepr != "" {
		r, err := schema.ParseBoolRepr(s.BoolRepr)
		if err != nil {
			return schema.Options{}, err
		}
		opts.BoolRepr = r
	}
	return opts, nil
}

// Decl converts one field entry into a schema declaration.
func (f FieldConfig) Decl() (schema.Decl, error) {
	kind, err := schema.ParseKind(f.Type)
	if err != nil {
		return schema.Decl{}, fmt.Errorf("field %q: %w", f.Name, err)
	}

	d := schema.Decl{
		Name:     f.Name,
		Address:  f.Address,
		Kind:     kind,
		ReadOnly: f.ReadOnly,
	}

	if kind == schema.Enum {
		base := f.Base
		if base == "" {
			base = "uint16"
		}
		b, err := schema.ParseKind(base)
		if err != nil {
			return schema.Decl{}, fmt.Errorf("field %q: enum base: %w", f.Name, err)
		}
		d.EnumBase = b
	}

	return d, nil
}

// Decls returns declarations for every mapped field.
// Read-only fields are skipped; they are documentation only.
func (s SchemaConfig) Decls() ([]schema.Declarer, error) {
	out := make([]schema.Declarer, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.ReadOnly {
			continue
		}
		d, err := f.Decl()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Build derives the schema described by this section.
func (s SchemaConfig) Build() (*schema.Schema, error) {
	opts, err := s.SchemaOptions()
	if err != nil {
		return nil, err
	}
	decls, err := s.Decls()
	if err != nil {
		return nil, err
	}
	return schema.New(s.Name, opts, decls...)
}
