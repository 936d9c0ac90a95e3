// internal/schema/schema_test.go
package schema

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-mapper/internal/bytesconv"
	"github.com/tamzrod/modbus-mapper/internal/logging"
)

func TestMain(m *testing.M) {
	logging.ConfigureTests()
	os.Exit(m.Run())
}

func demoDecls() []Declarer {
	return []Declarer{
		Decl{Name: "Status", Address: 112, Kind: Int16},
		Decl{Name: "Speed", Address: 100, Kind: Int32},
		Decl{Name: "IsRunning", Address: 108, Kind: Bool},
		Decl{Name: "Temperature", Address: 104, Kind: Float32},
	}
}

func TestNew_AddressAndSize(t *testing.T) {
	s, err := New("demo", DefaultOptions(), demoDecls()...)
	require.NoError(t, err)

	assert.Equal(t, 100, s.StartAddress())
	assert.Equal(t, 14, s.TotalSize())
	assert.Equal(t, 7, s.RegisterCount())
	assert.Equal(t, 4, s.Len())

	fd, err := s.Field(FieldName("IsRunning"))
	require.NoError(t, err)
	assert.Equal(t, 2, fd.Size)
	assert.Equal(t, uint16(108), fd.Address)
	assert.Equal(t, uint16(54), fd.RegisterAddress())
	assert.True(t, fd.IsBool())
}

func TestNew_FieldsInAddressOrder(t *testing.T) {
	s, err := New("demo", DefaultOptions(), demoDecls()...)
	require.NoError(t, err)

	var names []string
	for _, fd := range s.Fields() {
		names = append(names, fd.Name)
	}
	assert.Equal(t, []string{"Speed", "Temperature", "IsRunning", "Status"}, names)
}

func TestNew_BooleanSizing(t *testing.T) {
	decls := []Declarer{
		Decl{Name: "Counter", Address: 100, Kind: Int32},
		Decl{Name: "Flag", Address: 104, Kind: Bool},
	}

	cases := []struct {
		repr BoolRepr
		want int
	}{
		{Native, 5},
		{AsInt16, 6},
		{AsInt32, 8},
	}
	for _, tc := range cases {
		s, err := New("flags", Options{BoolRepr: tc.repr, Endianness: bytesconv.Big}, decls...)
		require.NoError(t, err)
		assert.Equal(t, tc.want, s.TotalSize(), "repr=%s", tc.repr)
	}
}

func TestNew_GapIncludedInSpan(t *testing.T) {
	s, err := New("gappy", DefaultOptions(),
		Decl{Name: "A", Address: 100, Kind: UInt32},
		Decl{Name: "B", Address: 110, Kind: UInt16},
	)
	require.NoError(t, err)
	assert.Equal(t, 100, s.StartAddress())
	assert.Equal(t, 12, s.TotalSize())
}

func TestNew_EnumSizedByBase(t *testing.T) {
	s, err := New("enums", DefaultOptions(),
		Decl{Name: "Mode", Address: 0, Kind: Enum, EnumBase: UInt16},
		Decl{Name: "Wide", Address: 2, Kind: Enum, EnumBase: Int32},
	)
	require.NoError(t, err)

	mode, err := s.Field(FieldName("Mode"))
	require.NoError(t, err)
	assert.Equal(t, 2, mode.Size)
	assert.Equal(t, UInt16, mode.WireKind())

	wide, err := s.Field(FieldName("Wide"))
	require.NoError(t, err)
	assert.Equal(t, 4, wide.Size)
	assert.Equal(t, 6, s.TotalSize())
}

func TestNew_NoFields(t *testing.T) {
	_, err := New("empty", DefaultOptions())
	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %T", err)
}

func TestNew_RejectsDuplicateAndReadOnly(t *testing.T) {
	_, err := New("dup", DefaultOptions(),
		Decl{Name: "A", Address: 0, Kind: Int16},
		Decl{Name: "A", Address: 2, Kind: Int16},
	)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "A", se.Field)

	_, err = New("ro", DefaultOptions(), Decl{Name: "A", Address: 0, Kind: Int16, ReadOnly: true})
	require.True(t, errors.As(err, &se))
}

func TestNew_RejectsOverlappingFields(t *testing.T) {
	decls := []Declarer{
		Decl{Name: "Running", Address: 108, Kind: Bool},
		Decl{Name: "Status", Address: 112, Kind: Int16},
	}

	// Two-byte booleans end where Status starts.
	_, err := New("fits", Options{BoolRepr: AsInt16, Endianness: bytesconv.Big}, decls...)
	require.NoError(t, err)

	_, err = New("collides", Options{BoolRepr: AsInt32, Endianness: bytesconv.Big}, decls...)
	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "Status", se.Field)
	assert.Contains(t, se.Error(), `range 110-111 overlaps field "Running" range 108-111`)

	// A wide field swallowing a later, non-adjacent one.
	_, err = New("nested", DefaultOptions(),
		Decl{Name: "Wide", Address: 0, Kind: UInt32},
		Decl{Name: "A", Address: 0, Kind: Int16},
		Decl{Name: "B", Address: 2, Kind: Int16},
	)
	require.True(t, errors.As(err, &se))
}

func TestFieldSize(t *testing.T) {
	cases := []struct {
		decl Decl
		repr BoolRepr
		want int
	}{
		{Decl{Kind: Bool}, Native, 1},
		{Decl{Kind: Bool}, AsInt32, 4},
		{Decl{Kind: Int16}, AsInt32, 2},
		{Decl{Kind: Float32}, AsInt16, 4},
		{Decl{Kind: Enum, EnumBase: UInt32}, AsInt16, 4},
	}
	for _, tc := range cases {
		got, err := FieldSize(tc.decl, tc.repr)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s/%s", tc.decl.Kind, tc.repr)
	}

	_, err := FieldSize(Decl{Name: "E", Kind: Enum, EnumBase: Bool}, AsInt16)
	var ute *UnsupportedTypeError
	assert.True(t, errors.As(err, &ute))
}

func TestNew_UnsupportedTypes(t *testing.T) {
	var ute *UnsupportedTypeError

	_, err := New("bad", DefaultOptions(), Decl{Name: "X", Address: 0, Kind: Kind(99)})
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, "X", ute.Field)

	_, err = New("bad", DefaultOptions(), Decl{Name: "E", Address: 0, Kind: Enum, EnumBase: Float32})
	require.True(t, errors.As(err, &ute))
}

func TestNew_UnsupportedBoolRepr(t *testing.T) {
	_, err := New("bad", Options{BoolRepr: BoolRepr(3)}, Decl{Name: "F", Address: 0, Kind: Bool})
	var ube *UnsupportedBooleanRepresentationError
	require.True(t, errors.As(err, &ube))
	assert.Equal(t, BoolRepr(3), ube.Repr)
}

func TestLookup_FieldNotFound(t *testing.T) {
	s, err := New("demo", DefaultOptions(), demoDecls()...)
	require.NoError(t, err)

	_, err = s.Address(FieldName("Missing"))
	var nf *FieldNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Missing", nf.Name)

	addr, err := s.Address(FieldName("Temperature"))
	require.NoError(t, err)
	assert.Equal(t, uint16(104), addr)
}

func TestBooleanFields(t *testing.T) {
	s, err := New("demo", DefaultOptions(), demoDecls()...)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint16{"IsRunning": 108}, s.BooleanFields())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Float")
	require.NoError(t, err)
	assert.Equal(t, Float32, k)

	_, err = ParseKind("float64")
	var ute *UnsupportedTypeError
	assert.True(t, errors.As(err, &ute))
}

func TestRegistry_DerivesOncePerKey(t *testing.T) {
	var reg Registry
	calls := 0
	decls := func() []Declarer {
		calls++
		return demoDecls()
	}

	a, err := reg.Get("demo", DefaultOptions(), decls)
	require.NoError(t, err)
	b, err := reg.Get("demo", DefaultOptions(), decls)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)

	little := Options{BoolRepr: AsInt32, Endianness: bytesconv.Little}
	c, err := reg.Get("demo", little, decls)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, calls)
	fd, err := c.Field(FieldName("IsRunning"))
	require.NoError(t, err)
	assert.Equal(t, 4, fd.Size)
}
