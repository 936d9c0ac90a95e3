// internal/status/block.go
package status

import (
	"fmt"

	"github.com/tamzrod/modbus-mapper/internal/codec"
	"github.com/tamzrod/modbus-mapper/internal/schema"
)

// Block maps a Snapshot onto the status block at a fixed byte address.
// The block is always big-endian registers, independent of the device schema.
type Block struct {
	address uint16

	Health         codec.Field[Health]
	LastErrorCode  codec.Field[uint16]
	SecondsInError codec.Field[uint16]

	mapper *codec.Mapper[Snapshot]
}

// NewBlock lays out the status record at address.
func NewBlock(address uint16) (*Block, error) {
	if address%2 != 0 {
		return nil, fmt.Errorf("status: block address %d is not register aligned", address)
	}
	if int(address)+BlockSize > 0x10000 {
		return nil, fmt.Errorf("status: block at %d exceeds address space", address)
	}

	b := &Block{
		address:        address,
		Health:         codec.UInt16Enum[Health]("health_code", address+OffsetHealthCode),
		LastErrorCode:  codec.UInt16Field("last_error_code", address+OffsetLastErrorCode),
		SecondsInError: codec.UInt16Field("seconds_in_error", address+OffsetSecondsInError),
	}

	s, err := schema.Cached(
		fmt.Sprintf("status@%d", address),
		schema.DefaultOptions(),
		func() []schema.Declarer {
			return []schema.Declarer{b.Health, b.LastErrorCode, b.SecondsInError}
		},
	)
	if err != nil {
		return nil, err
	}
	c, err := codec.New(s)
	if err != nil {
		return nil, err
	}

	b.mapper = codec.NewMapper[Snapshot](c, codec.BindingFuncs[Snapshot]{
		ToValues:   b.values,
		FromValues: b.assemble,
	})
	return b, nil
}

func (b *Block) Address() uint16 { return b.address }

func (b *Block) Mapper() *codec.Mapper[Snapshot] { return b.mapper }

// Encode renders the whole block: live fields, zeroed reserved range and
// the device name.
func (b *Block) Encode(s Snapshot, deviceName string) ([]byte, error) {
	live, err := b.mapper.Encode(s)
	if err != nil {
		return nil, err
	}

	out := make([]byte, BlockSize)
	copy(out, live)
	copy(out[OffsetDeviceName:], EncodeDeviceName(deviceName))
	return out, nil
}

// Decode reads the live fields back from a block.
func (b *Block) Decode(data []byte) (Snapshot, error) {
	return b.mapper.Decode(data)
}

func (b *Block) values(s Snapshot) codec.Values {
	v := codec.NewValuesBuilder()
	codec.Put(v, b.Health, s.Health)
	codec.Put(v, b.LastErrorCode, s.LastErrorCode)
	codec.Put(v, b.SecondsInError, s.SecondsInError)
	return v.Build()
}

func (b *Block) assemble(v codec.Values) (Snapshot, error) {
	h, err := codec.Get(v, b.Health)
	if err != nil {
		return Snapshot{}, err
	}
	code, err := codec.Get(v, b.LastErrorCode)
	if err != nil {
		return Snapshot{}, err
	}
	secs, err := codec.Get(v, b.SecondsInError)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Health: h, LastErrorCode: code, SecondsInError: secs}, nil
}

// EncodeDeviceName packs up to 16 ASCII characters, two per register,
// zero padded. Non-printable bytes become '?'.
func EncodeDeviceName(name string) []byte {
	out := make([]byte, DeviceNameMaxChars)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	for i, c := range b {
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		out[i] = c
	}
	return out
}
