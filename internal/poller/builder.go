// internal/poller/builder.go
package poller

import (
	"io"

	cfg "github.com/tamzrod/modbus-mapper/internal/config"
	"github.com/tamzrod/modbus-mapper/internal/codec"
	tmodbus "github.com/tamzrod/modbus-mapper/internal/transport/modbus"
)

// Build constructs a Poller and wires Modbus client lifecycle.
// Connection is reused while healthy.
// On transport death, Poller discards the client and uses factory on a future tick.
// No retries, no loops, no semantics.
func Build(c *cfg.Config, cd *codec.Codec) (*Poller, func() error, error) {
	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		cli, err := tmodbus.Dial(tmodbus.Config{
			Endpoint: c.Device.Endpoint,
			UnitID:   c.Device.UnitID,
			Timeout:  c.Device.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		return cli, nil
	}

	return build(c, cd, factory)
}

func build(c *cfg.Config, cd *codec.Codec, factory Factory) (*Poller, func() error, error) {
	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			Name:     c.Schema.Name,
			Interval: c.Poll.Interval(),
		},
		cd,
		client,
		factory,
	)
	if err != nil {
		if cl, ok := client.(io.Closer); ok {
			_ = cl.Close()
		}
		return nil, nil, err
	}

	return p, p.Close, nil
}
