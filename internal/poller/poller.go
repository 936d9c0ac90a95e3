// internal/poller/poller.go
package poller

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/modbus-mapper/internal/codec"
	"github.com/tamzrod/modbus-mapper/internal/frame"
	"github.com/tamzrod/modbus-mapper/internal/observability"
)

// Client abstracts the one read the poller needs.
type Client interface {
	Read(req frame.ReadRequest) ([]byte, error)
}

// Factory dials a fresh client. ONE attempt per call.
type Factory func() (Client, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Name     string
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader of one record.
type Poller struct {
	cfg     Config
	codec   *codec.Codec
	request frame.ReadRequest

	mu      sync.Mutex
	client  Client
	factory Factory
}

// New creates a poller with immutable config.
// client may be nil when factory is set; the first cycle dials.
func New(cfg Config, c *codec.Codec, client Client, factory Factory) (*Poller, error) {
	if cfg.Name == "" {
		return nil, errors.New("poller: name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if c == nil {
		return nil, errors.New("poller: codec required")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	return &Poller{
		cfg:     cfg,
		codec:   c,
		request: frame.NewBuilder(c).ReadRecord(),
		client:  client,
		factory: factory,
	}, nil
}

// Request is the whole-record read issued every cycle.
func (p *Poller) Request() frame.ReadRequest { return p.request }

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	start := time.Now()
	res := PollResult{
		Name: p.cfg.Name,
		At:   start,
	}
	defer func() { observability.RecordPoll(p.cfg.Name, time.Since(start), res.Err) }()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		if p.factory == nil {
			res.Err = errors.New("poller: no client")
			return res
		}
		c, err := p.factory()
		if err != nil {
			res.Err = err
			return res
		}
		p.client = c
		log.Info().Str("record", p.cfg.Name).Msg("poller connected")
	}

	raw, err := p.client.Read(p.request)
	if err != nil {
		// Transport death: discard the client, factory redials on a later tick.
		if p.factory != nil {
			p.dropClient()
		}
		res.Err = err
		return res
	}

	vals, err := p.codec.Decode(raw)
	if err != nil {
		res.Err = err
		return res
	}

	// Commit only if read and decode both succeeded
	res.Raw = raw
	res.Values = vals
	return res
}

// Close releases the current client, if any.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropClient()
}

func (p *Poller) dropClient() error {
	c := p.client
	p.client = nil
	if cl, ok := c.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
