// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/tamzrod/modbus-mapper/internal/codec"
	"github.com/tamzrod/modbus-mapper/internal/config"
	"github.com/tamzrod/modbus-mapper/internal/frame"
	"github.com/tamzrod/modbus-mapper/internal/logging"
	"github.com/tamzrod/modbus-mapper/internal/schema"
)

func TestMain(m *testing.M) {
	logging.ConfigureTests()
	os.Exit(m.Run())
}

var (
	fSpeed  = codec.Int32Field("Speed", 100)
	fStatus = codec.Int16Field("Status", 104)
)

type fakeClient struct {
	data   []byte
	fail   error
	reqs   []frame.ReadRequest
	closed bool
}

func (f *fakeClient) Read(req frame.ReadRequest) ([]byte, error) {
	f.reqs = append(f.reqs, req)
	if f.fail != nil {
		return nil, f.fail
	}
	return f.data, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func newCodec(t *testing.T) *codec.Codec {
	t.Helper()
	s, err := schema.New("drive", schema.DefaultOptions(), fSpeed, fStatus)
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	c, err := codec.New(s)
	if err != nil {
		t.Fatalf("codec.New: %v", err)
	}
	return c
}

func TestPollOnce_Success(t *testing.T) {
	cli := &fakeClient{data: []byte{0x03, 0x04, 0x01, 0x02, 0xFF, 0xFF}}

	p, err := New(Config{Name: "drive", Interval: time.Second}, newCodec(t), cli, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}

	if len(cli.reqs) != 1 || cli.reqs[0].RegisterAddress() != 50 || cli.reqs[0].Count() != 3 {
		t.Fatalf("unexpected read request: %+v", cli.reqs)
	}

	speed, err := codec.Get(res.Values, fSpeed)
	if err != nil || speed != 0x01020304 {
		t.Fatalf("speed=%#x err=%v", speed, err)
	}
	st, err := codec.Get(res.Values, fStatus)
	if err != nil || st != -1 {
		t.Fatalf("status=%d err=%v", st, err)
	}
}

func TestPollOnce_ShortReadFails(t *testing.T) {
	cli := &fakeClient{data: []byte{0, 0, 0}}

	p, err := New(Config{Name: "drive", Interval: time.Second}, newCodec(t), cli, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	var bts *codec.BufferTooShortError
	if !errors.As(res.Err, &bts) {
		t.Fatalf("expected BufferTooShortError, got %v", res.Err)
	}
	if res.Raw != nil || res.Values.Len() != 0 {
		t.Fatalf("failed cycle must not expose data")
	}
}

func TestPollOnce_ReconnectsThroughFactory(t *testing.T) {
	dead := &fakeClient{fail: errors.New("connection reset")}
	fresh := &fakeClient{data: make([]byte, 6)}

	dials := 0
	factory := func() (Client, error) {
		dials++
		if dials == 1 {
			return nil, errors.New("refused")
		}
		return fresh, nil
	}

	p, err := New(Config{Name: "drive", Interval: time.Second}, newCodec(t), dead, factory)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	if res := p.PollOnce(); res.Err == nil {
		t.Fatalf("expected transport error")
	}
	if !dead.closed {
		t.Fatalf("dead client should be closed")
	}

	if res := p.PollOnce(); res.Err == nil {
		t.Fatalf("expected dial error")
	}

	if res := p.PollOnce(); res.Err != nil {
		t.Fatalf("expected recovery, got %v", res.Err)
	}
	if dials != 2 {
		t.Fatalf("expected 2 dials, got %d", dials)
	}
}

func TestNew_Rejects(t *testing.T) {
	c := newCodec(t)
	cli := &fakeClient{}

	if _, err := New(Config{Interval: time.Second}, c, cli, nil); err == nil {
		t.Fatalf("expected name error")
	}
	if _, err := New(Config{Name: "x"}, c, cli, nil); err == nil {
		t.Fatalf("expected interval error")
	}
	if _, err := New(Config{Name: "x", Interval: time.Second}, c, nil, nil); err == nil {
		t.Fatalf("expected client error")
	}
}

func TestRun_EmitsUntilCancelled(t *testing.T) {
	cli := &fakeClient{data: make([]byte, 6)}
	p, err := New(Config{Name: "drive", Interval: 5 * time.Millisecond}, newCodec(t), cli, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	select {
	case res := <-out:
		if res.Err != nil {
			t.Fatalf("unexpected err=%v", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no poll result")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestBuild_ClosesFirstClientWhenPollerRejected(t *testing.T) {
	first := &fakeClient{}
	factory := func() (Client, error) { return first, nil }

	// zero interval: New fails after the first dial succeeded
	c := &config.Config{Schema: config.SchemaConfig{Name: "drive"}}

	p, closeFn, err := build(c, newCodec(t), factory)
	if err == nil || p != nil || closeFn != nil {
		t.Fatalf("expected build error, got p=%v err=%v", p, err)
	}
	if !first.closed {
		t.Fatalf("first client must be closed when New fails")
	}
}

func TestBuild_OK(t *testing.T) {
	first := &fakeClient{data: make([]byte, 6)}
	factory := func() (Client, error) { return first, nil }

	c := &config.Config{
		Schema: config.SchemaConfig{Name: "drive"},
		Poll:   config.PollConfig{IntervalMs: 100},
	}

	p, closeFn, err := build(c, newCodec(t), factory)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res := p.PollOnce(); res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if err := closeFn(); err != nil || !first.closed {
		t.Fatalf("close: err=%v closed=%v", err, first.closed)
	}
}
