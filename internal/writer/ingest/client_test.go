// internal/writer/ingest/client_test.go
package ingest

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveOnce accepts one connection, captures header+payload and replies with status.
func serveOnce(t *testing.T, payloadLen int, status byte) (string, <-chan []byte) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(got)
			return
		}
		defer conn.Close()

		buf := make([]byte, 10+payloadLen)
		if _, err := io.ReadFull(conn, buf); err != nil {
			close(got)
			return
		}
		_, _ = conn.Write([]byte{status})
		got <- buf
	}()

	return ln.Addr().String(), got
}

func TestBuildPacketV1(t *testing.T) {
	pkt := buildPacketV1(areaHoldingRegisters, 7, 0x0102, 2, []byte{0xAA, 0xBB, 0xCC, 0xDD})

	assert.Equal(t, []byte{
		'R', 'I', 0x01, 0x03,
		0x00, 0x07,
		0x01, 0x02,
		0x00, 0x02,
		0xAA, 0xBB, 0xCC, 0xDD,
	}, pkt)
}

func TestWriteRegisters_SendsCodecBytes(t *testing.T) {
	addr, got := serveOnce(t, 4, respOK)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	require.NoError(t, err)

	require.NoError(t, c.WriteRegisters(1, 50, []byte{0x03, 0x04, 0x01, 0x02}))

	pkt := <-got
	require.Len(t, pkt, 14)
	assert.Equal(t, areaHoldingRegisters, pkt[3])
	assert.Equal(t, []byte{0x00, 0x32}, pkt[6:8])
	assert.Equal(t, []byte{0x00, 0x02}, pkt[8:10])
	assert.Equal(t, []byte{0x03, 0x04, 0x01, 0x02}, pkt[10:])
}

func TestWriteCoils_PacksBits(t *testing.T) {
	addr, got := serveOnce(t, 2, respOK)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	require.NoError(t, err)

	bits := []bool{true, false, false, false, false, false, false, false, true}
	require.NoError(t, c.WriteCoils(1, 8, bits))

	pkt := <-got
	assert.Equal(t, areaCoils, pkt[3])
	assert.Equal(t, []byte{0x00, 0x09}, pkt[8:10])
	assert.Equal(t, []byte{0x01, 0x01}, pkt[10:])
}

func TestWriteRegisters_Rejected(t *testing.T) {
	addr, _ := serveOnce(t, 2, respRejected)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	require.NoError(t, err)

	assert.EqualError(t, c.WriteRegisters(1, 0, []byte{0, 1}), "writer ingest: rejected")
}

func TestWriteRegisters_OddLength(t *testing.T) {
	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:1"})
	require.NoError(t, err)

	assert.Error(t, c.WriteRegisters(1, 0, []byte{1}))
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	_, err := NewEndpointClient(Config{})
	assert.Error(t, err)
}
