package transport

import (
	"bytes"
	"testing"

	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	msg := RequestPeers{Type: TypeRequestPeers, Address: NetAddr{"127.0.0.1", float64(9000)}}

	require.NoError(t, WriteFrame(&buf, msg))

	raw, err := ReadFrame(&buf)
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeRequestPeers, env.Type)
}

func TestReadFrameMultipleFramesOnOneStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, HealthCheck{Type: TypeHealthCheck}))
	require.NoError(t, WriteFrame(&buf, HealthCheckResponse{Type: TypeHealthCheckResponse, Status: "healthy"}))

	first, err := ReadFrame(&buf)
	require.NoError(t, err)
	env1, err := DecodeEnvelope(first)
	require.NoError(t, err)
	assert.Equal(t, TypeHealthCheck, env1.Type)

	second, err := ReadFrame(&buf)
	require.NoError(t, err)
	env2, err := DecodeEnvelope(second)
	require.NoError(t, err)
	assert.Equal(t, TypeHealthCheckResponse, env2.Type)
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	lengthBuf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	buf.Write(lengthBuf)

	_, err := ReadFrame(&buf)
	assert.Error(t, err)
}

func TestNetAddrRoundTrip(t *testing.T) {
	addr := AddrToNetAddr(peerstore.Addr{IP: "192.168.1.5", Port: 8000})
	got, ok := addr.ToAddr()
	require.True(t, ok)
	assert.Equal(t, "192.168.1.5", got.IP)
	assert.Equal(t, 8000, got.Port)
}
