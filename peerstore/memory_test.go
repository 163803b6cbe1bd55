package peerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAddAndCount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Addr{IP: "10.0.0.1", Port: 9000}, 0))
	require.NoError(t, s.Add(ctx, Addr{IP: "10.0.0.1", Port: 9000}, 0)) // duplicate, no-op

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreRespectsMaxPeers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Addr{IP: "10.0.0.1", Port: 9000}, 1))
	require.NoError(t, s.Add(ctx, Addr{IP: "10.0.0.2", Port: 9000}, 1))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreGetPeersExcludesOfflineAndExcluded(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	online := Addr{IP: "10.0.0.1", Port: 9000}
	offline := Addr{IP: "10.0.0.2", Port: 9000}
	excluded := Addr{IP: "10.0.0.3", Port: 9000}

	require.NoError(t, s.Add(ctx, online, 0))
	require.NoError(t, s.Add(ctx, offline, 0))
	require.NoError(t, s.Add(ctx, excluded, 0))
	require.NoError(t, s.SetOffline(ctx, offline))

	peers, err := s.GetPeers(ctx, 10, excluded)
	require.NoError(t, err)
	assert.Equal(t, []Addr{online}, peers)
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	addr := Addr{IP: "10.0.0.1", Port: 9000}

	require.NoError(t, s.Add(ctx, addr, 0))
	require.NoError(t, s.Remove(ctx, addr))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
