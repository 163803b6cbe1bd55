package peerstore

import (
	"context"
	"testing"

	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStoreAddAndSetOffline(t *testing.T) {
	store, err := NewSQLStore(ulogger.New("test"), "sqlitememory:///peers")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	addr := Addr{IP: "10.0.0.1", Port: 9000}

	require.NoError(t, store.Add(ctx, addr, 0))
	require.NoError(t, store.SetOffline(ctx, addr))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsOffline)
}

func TestSQLStoreGetPeersExcludesOffline(t *testing.T) {
	store, err := NewSQLStore(ulogger.New("test"), "sqlitememory:///peers")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	online := Addr{IP: "10.0.0.1", Port: 9000}
	offline := Addr{IP: "10.0.0.2", Port: 9000}

	require.NoError(t, store.Add(ctx, online, 0))
	require.NoError(t, store.Add(ctx, offline, 0))
	require.NoError(t, store.SetOffline(ctx, offline))

	peers, err := store.GetPeers(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []Addr{online}, peers)
}

func TestSQLStoreRemove(t *testing.T) {
	store, err := NewSQLStore(ulogger.New("test"), "sqlitememory:///peers")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	addr := Addr{IP: "10.0.0.1", Port: 9000}

	require.NoError(t, store.Add(ctx, addr, 0))
	require.NoError(t, store.Remove(ctx, addr))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
