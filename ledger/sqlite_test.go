package ledger

import (
	"context"
	"testing"

	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStoreSeedAndBalanceRoundTrip(t *testing.T) {
	store, err := NewSQLStore(ulogger.New("test"), "sqlitememory:///accounts", SeedAccount{
		PublicKeyHex: "seed-pk",
		BalanceCoins: 250,
	})
	require.NoError(t, err)
	defer store.Close()

	balance, ok, err := store.GetBalance(context.Background(), "seed-pk")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 250, balance, 1e-6)
}

func TestSQLStoreIncrementNonceCreatesAccount(t *testing.T) {
	store, err := NewSQLStore(ulogger.New("test"), "sqlitememory:///accounts")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.IncrementNonce(ctx, "pk"))

	nonce, ok, err := store.GetNonce(ctx, "pk")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(1), nonce)
}

func TestSQLStoreSetBalanceMicroOverwrites(t *testing.T) {
	store, err := NewSQLStore(ulogger.New("test"), "sqlitememory:///accounts")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SetBalanceMicro(ctx, "pk", 1_000_000))
	require.NoError(t, store.SetBalanceMicro(ctx, "pk", 2_000_000))

	micro, ok, err := store.GetBalanceMicro(ctx, "pk")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2_000_000), micro)
}
