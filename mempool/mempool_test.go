package mempool

import (
	"context"
	"testing"

	"github.com/chainnode-go/chainnode/crypto"
	"github.com/chainnode-go/chainnode/ledger"
	"github.com/chainnode-go/chainnode/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFundedSender(t *testing.T, store *ledger.MemoryStore, balance float64) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)
	require.NoError(t, store.UpsertBalance(context.Background(), key.PublicKeyHex(), balance))
	return key
}

func signedTx(key *crypto.PrivateKey, receiver string, amount float64, nonce uint64) *model.Transaction {
	tx := model.New(key.PublicKeyHex(), receiver, amount, nonce)
	tx.Sign(key)
	return tx
}

func TestAddAdmitsValidTransaction(t *testing.T) {
	store := ledger.NewMemoryStore()
	key := newFundedSender(t, store, 100)
	mp := New(store)

	tx := signedTx(key, "receiver", 10, 0)
	require.NoError(t, mp.Add(context.Background(), tx))
	assert.True(t, mp.Has(tx.TxHash))
	assert.Equal(t, 1, mp.Len())
}

func TestAddRejectsDuplicateTxHash(t *testing.T) {
	store := ledger.NewMemoryStore()
	key := newFundedSender(t, store, 100)
	mp := New(store)

	tx := signedTx(key, "receiver", 10, 0)
	require.NoError(t, mp.Add(context.Background(), tx))
	assert.Error(t, mp.Add(context.Background(), tx))
}

func TestAddRejectsWrongNonce(t *testing.T) {
	store := ledger.NewMemoryStore()
	key := newFundedSender(t, store, 100)
	mp := New(store)

	tx := signedTx(key, "receiver", 10, 5)
	assert.Error(t, mp.Add(context.Background(), tx))
}

func TestAddSequencesNoncesAcrossPendingTransactions(t *testing.T) {
	store := ledger.NewMemoryStore()
	key := newFundedSender(t, store, 100)
	mp := New(store)

	require.NoError(t, mp.Add(context.Background(), signedTx(key, "r1", 10, 0)))
	require.NoError(t, mp.Add(context.Background(), signedTx(key, "r2", 10, 1)))
	assert.Equal(t, 2, mp.PendingCountForSender(key.PublicKeyHex()))

	// nonce 1 is already pending, so resubmitting it must fail
	assert.Error(t, mp.Add(context.Background(), signedTx(key, "r3", 10, 1)))
}

func TestAddRejectsInsufficientBalanceAcrossPending(t *testing.T) {
	store := ledger.NewMemoryStore()
	key := newFundedSender(t, store, 15)
	mp := New(store)

	require.NoError(t, mp.Add(context.Background(), signedTx(key, "r1", 10, 0)))
	assert.Error(t, mp.Add(context.Background(), signedTx(key, "r2", 10, 1)))
}

func TestAddRejectsUnknownSender(t *testing.T) {
	store := ledger.NewMemoryStore()
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)
	mp := New(store)

	assert.Error(t, mp.Add(context.Background(), signedTx(key, "r1", 10, 0)))
}

func TestAddRejectsCoinbase(t *testing.T) {
	store := ledger.NewMemoryStore()
	mp := New(store)
	assert.Error(t, mp.Add(context.Background(), model.Coinbase("miner")))
}

func TestRemoveDropsTransaction(t *testing.T) {
	store := ledger.NewMemoryStore()
	key := newFundedSender(t, store, 100)
	mp := New(store)

	tx := signedTx(key, "receiver", 10, 0)
	require.NoError(t, mp.Add(context.Background(), tx))

	mp.Remove(tx.TxHash)
	assert.False(t, mp.Has(tx.TxHash))
	assert.Equal(t, 0, mp.Len())
}
