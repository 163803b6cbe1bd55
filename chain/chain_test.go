package chain

import (
	"context"
	"testing"

	"github.com/chainnode-go/chainnode/crypto"
	"github.com/chainnode-go/chainnode/ledger"
	"github.com/chainnode-go/chainnode/model"
	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T, difficulty int, seed ...ledger.SeedAccount) *Chain {
	t.Helper()
	store := ledger.NewMemoryStore(seed...)
	return New(store, difficulty, ulogger.New("test"))
}

func fundedKey(t *testing.T, c *Chain, balance float64) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)
	require.NoError(t, c.Ledger.UpsertBalance(context.Background(), key.PublicKeyHex(), balance))
	return key
}

func signedTx(key *crypto.PrivateKey, receiver string, amount float64, nonce uint64) *model.Transaction {
	tx := model.New(key.PublicKeyHex(), receiver, amount, nonce)
	tx.Sign(key)
	return tx
}

func TestNewChainStartsAtGenesis(t *testing.T) {
	c := newTestChain(t, 1)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, model.GenesisHash, c.Tip().Hash)
	assert.True(t, c.IsValid())
}

func TestMinePendingTransactionsAppliesAndClearsMempool(t *testing.T) {
	c := newTestChain(t, 1)
	sender := fundedKey(t, c, 100)
	receiver, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	tx1 := signedTx(sender, receiver.PublicKeyHex(), 10, 0)
	tx2 := signedTx(sender, receiver.PublicKeyHex(), 10, 1)
	tx3 := signedTx(sender, receiver.PublicKeyHex(), 10, 2)
	require.NoError(t, c.Mempool.Add(context.Background(), tx1))
	require.NoError(t, c.Mempool.Add(context.Background(), tx2))
	require.NoError(t, c.Mempool.Add(context.Background(), tx3))

	block, err := c.MinePendingTransactions(context.Background(), "miner-pubkey", 3, 0)
	require.NoError(t, err)
	require.NotNil(t, block)

	assert.Equal(t, 0, c.Mempool.Len())
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.IsValid())

	receiverBalance, ok, err := c.Ledger.GetBalance(context.Background(), receiver.PublicKeyHex())
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 30, receiverBalance, 1e-6)

	minerBalance, ok, err := c.Ledger.GetBalance(context.Background(), "miner-pubkey")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, model.CoinbaseAmount, minerBalance, 1e-6)
}

func TestAddTransactionAdmitsToMempoolUnderLock(t *testing.T) {
	c := newTestChain(t, 1)
	sender := fundedKey(t, c, 100)
	receiver, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	tx := signedTx(sender, receiver.PublicKeyHex(), 10, 0)
	require.NoError(t, c.AddTransaction(context.Background(), tx))
	assert.True(t, c.Mempool.Has(tx.TxHash))
}

func TestAddBlockRejectsWrongPreviousHash(t *testing.T) {
	c := newTestChain(t, 1)
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	block := model.New(1, "wrong-previous-hash", []*model.Transaction{model.Coinbase(key.PublicKeyHex())}, 1000)
	block.Mine(1)

	accepted, err := c.AddBlock(context.Background(), block)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, 1, c.Len())
}

func TestAddBlockRejectsInsufficientDifficulty(t *testing.T) {
	c := newTestChain(t, 4)
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	tip := c.Tip()
	block := model.New(1, tip.Hash, []*model.Transaction{model.Coinbase(key.PublicKeyHex())}, 1000)
	// Not mined: hash almost certainly fails a difficulty-4 target.

	accepted, err := c.AddBlock(context.Background(), block)
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestAddBlockRejectsDoubleSpend(t *testing.T) {
	c := newTestChain(t, 1)
	sender := fundedKey(t, c, 10)
	receiver, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	tip := c.Tip()
	txs := []*model.Transaction{
		model.Coinbase("miner-pubkey"),
		signedTx(sender, receiver.PublicKeyHex(), 9, 0),
		signedTx(sender, receiver.PublicKeyHex(), 9, 1),
	}
	block := model.New(1, tip.Hash, txs, 1000)
	block.Mine(1)

	accepted, err := c.AddBlock(context.Background(), block)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, 1, c.Len())
}

func TestIsValidDetectsTamperedChain(t *testing.T) {
	c := newTestChain(t, 1)
	sender := fundedKey(t, c, 100)
	receiver, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	tx := signedTx(sender, receiver.PublicKeyHex(), 10, 0)
	require.NoError(t, c.Mempool.Add(context.Background(), tx))

	block, err := c.MinePendingTransactions(context.Background(), "miner-pubkey", 1, 0)
	require.NoError(t, err)
	require.NotNil(t, block)
	require.True(t, c.IsValid())

	block.Transactions[0].Amount = 999999
	assert.False(t, c.IsValid())
}
