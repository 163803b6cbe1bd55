package model

import (
	"testing"

	"github.com/chainnode-go/chainnode/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisHasSentinelHash(t *testing.T) {
	g := Genesis()
	assert.Equal(t, uint64(0), g.Index)
	assert.Equal(t, GenesisPreviousHash, g.PreviousHash)
	assert.Equal(t, GenesisHash, g.Hash)
	assert.Empty(t, g.Transactions)
}

func TestMineProducesHashMeetingDifficulty(t *testing.T) {
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	block := New(1, GenesisHash, []*Transaction{Coinbase(key.PublicKeyHex())}, 1000)
	block.Mine(2)

	assert.True(t, leadingZeros(block.Hash, 2))
	assert.Equal(t, block.Hash, block.calculateHash())
}

func TestMinedBlockIsValidAgainstPredecessor(t *testing.T) {
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	prev := Genesis()
	block := New(1, prev.Hash, []*Transaction{Coinbase(key.PublicKeyHex())}, 1000)
	block.Mine(2)

	assert.True(t, block.IsValid(2, prev))
}

func TestBlockWithWrongPreviousHashIsInvalid(t *testing.T) {
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	prev := Genesis()
	block := New(1, "not-the-real-previous-hash", []*Transaction{Coinbase(key.PublicKeyHex())}, 1000)
	block.Mine(2)

	assert.False(t, block.IsValid(2, prev))
}

func TestBlockWithTamperedTransactionIsInvalid(t *testing.T) {
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	prev := Genesis()
	cb := Coinbase(key.PublicKeyHex())
	block := New(1, prev.Hash, []*Transaction{cb}, 1000)
	block.Mine(1)

	block.Transactions[0].Amount = 999
	assert.False(t, block.IsValid(1, prev))
}

func TestBlockWithTamperedHashIsInvalid(t *testing.T) {
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	prev := Genesis()
	block := New(1, prev.Hash, []*Transaction{Coinbase(key.PublicKeyHex())}, 1000)
	block.Mine(1)

	block.Nonce++ // hash no longer matches the recomputed pre-image
	assert.False(t, block.IsValid(1, prev))
}
