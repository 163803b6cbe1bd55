package node

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/chainnode-go/chainnode/chain"
	"github.com/chainnode-go/chainnode/config"
	"github.com/chainnode-go/chainnode/crypto"
	"github.com/chainnode-go/chainnode/ledger"
	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/transport"
	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(t *testing.T) (*Node, *crypto.PrivateKey) {
	t.Helper()
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	store := ledger.NewMemoryStore(ledger.SeedAccount{PublicKeyHex: key.PublicKeyHex(), BalanceCoins: 1000})
	ch := chain.New(store, 1, ulogger.New("test"))
	cfg := config.Load()

	n := New(ulogger.New("test"), cfg, ch, peerstore.NewMemoryStore(), key, peerstore.Addr{IP: "127.0.0.1", Port: 9000})
	return n, key
}

func TestHandleNewTransactionAdmitsToMempool(t *testing.T) {
	n, _ := newTestNode(t)
	receiver, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	tx := n.NewSignedTransaction(receiver.PublicKeyHex(), 5, 0)

	raw, err := json.Marshal(transport.NewTransaction{
		Type:        transport.TypeNewTransaction,
		Transaction: tx,
		Address:     transport.AddrToNetAddr(n.Self),
	})
	require.NoError(t, err)

	n.handleNewTransaction(context.Background(), raw)

	assert.True(t, n.Chain.Mempool.Has(tx.TxHash))
}

func TestHandleNewTransactionRejectsInvalidSignature(t *testing.T) {
	n, _ := newTestNode(t)
	receiver, err := crypto.NewPrivateKey()
	require.NoError(t, err)

	tx := n.NewSignedTransaction(receiver.PublicKeyHex(), 5, 0)
	tx.Signature = tx.Signature[:len(tx.Signature)-2] + "00"

	raw, err := json.Marshal(transport.NewTransaction{
		Type:        transport.TypeNewTransaction,
		Transaction: tx,
		Address:     transport.AddrToNetAddr(n.Self),
	})
	require.NoError(t, err)

	n.handleNewTransaction(context.Background(), raw)

	assert.False(t, n.Chain.Mempool.Has(tx.TxHash))
}

func TestHandleSendPeersAddsSenderAndListedPeers(t *testing.T) {
	n, _ := newTestNode(t)

	msg := transport.SendPeers{
		Type:    transport.TypeSendPeers,
		Address: transport.AddrToNetAddr(peerstore.Addr{IP: "10.0.0.1", Port: 9001}),
		Peers: []transport.NetAddr{
			transport.AddrToNetAddr(peerstore.Addr{IP: "10.0.0.2", Port: 9002}),
		},
	}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	n.handleSendPeers(context.Background(), raw)

	count, err := n.Peers.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestHandleNewBlockMinedAcceptsValidBlock(t *testing.T) {
	miner, _ := newTestNode(t)
	receiver, _ := newTestNode(t)

	block, err := miner.Chain.MinePendingTransactions(context.Background(), miner.SigningKey.PublicKeyHex(), 0, 0)
	require.NoError(t, err)
	require.NotNil(t, block)

	raw, err := json.Marshal(transport.NewBlockMined{
		Type:    transport.TypeNewBlockMined,
		Block:   block,
		Address: transport.AddrToNetAddr(miner.Self),
	})
	require.NoError(t, err)

	receiver.handleNewBlockMined(context.Background(), raw)
	assert.Equal(t, 2, receiver.Chain.Len())
}

func TestDispatchIgnoresMalformedFrame(t *testing.T) {
	n, _ := newTestNode(t)
	n.dispatch(context.Background(), []byte("not json"), func(interface{}) error { return nil })
}
