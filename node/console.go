package node

import (
	"context"

	"github.com/chainnode-go/chainnode/model"
	"github.com/chainnode-go/chainnode/transport"
)

// TriggerHealthCheck runs one health-check sweep immediately, on demand from
// the operator console (spec.md §6: "trigger health check") rather than
// waiting for the next HealthCheckInterval tick.
func (n *Node) TriggerHealthCheck() {
	n.healthCheckOnce(context.Background())
}

// NewSignedTransaction builds and signs a transaction from this node's own
// key, for the operator console's "submit transaction" command (spec.md §6).
func (n *Node) NewSignedTransaction(receiver string, amount float64, nonce uint64) *model.Transaction {
	tx := model.New(n.SigningKey.PublicKeyHex(), receiver, amount, nonce)
	tx.Sign(n.SigningKey)
	return tx
}

// BroadcastTransaction announces tx to every known peer via new_transaction.
func (n *Node) BroadcastTransaction(ctx context.Context, tx *model.Transaction) {
	n.broadcast(ctx, transport.NewTransaction{
		Type:        transport.TypeNewTransaction,
		Transaction: tx,
		Address:     transport.AddrToNetAddr(n.Self),
	})
}
