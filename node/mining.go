package node

import (
	"context"

	"github.com/chainnode-go/chainnode/metrics"
	"github.com/chainnode-go/chainnode/transport"
)

// miningLoop implements spec.md §4.11's continuous mining loop: repeatedly
// call MinePendingTransactions (which itself blocks until the mempool holds
// MempoolMinSize transactions), and broadcast every block this node mines.
func (n *Node) miningLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		block, err := n.Chain.MinePendingTransactions(ctx, n.SigningKey.PublicKeyHex(), n.cfg.MempoolMinSize, n.cfg.MempoolPollEvery)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			n.logger.Warnf("mining: %v", err)
			continue
		}
		if block == nil {
			// AddBlock rejected our own candidate, most likely because a
			// peer's block beat us to the same height. Try again.
			continue
		}

		n.logger.Infof("mined block %d (%s)", block.Index, block.Hash)
		metrics.BlocksMined.Inc()
		metrics.MempoolSize.Set(float64(n.Chain.Mempool.Len()))

		msg := transport.NewBlockMined{
			Type:    transport.TypeNewBlockMined,
			Block:   block,
			Address: transport.AddrToNetAddr(n.Self),
		}
		n.broadcast(ctx, msg)
	}
}
