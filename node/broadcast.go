package node

import (
	"context"

	"github.com/chainnode-go/chainnode/transport"
	"golang.org/x/sync/errgroup"
)

// broadcast dials every known peer in parallel and sends msg as a one-shot
// frame (spec.md §4.11: "Broadcast fan-out dials all known peers in parallel;
// failures remove the peer from the registry").
func (n *Node) broadcast(ctx context.Context, msg interface{}) {
	records, err := n.Peers.GetAll(ctx)
	if err != nil {
		n.logger.Warnf("list peers for broadcast: %v", err)
		return
	}

	var g errgroup.Group
	for _, rec := range records {
		if rec.IsOffline || rec.Addr == n.Self {
			continue
		}
		addr := rec.Addr
		g.Go(func() error {
			_, err := transport.Request(ctx, addr.String(), n.cfg.DialTimeout, 0, msg)
			if err != nil {
				n.logger.Debugf("broadcast to %s failed, removing: %v", addr, err)
				if rmErr := n.Peers.Remove(ctx, addr); rmErr != nil {
					n.logger.Warnf("remove unreachable peer %s: %v", addr, rmErr)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}
