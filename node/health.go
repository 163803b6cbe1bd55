package node

import (
	"context"
	"time"

	"github.com/chainnode-go/chainnode/metrics"
	"github.com/chainnode-go/chainnode/transport"
)

// healthCheckLoop implements spec.md §4.11's health-check sweep: every
// HealthCheckInterval, every registered peer (online or not) is sent a
// health_check frame with HealthCheckTimeout to respond. A peer that answers
// is marked online; a peer that errors or times out is removed from the
// registry outright (the node-side behavior; the bootstrap directory instead
// marks such peers offline — see package bootstrap).
func (n *Node) healthCheckLoop(ctx context.Context) {
	ticker := time.NewTicker(n.cfg.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.healthCheckOnce(ctx)
		}
	}
}

func (n *Node) healthCheckOnce(ctx context.Context) {
	records, err := n.Peers.GetAll(ctx)
	if err != nil {
		n.logger.Warnf("health check: list peers: %v", err)
		return
	}

	msg := transport.HealthCheck{
		Type:    transport.TypeHealthCheck,
		Address: transport.AddrToNetAddr(n.Self),
	}

	for _, rec := range records {
		if rec.Addr == n.Self {
			continue
		}
		addr := rec.Addr

		_, err := transport.Request(ctx, addr.String(), n.cfg.DialTimeout, n.cfg.HealthCheckTimeout, msg)
		if err != nil {
			n.logger.Debugf("health check: %s unreachable, removing: %v", addr, err)
			if rmErr := n.Peers.Remove(ctx, addr); rmErr != nil {
				n.logger.Warnf("remove dead peer %s: %v", addr, rmErr)
			}
			continue
		}

		if err := n.Peers.SetOnline(ctx, addr); err != nil {
			n.logger.Warnf("mark peer %s online: %v", addr, err)
		}
	}

	if count, err := n.Peers.Count(ctx); err == nil {
		metrics.KnownPeers.Set(float64(count))
	}
}
