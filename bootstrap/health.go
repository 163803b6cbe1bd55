package bootstrap

import (
	"context"
	"time"

	"github.com/chainnode-go/chainnode/transport"
)

// healthCheckLoop mirrors node.healthCheckLoop but marks unresponsive peers
// offline rather than removing them (spec.md §4.11: "on error/timeout... on
// Bootstrap: set_offline"), since the directory's job is to remember every
// peer it has ever seen, not just the currently reachable ones.
func (d *Directory) healthCheckLoop(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.healthCheckOnce(ctx)
		}
	}
}

func (d *Directory) healthCheckOnce(ctx context.Context) {
	records, err := d.Peers.GetAll(ctx)
	if err != nil {
		d.logger.Warnf("health check: list peers: %v", err)
		return
	}

	msg := transport.HealthCheck{
		Type:    transport.TypeHealthCheck,
		Address: transport.AddrToNetAddr(d.Self),
	}

	for _, rec := range records {
		if rec.Addr == d.Self {
			continue
		}
		addr := rec.Addr

		_, err := transport.Request(ctx, addr.String(), d.cfg.DialTimeout, d.cfg.HealthCheckTimeout, msg)
		if err != nil {
			d.logger.Debugf("health check: %s unresponsive, marking offline: %v", addr, err)
			if setErr := d.Peers.SetOffline(ctx, addr); setErr != nil {
				d.logger.Warnf("mark peer %s offline: %v", addr, setErr)
			}
			continue
		}

		if err := d.Peers.SetOnline(ctx, addr); err != nil {
			d.logger.Warnf("mark peer %s online: %v", addr, err)
		}
	}
}
