package node

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/chainnode-go/chainnode/metrics"
	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/transport"
	"github.com/chainnode-go/chainnode/util/retry"
)

// gossipLoop implements spec.md §4.11's gossip loop: every GossipRate, pick
// up to GossipCount random online peers excluding self; if none are known,
// fall back to the bootstrap directory's request_peers. Otherwise send each
// chosen peer a send_peers frame carrying this node's address plus up to
// GossipCount other known peers.
func (n *Node) gossipLoop(ctx context.Context) {
	ticker := time.NewTicker(n.cfg.GossipRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.gossipOnce(ctx)
		}
	}
}

func (n *Node) gossipOnce(ctx context.Context) {
	targets, err := n.Peers.GetPeers(ctx, n.cfg.GossipCount, n.Self)
	if err != nil {
		n.logger.Warnf("gossip: list peers: %v", err)
		return
	}

	if len(targets) == 0 {
		n.contactBootstrap(ctx)
		return
	}

	for _, target := range targets {
		others, err := n.Peers.GetPeers(ctx, n.cfg.GossipCount, append([]peerstore.Addr{n.Self}, target)...)
		if err != nil {
			n.logger.Warnf("gossip: list peers to send to %s: %v", target, err)
			continue
		}

		wire := make([]transport.NetAddr, len(others))
		for i, o := range others {
			wire[i] = transport.AddrToNetAddr(o)
		}

		msg := transport.SendPeers{
			Type:    transport.TypeSendPeers,
			Address: transport.AddrToNetAddr(n.Self),
			Peers:   wire,
		}

		if _, err := transport.Request(ctx, target.String(), n.cfg.DialTimeout, 0, msg); err != nil {
			n.logger.Debugf("gossip send to %s failed, removing: %v", target, err)
			if rmErr := n.Peers.Remove(ctx, target); rmErr != nil {
				n.logger.Warnf("remove unreachable peer %s: %v", target, rmErr)
			}
		}
	}

	if count, err := n.Peers.Count(ctx); err == nil {
		metrics.KnownPeers.Set(float64(count))
	}
}

var errEmptyPeerList = errors.New("bootstrap directory returned no peers yet")

// contactBootstrap implements the "otherwise poll the genesis directory"
// half of the gossip loop, and spec.md §9's supplemented behavior (from
// original_source/peer.py): keep retrying request_peers until the directory
// returns a non-empty peer list, rather than giving up after one attempt.
func (n *Node) contactBootstrap(ctx context.Context) {
	msg := transport.RequestPeers{
		Type:    transport.TypeRequestPeers,
		Address: transport.AddrToNetAddr(n.Self),
	}

	var resp transport.FromGenesis
	err := retry.Do(ctx, n.logger, func() error {
		raw, err := transport.Request(ctx, n.cfg.BootstrapAddress(), n.cfg.DialTimeout, n.cfg.ReadTimeout, msg)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return err
		}
		if len(resp.Peers) == 0 {
			return errEmptyPeerList
		}
		return nil
	}, retry.WithInfiniteRetry(), retry.WithBackoffDurationType(n.cfg.GossipRate), retry.WithMessage("contact bootstrap directory"))
	if err != nil {
		n.logger.Warnf("gossip: %v", err)
		return
	}

	for _, p := range resp.Peers {
		if a, ok := p.ToAddr(); ok {
			n.addPeerAddr(ctx, a)
		}
	}
}
