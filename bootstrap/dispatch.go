package bootstrap

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/transport"
)

// dispatch answers spec.md §6's two genesis-directory message types; any
// other type is logged and dropped without closing the connection.
func (d *Directory) dispatch(ctx context.Context, raw []byte, reply func(interface{}) error) {
	env, err := transport.DecodeEnvelope(raw)
	if err != nil {
		d.logger.Warnf("malformed message: %v", err)
		return
	}

	switch env.Type {
	case transport.TypeRequestPeers:
		d.handleRequestPeers(ctx, raw, reply)
	case transport.TypeGenesisHealthCheck:
		d.handleGenesisHealthCheck(reply)
	default:
		d.logger.Debugf("ignoring unhandled message type %q", env.Type)
	}
}

// addPeerAddr registers a with the directory uncapped: the original bootstrap
// node calls add_peer(peer_addr, None), unlike a regular node's MAX_PEERS-
// capped registration, since the directory's job is to remember every peer
// that has ever announced itself.
func (d *Directory) addPeerAddr(ctx context.Context, a peerstore.Addr) {
	if a == d.Self {
		return
	}
	if err := d.Peers.Add(ctx, a, 0); err != nil {
		d.logger.Warnf("add peer %s: %v", a, err)
	}
}

// handleRequestPeers implements spec.md §6: the directory blocks its
// response until it has at least BootstrapMinPeers candidates to offer,
// polling at BootstrapPollEvery.
func (d *Directory) handleRequestPeers(ctx context.Context, raw []byte, reply func(interface{}) error) {
	var msg transport.RequestPeers
	if err := json.Unmarshal(raw, &msg); err != nil {
		d.logger.Warnf("malformed request_peers: %v", err)
		return
	}

	requester, ok := msg.Address.ToAddr()
	if ok {
		d.addPeerAddr(ctx, requester)
	}

	peers, err := d.waitForCandidates(ctx, requester)
	if err != nil {
		d.logger.Debugf("request_peers: %v", err)
		return
	}

	wire := make([]transport.NetAddr, len(peers))
	for i, p := range peers {
		wire[i] = transport.AddrToNetAddr(p)
	}

	_ = reply(transport.FromGenesis{Type: transport.TypeFromGenesis, Peers: wire})
}

func (d *Directory) waitForCandidates(ctx context.Context, exclude peerstore.Addr) ([]peerstore.Addr, error) {
	ticker := time.NewTicker(d.cfg.BootstrapPollEvery)
	defer ticker.Stop()

	for {
		peers, err := d.Peers.GetPeers(ctx, d.cfg.BootstrapMinPeers, exclude)
		if err != nil {
			return nil, err
		}
		if len(peers) >= d.cfg.BootstrapMinPeers {
			return peers, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (d *Directory) handleGenesisHealthCheck(reply func(interface{}) error) {
	_ = reply(transport.GenesisHealthCheckResponse{
		Type:   transport.TypeGenesisHealthCheckResponse,
		Status: "healthy",
	})
}
