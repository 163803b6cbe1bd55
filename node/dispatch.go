package node

import (
	"context"
	"encoding/json"

	"github.com/chainnode-go/chainnode/metrics"
	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/transport"
)

// dispatch implements spec.md §4.11's "on incoming message" table. Malformed
// frames are logged and dropped without closing the connection (spec.md §7).
func (n *Node) dispatch(ctx context.Context, raw []byte, reply func(interface{}) error) {
	env, err := transport.DecodeEnvelope(raw)
	if err != nil {
		n.logger.Warnf("malformed message: %v", err)
		return
	}

	switch env.Type {
	case transport.TypeSendPeers:
		n.handleSendPeers(ctx, raw)
	case transport.TypeFromGenesis:
		n.handleFromGenesis(ctx, raw)
	case transport.TypeRequestPeers:
		n.handleRequestPeers(ctx, raw, reply)
	case transport.TypeHealthCheck:
		n.handleHealthCheck(ctx, raw, reply)
	case transport.TypeNewBlockMined:
		n.handleNewBlockMined(ctx, raw)
	case transport.TypeNewTransaction:
		n.handleNewTransaction(ctx, raw)
	default:
		// Unknown types are ignored (spec.md §4.11).
		n.logger.Debugf("ignoring unknown message type %q", env.Type)
	}
}

func (n *Node) addPeerAddr(ctx context.Context, a peerstore.Addr) {
	if a == n.Self {
		return
	}
	if err := n.Peers.Add(ctx, a, n.cfg.MaxPeers); err != nil {
		n.logger.Warnf("add peer %s: %v", a, err)
	}
}

func (n *Node) handleSendPeers(ctx context.Context, raw []byte) {
	var msg transport.SendPeers
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.logger.Warnf("malformed send_peers: %v", err)
		return
	}

	if a, ok := msg.Address.ToAddr(); ok {
		n.addPeerAddr(ctx, a)
	}
	for _, p := range msg.Peers {
		if a, ok := p.ToAddr(); ok {
			n.addPeerAddr(ctx, a)
		}
	}
}

func (n *Node) handleFromGenesis(ctx context.Context, raw []byte) {
	var msg transport.FromGenesis
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.logger.Warnf("malformed from_genesis: %v", err)
		return
	}
	for _, p := range msg.Peers {
		if a, ok := p.ToAddr(); ok {
			n.addPeerAddr(ctx, a)
		}
	}
}

func (n *Node) handleRequestPeers(ctx context.Context, raw []byte, reply func(interface{}) error) {
	var msg transport.RequestPeers
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.logger.Warnf("malformed request_peers: %v", err)
		return
	}
	if a, ok := msg.Address.ToAddr(); ok {
		n.addPeerAddr(ctx, a)
	}

	// A regular node also answers request_peers with a from_genesis reply
	// (spec.md §9's "Polymorphism" note: both share a transport/registry
	// interface rather than an inheritance split). Unlike the bootstrap
	// directory it does not wait for BootstrapMinPeers candidates: it replies
	// at once with up to GossipCount online peers, possibly none.
	peers, err := n.Peers.GetPeers(ctx, n.cfg.GossipCount, n.Self)
	if err != nil {
		n.logger.Warnf("get peers for request_peers reply: %v", err)
		return
	}

	wire := make([]transport.NetAddr, len(peers))
	for i, p := range peers {
		wire[i] = transport.AddrToNetAddr(p)
	}

	_ = reply(transport.FromGenesis{Type: transport.TypeFromGenesis, Peers: wire})
}

func (n *Node) handleHealthCheck(ctx context.Context, raw []byte, reply func(interface{}) error) {
	var msg transport.HealthCheck
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.logger.Warnf("malformed health_check: %v", err)
		return
	}
	if a, ok := msg.Address.ToAddr(); ok {
		n.addPeerAddr(ctx, a)
	}

	_ = reply(transport.HealthCheckResponse{Type: transport.TypeHealthCheckResponse, Status: "healthy"})
}

func (n *Node) handleNewBlockMined(ctx context.Context, raw []byte) {
	var msg transport.NewBlockMined
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.logger.Warnf("malformed new_block_mined: %v", err)
		return
	}
	if msg.Block == nil {
		n.logger.Warnf("new_block_mined with no block payload")
		return
	}

	accepted, err := n.Chain.AddBlock(ctx, msg.Block)
	if err != nil {
		n.logger.Errorf("apply received block %d: %v", msg.Block.Index, err)
		return
	}
	if !accepted {
		metrics.BlocksRejected.Inc()
		return
	}

	metrics.BlocksAccepted.Inc()
	metrics.MempoolSize.Set(float64(n.Chain.Mempool.Len()))
	n.logger.Infof("accepted block %d from peer, re-broadcasting", msg.Block.Index)
	n.broadcast(ctx, msg)
}

func (n *Node) handleNewTransaction(ctx context.Context, raw []byte) {
	var msg transport.NewTransaction
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.logger.Warnf("malformed new_transaction: %v", err)
		return
	}
	if msg.Transaction == nil {
		n.logger.Warnf("new_transaction with no transaction payload")
		return
	}

	if err := n.Chain.AddTransaction(ctx, msg.Transaction); err != nil {
		metrics.TransactionsRejected.Inc()
		n.logger.Debugf("rejected transaction %s: %v", msg.Transaction.TxHash, err)
		return
	}

	metrics.TransactionsAdmitted.Inc()
	metrics.MempoolSize.Set(float64(n.Chain.Mempool.Len()))
	n.broadcast(ctx, msg)
}
