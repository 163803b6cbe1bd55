// Package node implements spec.md §4.11: the orchestrator that dispatches
// inbound messages, and drives the gossip, health-check and mining loops as
// three independent, daemon background loops (spec.md §5) coordinated
// through the Chain's single chain+mempool+ledger lock and the peer
// registry's own single-statement atomicity.
//
// Grounded on services/blockvalidation/Server.go's Init/Start/Health
// lifecycle shape and services/legacy/netsync/manager.go's message-dispatch
// loop, adapted from gRPC services to the raw framed-socket transport
// spec.md §4.10 mandates.
package node

import (
	"context"
	"fmt"

	"github.com/chainnode-go/chainnode/chain"
	"github.com/chainnode-go/chainnode/config"
	"github.com/chainnode-go/chainnode/crypto"
	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/transport"
	"github.com/chainnode-go/chainnode/ulogger"
	"golang.org/x/sync/errgroup"
)

// Node is a single peer-to-peer participant: one Chain (with its embedded
// Mempool and the shared AccountLedger), one PeerRegistry, one signing key
// (spec.md §3: "Ownership").
type Node struct {
	logger ulogger.Logger
	cfg    *config.Settings

	Chain      *chain.Chain
	Peers      peerstore.Store
	SigningKey *crypto.PrivateKey
	Self       peerstore.Addr

	listener *transport.Listener
}

// New constructs a Node. It does not yet listen or run any loop — call Start.
func New(logger ulogger.Logger, cfg *config.Settings, ch *chain.Chain, peers peerstore.Store, key *crypto.PrivateKey, self peerstore.Addr) *Node {
	return &Node{
		logger:     logger.With("node"),
		cfg:        cfg,
		Chain:      ch,
		Peers:      peers,
		SigningKey: key,
		Self:       self,
	}
}

// Start binds the listener and runs the dispatch accept loop plus the
// gossip, health-check and mining loops, all as daemon goroutines under ctx:
// cancelling ctx tears every one of them down (spec.md §5).
func (n *Node) Start(ctx context.Context) error {
	ln, err := transport.Listen(n.cfg.ListenAddress(), n.logger)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", n.cfg.ListenAddress(), err)
	}
	n.listener = ln

	n.logger.Infof("listening on %s", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n.listener.Serve(gctx, n.dispatch)
		return nil
	})
	g.Go(func() error {
		n.gossipLoop(gctx)
		return nil
	})
	g.Go(func() error {
		n.healthCheckLoop(gctx)
		return nil
	})
	g.Go(func() error {
		n.miningLoop(gctx)
		return nil
	})

	return g.Wait()
}

// Shutdown stops the listener; the three background loops exit on their own
// once the context Start was called with is cancelled by the caller.
func (n *Node) Shutdown() error {
	if n.listener == nil {
		return nil
	}
	return n.listener.Close()
}
