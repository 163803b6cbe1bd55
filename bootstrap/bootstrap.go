// Package bootstrap implements spec.md §6's genesis directory: a well-known
// endpoint that hands out a random subset of registered peers. It shares the
// transport and peerstore packages with package node rather than embedding or
// subclassing node.Node (spec.md §9's "Polymorphism" note: two role-specific
// handlers over one common transport/registry interface).
//
// Grounded on the teacher's modules/p2pBootstrap submodule and
// services/legacy/connmgr/seed.go's seed-callback shape, repurposed from DNS
// seeding to registry polling.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/chainnode-go/chainnode/config"
	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/transport"
	"github.com/chainnode-go/chainnode/ulogger"
	"golang.org/x/sync/errgroup"
)

// Directory is the genesis directory process: a peer registry plus a
// listener answering request_peers and genesis_health_check.
type Directory struct {
	logger ulogger.Logger
	cfg    *config.Settings

	Peers peerstore.Store
	Self  peerstore.Addr

	listener *transport.Listener
}

// New constructs a Directory. It does not yet listen — call Start.
func New(logger ulogger.Logger, cfg *config.Settings, peers peerstore.Store, self peerstore.Addr) *Directory {
	return &Directory{
		logger: logger.With("bootstrap"),
		cfg:    cfg,
		Peers:  peers,
		Self:   self,
	}
}

// Start binds the listener and dispatches inbound frames until ctx is
// cancelled. The genesis directory runs no gossip or mining loop of its own
// (spec.md §9).
func (d *Directory) Start(ctx context.Context) error {
	ln, err := transport.Listen(d.cfg.BootstrapAddress(), d.logger)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.cfg.BootstrapAddress(), err)
	}
	d.listener = ln

	d.logger.Infof("genesis directory listening on %s", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.listener.Serve(gctx, d.dispatch)
		return nil
	})
	g.Go(func() error {
		d.healthCheckLoop(gctx)
		return nil
	})

	return g.Wait()
}

// Shutdown closes the listener.
func (d *Directory) Shutdown() error {
	if d.listener == nil {
		return nil
	}
	return d.listener.Close()
}
