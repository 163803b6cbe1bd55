// Command bootstrap runs the well-known genesis directory service spec.md §6
// describes: it answers request_peers with a random subset of registered
// peers and responds to genesis_health_check, but runs no gossip or mining
// loop of its own.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chainnode-go/chainnode/bootstrap"
	"github.com/chainnode-go/chainnode/config"
	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "chainnode-bootstrap",
		Usage: "well-known genesis peer directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "loglevel", Value: "INFO", Usage: "DEBUG, INFO, WARN, ERROR"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Load()
	logger := ulogger.New("bootstrap", c.String("loglevel"))

	peerStore, err := openPeerStore(logger, cfg)
	if err != nil {
		return fmt.Errorf("open peer store: %w", err)
	}

	self := peerstore.Addr{IP: cfg.GenesisHost, Port: cfg.GenesisPort}
	dir := bootstrap.New(logger, cfg, peerStore, self)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dir.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return dir.Shutdown()
}

func openPeerStore(logger ulogger.Logger, cfg *config.Settings) (peerstore.Store, error) {
	if strings.HasPrefix(cfg.PeerStoreURL, "memory") {
		return peerstore.NewMemoryStore(), nil
	}
	return peerstore.NewSQLStore(logger, cfg.PeerStoreURL)
}
