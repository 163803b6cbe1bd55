// Command chainnode runs a single permissionless peer-to-peer node: it
// listens for framed peer connections, gossips addresses, mines blocks, and
// exposes the operator command channel spec.md §6 describes (a REPL over
// stdin, since the shell itself is explicitly out of scope of the core
// design — only its semantics need to match the internal operations).
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/chainnode-go/chainnode/chain"
	"github.com/chainnode-go/chainnode/config"
	"github.com/chainnode-go/chainnode/crypto"
	"github.com/chainnode-go/chainnode/ledger"
	"github.com/chainnode-go/chainnode/node"
	"github.com/chainnode-go/chainnode/peerstore"
	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "chainnode",
		Usage: "a permissionless proof-of-work blockchain peer",
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
	logger := ulogger.New("chainnode", c.String("loglevel"))

	key, err := loadOrCreateKey(cfg, logger)
	if err != nil {
		return fmt.Errorf("load signing key: %w", err)
	}
	logger.Infof("node public key: %s", key.PublicKeyHex())

	accountStore, err := openLedger(logger, cfg)
	if err != nil {
		return fmt.Errorf("open account store: %w", err)
	}
	peerStore, err := openPeerStore(logger, cfg)
	if err != nil {
		return fmt.Errorf("open peer store: %w", err)
	}

	self := peerstore.Addr{IP: cfg.ListenHost, Port: cfg.ListenPort}
	ch := chain.New(accountStore, cfg.Difficulty, logger)
	n := node.New(logger, cfg, ch, peerStore, key, self)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := n.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Errorf("node stopped: %v", err)
		}
	}()

	runConsole(ctx, stop, logger, n)
	return n.Shutdown()
}

// loadOrCreateKey persists the node's identity across restarts when
// cfg.KeyFile is set; otherwise a fresh identity is generated each run.
func loadOrCreateKey(cfg *config.Settings, logger ulogger.Logger) (*crypto.PrivateKey, error) {
	if cfg.KeyFile == "" {
		return crypto.NewPrivateKey()
	}

	raw, err := os.ReadFile(cfg.KeyFile)
	if err == nil {
		return crypto.PrivateKeyFromHex(strings.TrimSpace(string(raw)))
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	key, err := crypto.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cfg.KeyFile, []byte(key.Hex()), 0o600); err != nil {
		logger.Warnf("persist signing key to %s: %v", cfg.KeyFile, err)
	}
	return key, nil
}

func openLedger(logger ulogger.Logger, cfg *config.Settings) (ledger.Store, error) {
	seed := ledger.SeedAccount{PublicKeyHex: cfg.SeedPublicKey, BalanceCoins: cfg.SeedBalance}

	if strings.HasPrefix(cfg.AccountStoreURL, "memory") {
		return ledger.NewMemoryStore(seed), nil
	}
	return ledger.NewSQLStore(logger, cfg.AccountStoreURL, seed)
}

func openPeerStore(logger ulogger.Logger, cfg *config.Settings) (peerstore.Store, error) {
	if strings.HasPrefix(cfg.PeerStoreURL, "memory") {
		return peerstore.NewMemoryStore(), nil
	}
	return peerstore.NewSQLStore(logger, cfg.PeerStoreURL)
}

// runConsole implements spec.md §6's operator command channel as a blocking
// stdin REPL: show peers, add peer, trigger health check, show chain (JSON),
// submit transaction, show mempool, exit.
func runConsole(ctx context.Context, stop context.CancelFunc, logger ulogger.Logger, n *node.Node) {
	fmt.Println(`chainnode operator console - commands: peers, addpeer <ip> <port>, health, chain, mempool, tx <receiver_hex> <amount>, exit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "exit", "quit":
			stop()
			return
		case "peers":
			cmdPeers(ctx, n, logger)
		case "addpeer":
			cmdAddPeer(ctx, n, logger, fields)
		case "health":
			cmdHealth(n)
		case "chain":
			cmdChain(n, logger)
		case "mempool":
			cmdMempool(n)
		case "tx":
			cmdSubmitTx(ctx, n, logger, fields)
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func cmdPeers(ctx context.Context, n *node.Node, logger ulogger.Logger) {
	records, err := n.Peers.GetAll(ctx)
	if err != nil {
		logger.Errorf("list peers: %v", err)
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"IP", "Port", "Online"})
	for _, rec := range records {
		table.Append([]string{rec.Addr.IP, strconv.Itoa(rec.Addr.Port), strconv.FormatBool(!rec.IsOffline)})
	}
	table.Render()
}

func cmdAddPeer(ctx context.Context, n *node.Node, logger ulogger.Logger, fields []string) {
	if len(fields) != 3 {
		fmt.Println("usage: addpeer <ip> <port>")
		return
	}
	port, err := strconv.Atoi(fields[2])
	if err != nil {
		fmt.Println("port must be an integer")
		return
	}
	// An operator-requested add bypasses MAX_PEERS: the cap exists to bound
	// unsolicited gossip growth, not a deliberate operator action.
	if err := n.Peers.Add(ctx, peerstore.Addr{IP: fields[1], Port: port}, 0); err != nil {
		logger.Errorf("add peer: %v", err)
	}
}

func cmdHealth(n *node.Node) {
	fmt.Println("health check runs automatically every interval; triggering an immediate sweep")
	n.TriggerHealthCheck()
}

func cmdChain(n *node.Node, logger ulogger.Logger) {
	blocks := n.Chain.Blocks()
	out, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		logger.Errorf("marshal chain: %v", err)
		return
	}
	fmt.Println(string(out))
}

func cmdMempool(n *node.Node) {
	pending := n.Chain.Mempool.Pending()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"TxHash", "Sender", "Receiver", "Amount"})
	for _, tx := range pending {
		table.Append([]string{tx.TxHash, tx.Sender, tx.Receiver, strconv.FormatFloat(tx.Amount, 'f', -1, 64)})
	}
	table.Render()
}

func cmdSubmitTx(ctx context.Context, n *node.Node, logger ulogger.Logger, fields []string) {
	if len(fields) != 3 {
		fmt.Println("usage: tx <receiver_hex> <amount>")
		return
	}
	amount, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		fmt.Println("amount must be a number")
		return
	}

	sender := n.SigningKey.PublicKeyHex()
	ledgerNonce, _, err := n.Chain.Ledger.GetNonce(ctx, sender)
	if err != nil {
		logger.Errorf("look up nonce: %v", err)
		return
	}
	nextNonce := ledgerNonce + uint64(n.Chain.Mempool.PendingCountForSender(sender))

	tx := n.NewSignedTransaction(fields[1], amount, nextNonce)
	if err := n.Chain.AddTransaction(ctx, tx); err != nil {
		logger.Errorf("submit transaction: %v", err)
		return
	}
	n.BroadcastTransaction(ctx, tx)
	fmt.Printf("submitted tx %s\n", tx.TxHash)
}
