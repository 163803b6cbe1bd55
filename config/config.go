// Package config centralizes chainnode's tunables behind gocore.Config, the
// same facade the teacher reads miner/block-assembly settings through
// (gocore.Config().GetInt("miner_waitSeconds", 30)).
package config

import (
	"fmt"
	"time"

	"github.com/ordishs/gocore"
)

// Settings holds every tunable spec.md names. Load populates it once at
// process startup; outside this package only ulogger (PRETTY_LOGS) and
// util's sqlite setup (dataFolder) call gocore directly.
type Settings struct {
	ListenHost string
	ListenPort int

	Difficulty int // leading hex zeros a block hash must have

	MaxPeers    int
	GossipRate  time.Duration
	GossipCount int

	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration

	DialTimeout time.Duration
	ReadTimeout time.Duration

	MempoolMinSize   int           // mine_pending_transactions threshold (spec.md §4.6: 3)
	MempoolPollEvery time.Duration // polling cadence while waiting for pending txs

	GenesisHost string
	GenesisPort int

	// BootstrapMinPeers/BootstrapPollEvery govern the genesis directory's
	// own request_peers handler (spec.md §6): it blocks its reply until at
	// least this many candidates are registered, polling at this cadence.
	BootstrapMinPeers  int
	BootstrapPollEvery time.Duration

	AccountStoreURL string
	PeerStoreURL    string

	// KeyFile persists this node's secp256k1 signing key hex across
	// restarts. Empty means generate a fresh, ephemeral identity each run.
	KeyFile string

	// CoinbaseReward is the fixed per-block reward, spec.md §6: exactly 10.0.
	CoinbaseReward float64

	// SeedPublicKey/SeedBalance pre-seed one account at genesis (spec.md §4.4).
	SeedPublicKey string
	SeedBalance   float64
}

// Load reads Settings from gocore.Config, falling back to spec.md's defaults
// for every value that isn't set in the environment/config file.
func Load() *Settings {
	s := &Settings{}

	s.ListenHost, _ = gocore.Config().Get("chainnode_listenHost", "0.0.0.0")
	s.ListenPort, _ = gocore.Config().GetInt("chainnode_listenPort", 9000)

	s.Difficulty, _ = gocore.Config().GetInt("chainnode_difficulty", 3)

	s.MaxPeers, _ = gocore.Config().GetInt("chainnode_maxPeers", 50)
	gossipRateSec, _ := gocore.Config().GetInt("chainnode_gossipRateSeconds", 15)
	s.GossipRate = time.Duration(gossipRateSec) * time.Second
	s.GossipCount, _ = gocore.Config().GetInt("chainnode_gossipCount", 2)

	healthSec, _ := gocore.Config().GetInt("chainnode_healthCheckIntervalSeconds", 30)
	s.HealthCheckInterval = time.Duration(healthSec) * time.Second
	healthTimeoutSec, _ := gocore.Config().GetInt("chainnode_healthCheckTimeoutSeconds", 20)
	s.HealthCheckTimeout = time.Duration(healthTimeoutSec) * time.Second

	dialSec, _ := gocore.Config().GetInt("chainnode_dialTimeoutSeconds", 30)
	s.DialTimeout = time.Duration(dialSec) * time.Second
	readSec, _ := gocore.Config().GetInt("chainnode_readTimeoutSeconds", 30)
	s.ReadTimeout = time.Duration(readSec) * time.Second

	s.MempoolMinSize, _ = gocore.Config().GetInt("chainnode_mempoolMinSize", 3)
	pollSec, _ := gocore.Config().GetInt("chainnode_mempoolPollSeconds", 5)
	s.MempoolPollEvery = time.Duration(pollSec) * time.Second

	s.GenesisHost, _ = gocore.Config().Get("chainnode_genesisHost", "127.0.0.1")
	s.GenesisPort, _ = gocore.Config().GetInt("chainnode_genesisPort", 8000)

	s.BootstrapMinPeers, _ = gocore.Config().GetInt("chainnode_bootstrapMinPeers", 3)
	bootstrapPollSec, _ := gocore.Config().GetInt("chainnode_bootstrapPollSeconds", 5)
	s.BootstrapPollEvery = time.Duration(bootstrapPollSec) * time.Second

	s.AccountStoreURL, _ = gocore.Config().Get("chainnode_accountStoreUrl", "sqlitememory:///accounts")
	s.PeerStoreURL, _ = gocore.Config().Get("chainnode_peerStoreUrl", "sqlitememory:///peers")

	s.KeyFile, _ = gocore.Config().Get("chainnode_keyFile", "")

	s.CoinbaseReward = 10.0

	s.SeedPublicKey, _ = gocore.Config().Get("chainnode_seedPublicKey",
		"04d0de0aaeaefad02b8bdc8a01a1b8b11c696bd3d66a2c5f10780d95b7df42645cd85228a6fb29940e858e7e55842ae2bd115d1ed7cc0e82d934e929c97648cb0a")
	s.SeedBalance = 10_000_000.0

	return s
}

// BootstrapAddress is the well-known (host, port) the genesis directory
// listens on, used by nodes whose gossip loop finds no online peers.
func (s *Settings) BootstrapAddress() string {
	return fmt.Sprintf("%s:%d", s.GenesisHost, s.GenesisPort)
}

// ListenAddress is the address this process's own listener binds.
func (s *Settings) ListenAddress() string {
	return fmt.Sprintf("%s:%d", s.ListenHost, s.ListenPort)
}
