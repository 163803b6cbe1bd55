// Package peerstore implements spec.md §4.9's PeerRegistry: a persistent
// mapping from (ip, port) to a liveness flag, same interface/impl split as
// package ledger.
package peerstore

import (
	"context"
	"fmt"
)

// Addr is a peer endpoint, unique by (IP, Port).
type Addr struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

func (a Addr) String() string { return fmt.Sprintf("%s:%d", a.IP, a.Port) }

// Store is the PeerRegistry contract.
type Store interface {
	// Add inserts addr as online if absent. When maxPeers > 0 and the
	// registry already holds at least that many entries, Add is a no-op
	// (spec.md §4.9).
	Add(ctx context.Context, addr Addr, maxPeers int) error

	SetOnline(ctx context.Context, addr Addr) error
	SetOffline(ctx context.Context, addr Addr) error
	Remove(ctx context.Context, addr Addr) error

	// GetPeers returns up to count online peers excluding exclude, chosen
	// uniformly at random.
	GetPeers(ctx context.Context, count int, exclude ...Addr) ([]Addr, error)

	// GetAll returns every registered peer, online or not.
	GetAll(ctx context.Context) ([]PeerRecord, error)

	Count(ctx context.Context) (int, error)
}

// PeerRecord is a peer endpoint plus its recorded liveness.
type PeerRecord struct {
	Addr      Addr
	IsOffline bool
}
