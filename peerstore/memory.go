package peerstore

import (
	"context"
	"math/rand"
	"sync"
)

// MemoryStore is an in-process PeerRegistry, safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	peers map[Addr]*PeerRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{peers: make(map[Addr]*PeerRecord)}
}

func (s *MemoryStore) Add(_ context.Context, addr Addr, maxPeers int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.peers[addr]; ok {
		return nil
	}
	if maxPeers > 0 && len(s.peers) >= maxPeers {
		return nil
	}
	s.peers[addr] = &PeerRecord{Addr: addr}
	return nil
}

func (s *MemoryStore) SetOnline(_ context.Context, addr Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.peers[addr]; ok {
		p.IsOffline = false
		return nil
	}
	s.peers[addr] = &PeerRecord{Addr: addr}
	return nil
}

func (s *MemoryStore) SetOffline(_ context.Context, addr Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.peers[addr]; ok {
		p.IsOffline = true
		return nil
	}
	s.peers[addr] = &PeerRecord{Addr: addr, IsOffline: true}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, addr Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.peers, addr)
	return nil
}

func (s *MemoryStore) GetPeers(_ context.Context, count int, exclude ...Addr) ([]Addr, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[Addr]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}

	var candidates []Addr
	for addr, p := range s.peers {
		if p.IsOffline || excluded[addr] {
			continue
		}
		candidates = append(candidates, addr)
	}

	rand.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	if count < len(candidates) {
		candidates = candidates[:count]
	}
	return candidates, nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]PeerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PeerRecord, 0, len(s.peers))
	for _, p := range s.peers {
		out = append(out, *p)
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers), nil
}
