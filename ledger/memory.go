package ledger

import (
	"context"
	"sync"

	"github.com/chainnode-go/chainnode/money"
)

type account struct {
	nonce uint64
	micro int64
}

// MemoryStore is the file-backed-embedded-KV option spec.md §6 allows,
// implemented as a process-local map. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

func NewMemoryStore(seed ...SeedAccount) *MemoryStore {
	s := &MemoryStore{accounts: make(map[string]*account)}
	for _, sa := range seed {
		s.accounts[sa.PublicKeyHex] = &account{micro: money.ToMicro(sa.BalanceCoins)}
	}
	return s
}

func (s *MemoryStore) GetBalance(_ context.Context, pk string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[pk]
	if !ok {
		return 0, false, nil
	}
	return money.ToCoins(a.micro), true, nil
}

func (s *MemoryStore) GetBalanceMicro(_ context.Context, pk string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[pk]
	if !ok {
		return 0, false, nil
	}
	return a.micro, true, nil
}

func (s *MemoryStore) GetNonce(_ context.Context, pk string) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[pk]
	if !ok {
		return 0, false, nil
	}
	return a.nonce, true, nil
}

func (s *MemoryStore) UpsertBalance(_ context.Context, pk string, balanceCoins float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.get(pk)
	a.micro = money.ToMicro(balanceCoins)
	return nil
}

func (s *MemoryStore) SetBalanceMicro(_ context.Context, pk string, micro int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.get(pk)
	a.micro = micro
	return nil
}

func (s *MemoryStore) IncrementNonce(_ context.Context, pk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.get(pk)
	a.nonce++
	return nil
}

func (s *MemoryStore) SetNonce(_ context.Context, pk string, nonce uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.get(pk)
	a.nonce = nonce
	return nil
}

// get returns the account for pk, creating it (nonce 0, balance 0) if absent.
// Callers must hold s.mu for writing.
func (s *MemoryStore) get(pk string) *account {
	a, ok := s.accounts[pk]
	if !ok {
		a = &account{}
		s.accounts[pk] = a
	}
	return a
}
