// Package mempool implements spec.md §4.5's admission control: the set of
// admitted-but-unmined transactions, deduplicated by tx_hash, with per-sender
// balance and nonce sequencing checked against the ledger.
//
// DESIGN.md's Open Question resolution: admission does NOT increment the
// ledger nonce (option (a)). Instead the mempool tracks, per sender, how many
// of that sender's transactions are already pending; the expected next nonce
// for a sender is ledger.GetNonce(sender) + pendingCount(sender). This avoids
// advancing the ledger nonce for a transaction that might never be mined.
package mempool

import (
	"context"
	"sync"

	"github.com/chainnode-go/chainnode/errs"
	"github.com/chainnode-go/chainnode/ledger"
	"github.com/chainnode-go/chainnode/model"
	"github.com/chainnode-go/chainnode/money"
)

// Mempool holds admitted, unmined transactions.
type Mempool struct {
	mu      sync.RWMutex
	byHash  map[string]*model.Transaction
	order   []string // tx_hash insertion order
	ledger  ledger.Store
}

func New(store ledger.Store) *Mempool {
	return &Mempool{
		byHash: make(map[string]*model.Transaction),
		ledger: store,
	}
}

// pendingForSender returns the pending transactions from sender, in no
// particular order (spec.md §3: "per-sender ordering is not maintained in the
// list"). Callers must hold m.mu.
func (m *Mempool) pendingForSender(sender string) []*model.Transaction {
	var out []*model.Transaction
	for _, hash := range m.order {
		tx := m.byHash[hash]
		if tx.Sender == sender {
			out = append(out, tx)
		}
	}
	return out
}

// Add implements spec.md §4.5's add_transaction preconditions, in order:
// shape/signature validity, dedup by tx_hash, sufficient balance across
// pending+new, and the next-expected-nonce check. Coinbase transactions are
// never admitted through this path.
func (m *Mempool) Add(ctx context.Context, tx *model.Transaction) error {
	if tx.IsCoinbase {
		return errs.New(errs.ERR_INVARIANT, "coinbase transactions cannot be admitted to the mempool")
	}

	if !tx.IsValid() {
		return errs.New(errs.ERR_INVALID_SIGNATURE, "transaction failed validation")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byHash[tx.TxHash]; exists {
		return errs.New(errs.ERR_DUPLICATE_TX, "transaction already in mempool")
	}

	balanceMicro, ok, err := m.ledger.GetBalanceMicro(ctx, tx.Sender)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, "look up sender balance", err)
	}
	if !ok {
		return errs.New(errs.ERR_INSUFFICIENT_BALANCE, "sender has no account")
	}

	pending := m.pendingForSender(tx.Sender)
	var pendingMicro int64
	for _, p := range pending {
		pendingMicro += money.ToMicro(p.Amount)
	}
	if balanceMicro < pendingMicro+money.ToMicro(tx.Amount) {
		return errs.New(errs.ERR_INSUFFICIENT_BALANCE, "sender balance cannot cover pending + new amount")
	}

	ledgerNonce, _, err := m.ledger.GetNonce(ctx, tx.Sender)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, "look up sender nonce", err)
	}
	expected := ledgerNonce + uint64(len(pending))
	if tx.Nonce == nil || *tx.Nonce != expected {
		return errs.New(errs.ERR_NONCE_MISMATCH, "transaction nonce does not match expected next nonce")
	}

	m.byHash[tx.TxHash] = tx
	m.order = append(m.order, tx.TxHash)
	return nil
}

// PendingCountForSender returns how many of sender's transactions are
// currently pending, the value callers add to the ledger nonce to compute
// the next nonce a new transaction from sender must carry.
func (m *Mempool) PendingCountForSender(sender string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pendingForSender(sender))
}

// Remove deletes hash from the mempool if present. Used after a block is
// applied to drop every included transaction (spec.md §4.7).
func (m *Mempool) Remove(hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byHash[hash]; !ok {
		return
	}
	delete(m.byHash, hash)
	for i, h := range m.order {
		if h == hash {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Pending returns a snapshot copy of the pending transaction list.
func (m *Mempool) Pending() []*model.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Transaction, len(m.order))
	for i, h := range m.order {
		out[i] = m.byHash[h]
	}
	return out
}

// Len returns the number of pending transactions.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Has reports whether hash is already admitted.
func (m *Mempool) Has(hash string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byHash[hash]
	return ok
}
