// Package model holds chainnode's wire/hash data types: Transaction and
// Block, grounded on the shape of the teacher's model.Block (header +ordered
// tx list, CalculateHash-style methods) but rebuilt for an account/nonce
// ledger instead of a UTXO set, per spec.md §3.
package model

import (
	"encoding/json"
	"sort"

	"github.com/chainnode-go/chainnode/crypto"
)

// CoinbaseSender is the reserved sender literal for reward transactions.
const CoinbaseSender = "COINBASE"

// CoinbaseAmount is the fixed block reward, spec.md §3/§6: exactly 10.0.
const CoinbaseAmount = 10.0

// Transaction is a signed value-transfer record, spec.md §3.
type Transaction struct {
	Sender     string   `json:"sender"`
	Receiver   string   `json:"receiver"`
	Amount     float64  `json:"amount"`
	Nonce      *uint64  `json:"nonce,omitempty"`
	IsCoinbase bool     `json:"is_coinbase"`
	Signature  string   `json:"signature,omitempty"`
	TxHash     string   `json:"tx_hash"`
}

// New builds an unsigned transaction with tx_hash populated (spec.md §4.2).
func New(sender, receiver string, amount float64, nonce uint64) *Transaction {
	t := &Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
		Nonce:    &nonce,
	}
	t.TxHash = t.calculateHash()
	return t
}

// Coinbase builds the single reward transaction for a mined block.
func Coinbase(receiver string) *Transaction {
	t := &Transaction{
		Sender:     CoinbaseSender,
		Receiver:   receiver,
		Amount:     CoinbaseAmount,
		IsCoinbase: true,
	}
	t.TxHash = t.calculateHash()
	return t
}

// preimage is the canonical pre-image spec.md §4.1 defines: sorted-key JSON of
// {is_coinbase, sender, receiver, amount, nonce}, nonce omitted for coinbase.
// encoding/json marshals map[string]any with lexicographically sorted keys and
// shortest-round-trip float formatting by default, which is exactly the
// canonical encoding spec.md requires — no third-party canonical-JSON encoder
// is needed (see DESIGN.md).
func (t *Transaction) preimage() []byte {
	fields := map[string]interface{}{
		"is_coinbase": t.IsCoinbase,
		"sender":      t.Sender,
		"receiver":    t.Receiver,
		"amount":      t.Amount,
	}
	if !t.IsCoinbase && t.Nonce != nil {
		fields["nonce"] = *t.Nonce
	}

	b, _ := json.Marshal(fields)
	return b
}

func (t *Transaction) calculateHash() string {
	return crypto.Sha256Hex(t.preimage())
}

// Sign sets Signature to a deterministic ECDSA signature over TxHash. No-op
// for coinbase transactions (spec.md §4.2).
func (t *Transaction) Sign(key *crypto.PrivateKey) {
	if t.IsCoinbase {
		return
	}
	t.Signature = key.SignHex(t.TxHash)
}

// IsValid implements spec.md §4.2's is_valid: coinbase transactions require
// amount == 10.0; others require a signature verifying against sender, and a
// tx_hash that matches the recomputed canonical hash.
func (t *Transaction) IsValid() bool {
	if t.TxHash != t.calculateHash() {
		return false
	}

	if t.IsCoinbase {
		return t.Sender == CoinbaseSender && t.Amount == CoinbaseAmount
	}

	if t.Sender == "" || t.Signature == "" || t.Nonce == nil {
		return false
	}

	return crypto.Verify(t.Sender, t.TxHash, t.Signature)
}

// SortByHash sorts txs ascending by tx_hash, the deterministic ordering
// spec.md §4.6/§9 requires before block inclusion.
func SortByHash(txs []*Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].TxHash < txs[j].TxHash
	})
}
