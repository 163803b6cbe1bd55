package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/chainnode-go/chainnode/crypto"
)

// GenesisPreviousHash is the sentinel previous_hash for the genesis block.
const GenesisPreviousHash = "0"

// GenesisHash is the fixed sentinel hash genesis is constructed with; genesis
// is never re-validated against a predecessor (spec.md §3).
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000000000"

// Block is a batch of transactions linked to its predecessor by hash,
// spec.md §3.
type Block struct {
	Index        uint64         `json:"index"`
	PreviousHash string         `json:"previous_hash"`
	Transactions []*Transaction `json:"transactions"`
	Timestamp    int64          `json:"timestamp"`
	Nonce        uint64         `json:"nonce"`
	Hash         string         `json:"hash"`
}

// New builds a block with Hash populated from the current field values.
// timestamp defaults to time.Now().Unix() when ts <= 0.
func New(index uint64, previousHash string, txs []*Transaction, ts int64) *Block {
	if ts <= 0 {
		ts = time.Now().Unix()
	}
	b := &Block{
		Index:        index,
		PreviousHash: previousHash,
		Transactions: txs,
		Timestamp:    ts,
	}
	b.Hash = b.calculateHash()
	return b
}

// Genesis builds the fixed genesis block: index 0, empty transactions,
// timestamp 0, sentinel hash (spec.md §3).
func Genesis() *Block {
	return &Block{
		Index:        0,
		PreviousHash: GenesisPreviousHash,
		Transactions: []*Transaction{},
		Timestamp:    0,
		Hash:         GenesisHash,
	}
}

// preimage is the canonical pre-image spec.md §4.1 defines: sorted-key JSON of
// {index, previous_hash, transactions:[tx_hash,...], nonce, timestamp}.
func (b *Block) preimage() []byte {
	hashes := make([]string, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = tx.TxHash
	}

	fields := map[string]interface{}{
		"index":         b.Index,
		"previous_hash": b.PreviousHash,
		"transactions":  hashes,
		"nonce":         b.Nonce,
		"timestamp":     b.Timestamp,
	}

	out, _ := json.Marshal(fields)
	return out
}

func (b *Block) calculateHash() string {
	return crypto.Sha256Hex(b.preimage())
}

func leadingZeros(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if len(hash) < difficulty {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == difficulty
}

// Mine increments Nonce and recomputes Hash until Hash has `difficulty`
// leading hex zeros (spec.md §4.3). Single-threaded, runs to completion —
// cancellation is not required by this spec (§5).
func (b *Block) Mine(difficulty int) {
	for {
		b.Hash = b.calculateHash()
		if leadingZeros(b.Hash, difficulty) {
			return
		}
		b.Nonce++
	}
}

// IsValid implements spec.md §4.3's is_valid: previous_hash links to prev,
// Hash meets the difficulty target, Hash matches the recomputed pre-image,
// and every contained transaction is individually valid.
func (b *Block) IsValid(difficulty int, prev *Block) bool {
	if prev == nil || b.PreviousHash != prev.Hash {
		return false
	}
	if !leadingZeros(b.Hash, difficulty) {
		return false
	}
	if b.Hash != b.calculateHash() {
		return false
	}
	for _, tx := range b.Transactions {
		if !tx.IsValid() {
			return false
		}
	}
	return true
}
