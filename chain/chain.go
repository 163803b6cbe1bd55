// Package chain implements spec.md §4.6-§4.8: the Chain container (genesis,
// append-only block list), block application (the account-state transition),
// chain validation, and the block-assembly/mining-loop driver.
//
// Grounded on services/blockassembly/BlockAssembler.go's candidate-construction
// shape and services/miner/miner.go's timer-driven loop, adapted from a UTXO
// subtree model to the account/nonce ledger spec.md §3 describes.
package chain

import (
	"context"
	"sync"

	"github.com/chainnode-go/chainnode/errs"
	"github.com/chainnode-go/chainnode/ledger"
	"github.com/chainnode-go/chainnode/mempool"
	"github.com/chainnode-go/chainnode/model"
	"github.com/chainnode-go/chainnode/ulogger"
)

// Chain is the Node's single replica of the blockchain. It owns the mempool
// (spec.md §3: "Mempool (embedded in Chain)") and mutates the ledger as
// blocks are applied. All exported methods that touch chain+mempool+ledger
// together take mu, the single-writer lock spec.md §5 requires.
type Chain struct {
	mu sync.Mutex

	blocks     []*model.Block
	Mempool    *mempool.Mempool
	Ledger     ledger.Store
	Difficulty int

	logger ulogger.Logger
}

// New constructs a Chain seeded with the genesis block.
func New(store ledger.Store, difficulty int, logger ulogger.Logger) *Chain {
	return &Chain{
		blocks:     []*model.Block{model.Genesis()},
		Mempool:    mempool.New(store),
		Ledger:     store,
		Difficulty: difficulty,
		logger:     logger,
	}
}

// Tip returns the current chain head.
func (c *Chain) Tip() *model.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocks[len(c.blocks)-1]
}

// Len returns the number of blocks, including genesis.
func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blocks)
}

// tipSnapshot returns the chain length and tip hash as one consistent read,
// for block assembly: spec.md §5 requires "current tip hash and chain length
// for block assembly" to be a consistent snapshot, not two separate reads
// that could straddle a concurrent AddBlock.
func (c *Chain) tipSnapshot() (length uint64, tipHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tip := c.blocks[len(c.blocks)-1]
	return uint64(len(c.blocks)), tip.Hash
}

// Blocks returns a snapshot copy of the chain.
func (c *Chain) Blocks() []*model.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*model.Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// AddTransaction admits tx to the mempool under c.mu, so a concurrent AddBlock
// can never interleave its ledger-rewriting apply between the mempool's two
// separate GetBalance/GetNonce reads (spec.md §5: chain+mempool+ledger
// mutations must be serialized under one lock, not just the mempool's own).
func (c *Chain) AddTransaction(ctx context.Context, tx *model.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Mempool.Add(ctx, tx)
}

// AddBlock implements spec.md §4.7: validate the block against the tip,
// atomically apply its transactions to the ledger, drop its transactions
// from the mempool, and append. Returns false (no error) when the block is
// simply invalid or loses a race against another already-appended block —
// that is a rejection, not a fault.
func (c *Chain) AddBlock(ctx context.Context, block *model.Block) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tip := c.blocks[len(c.blocks)-1]
	if !block.IsValid(c.Difficulty, tip) {
		return false, nil
	}

	if err := c.applyTransactions(ctx, block.Transactions); err != nil {
		c.logger.Warnf("block %d rejected: %v", block.Index, err)
		return false, nil
	}

	for _, tx := range block.Transactions {
		c.Mempool.Remove(tx.TxHash)
	}

	c.blocks = append(c.blocks, block)
	return true, nil
}

// IsValid implements spec.md §4.8: for every non-genesis block, its
// previous_hash links to its predecessor and it is individually valid. Does
// not re-apply transactions.
func (c *Chain) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 1; i < len(c.blocks); i++ {
		if c.blocks[i].PreviousHash != c.blocks[i-1].Hash {
			return false
		}
		if !c.blocks[i].IsValid(c.Difficulty, c.blocks[i-1]) {
			return false
		}
	}
	return true
}

func invariantf(msg string) error {
	return errs.New(errs.ERR_INVARIANT, msg)
}
