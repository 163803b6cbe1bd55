package chain

import (
	"context"
	"time"

	"github.com/chainnode-go/chainnode/model"
)

// MinePendingTransactions implements spec.md §4.6: block until at least
// MempoolMinSize pending transactions exist (polling every pollEvery), then
// build a coinbase-prefixed, tx_hash-sorted candidate block, mine it to
// Difficulty, and submit it via AddBlock. Returns the accepted block for
// broadcast, or nil if AddBlock rejected the candidate (spec.md §4.6 step 5).
func (c *Chain) MinePendingTransactions(ctx context.Context, minerPublicKeyHex string, minSize int, pollEvery time.Duration) (*model.Block, error) {
	if err := c.waitForPending(ctx, minSize, pollEvery); err != nil {
		return nil, err
	}

	block := c.buildCandidate(minerPublicKeyHex)
	block.Mine(c.Difficulty)

	accepted, err := c.AddBlock(ctx, block)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, nil
	}
	return block, nil
}

func (c *Chain) waitForPending(ctx context.Context, minSize int, pollEvery time.Duration) error {
	if c.Mempool.Len() >= minSize {
		return nil
	}

	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()

	for c.Mempool.Len() < minSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// buildCandidate implements spec.md §4.6 steps 1-4: a fresh coinbase paying
// minerPublicKeyHex, the pending list copied and sorted ascending by tx_hash
// (spec.md §9: deterministic ordering across independent miners working the
// same mempool), coinbase prepended, and the block header populated against
// the current tip.
func (c *Chain) buildCandidate(minerPublicKeyHex string) *model.Block {
	coinbase := model.Coinbase(minerPublicKeyHex)

	pending := c.Mempool.Pending()
	model.SortByHash(pending)

	txs := make([]*model.Transaction, 0, len(pending)+1)
	txs = append(txs, coinbase)
	txs = append(txs, pending...)

	length, tipHash := c.tipSnapshot()
	return model.New(length, tipHash, txs, 0)
}
