package chain

import (
	"context"
	"sort"

	"github.com/chainnode-go/chainnode/errs"
	"github.com/chainnode-go/chainnode/model"
	"github.com/chainnode-go/chainnode/money"
)

// applyTransactions implements spec.md §4.7's apply_transactions: partition
// into per-sender groups plus the single coinbase, validate every group
// against the ledger's current state, then commit atomically. Callers must
// hold c.mu.
//
// Per DESIGN.md's Open Question resolution, admission never incremented the
// ledger nonce, so here the expected starting nonce for a sender group is
// simply the ledger's current nonce for that sender (not "current nonce minus
// group length" — that subtraction only made sense under the alternative
// resolution where admission pre-increments).
func (c *Chain) applyTransactions(ctx context.Context, txs []*model.Transaction) error {
	var coinbases []*model.Transaction
	bySender := make(map[string][]*model.Transaction)

	for _, tx := range txs {
		if tx.IsCoinbase {
			coinbases = append(coinbases, tx)
			continue
		}
		bySender[tx.Sender] = append(bySender[tx.Sender], tx)
	}

	// Strict reading of spec.md §9's Open Question: a block whose coinbase
	// count isn't exactly 1 is a hard validation failure, not a warning.
	if len(coinbases) != 1 {
		return invariantf("block does not contain exactly one coinbase transaction")
	}

	type delta struct {
		newBalance int64
		newNonce   uint64
	}
	staged := make(map[string]*delta)

	stagedBalance := func(pk string) (int64, error) {
		if d, ok := staged[pk]; ok {
			return d.newBalance, nil
		}
		micro, _, err := c.Ledger.GetBalanceMicro(ctx, pk)
		if err != nil {
			return 0, errs.New(errs.ERR_STORAGE, "read balance during apply", err)
		}
		return micro, nil
	}

	for sender, group := range bySender {
		// A malformed tx with Nonce == nil sorts first and is then rejected by
		// the nonce-sequencing check below; IsValid() already excludes this
		// case for properly-signed transactions, but the comparator itself
		// must never dereference a nil Nonce.
		sort.Slice(group, func(i, j int) bool {
			if group[i].Nonce == nil || group[j].Nonce == nil {
				return group[j].Nonce != nil
			}
			return *group[i].Nonce < *group[j].Nonce
		})

		expected, _, err := c.Ledger.GetNonce(ctx, sender)
		if err != nil {
			return errs.New(errs.ERR_STORAGE, "read nonce during apply", err)
		}

		var totalMicro int64
		for _, tx := range group {
			if tx.Nonce == nil || *tx.Nonce != expected {
				return errs.New(errs.ERR_NONCE_MISMATCH, "block transaction nonce out of sequence")
			}
			expected++
			totalMicro += money.ToMicro(tx.Amount)
		}

		senderBalance, err := stagedBalance(sender)
		if err != nil {
			return err
		}
		if totalMicro > senderBalance {
			return errs.New(errs.ERR_INSUFFICIENT_BALANCE, "sender balance insufficient for block transactions")
		}

		staged[sender] = &delta{newBalance: senderBalance - totalMicro, newNonce: expected}

		for _, tx := range group {
			receiverBalance, err := stagedBalance(tx.Receiver)
			if err != nil {
				return err
			}
			creditMicro := money.ToMicro(tx.Amount)
			d, ok := staged[tx.Receiver]
			if !ok {
				d = &delta{newBalance: receiverBalance}
				staged[tx.Receiver] = d
			}
			d.newBalance = receiverBalance + creditMicro
		}
	}

	coinbase := coinbases[0]
	if !coinbase.IsValid() {
		return errs.New(errs.ERR_INVALID_SIGNATURE, "coinbase transaction failed validation")
	}
	receiverBalance, err := stagedBalance(coinbase.Receiver)
	if err != nil {
		return err
	}
	d, ok := staged[coinbase.Receiver]
	if !ok {
		d = &delta{newBalance: receiverBalance}
		staged[coinbase.Receiver] = d
	}
	d.newBalance = receiverBalance + money.ToMicro(model.CoinbaseAmount)

	// Commit: every check above passed, so now (and only now) mutate the
	// ledger. A failure partway here would leave the ledger inconsistent,
	// but every write below targets a distinct key and cannot itself fail
	// for a business reason — only a storage fault, which is logged per
	// spec.md §7 and does not roll back the others.
	for pk, d := range staged {
		if err := c.Ledger.SetBalanceMicro(ctx, pk, d.newBalance); err != nil {
			return errs.New(errs.ERR_STORAGE, "commit balance", err)
		}
	}
	for sender, group := range bySender {
		for range group {
			if err := c.Ledger.IncrementNonce(ctx, sender); err != nil {
				return errs.New(errs.ERR_STORAGE, "commit nonce", err)
			}
		}
	}

	return nil
}
