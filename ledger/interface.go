// Package ledger implements spec.md §4.4's AccountLedger: a persistent
// mapping from public-key hex to (nonce, balance-in-micro-units). The
// interface/impl split mirrors the teacher's stores/blockchain.Interface
// pattern — one contract, swappable backing stores.
package ledger

import "context"

// Store is the AccountLedger contract.
type Store interface {
	// GetBalance returns the balance in coin units (micro / 1e6), quantized
	// to 7 decimals, and whether the account exists.
	GetBalance(ctx context.Context, publicKeyHex string) (balance float64, ok bool, err error)

	// GetBalanceMicro returns the raw integer micro-unit balance, used by the
	// state-transition code path where float rounding must not enter at all.
	GetBalanceMicro(ctx context.Context, publicKeyHex string) (micro int64, ok bool, err error)

	// GetNonce returns the account's current nonce.
	GetNonce(ctx context.Context, publicKeyHex string) (nonce uint64, ok bool, err error)

	// UpsertBalance stores round(balanceCoins * 1e6) as the account's
	// integer micro-unit balance, creating the account (nonce 0) if absent.
	UpsertBalance(ctx context.Context, publicKeyHex string, balanceCoins float64) error

	// SetBalanceMicro is UpsertBalance's integer-native counterpart, used by
	// block application's atomic commit (spec.md §4.7).
	SetBalanceMicro(ctx context.Context, publicKeyHex string, micro int64) error

	// IncrementNonce atomically advances an account's nonce by one, creating
	// the account (balance 0) if absent.
	IncrementNonce(ctx context.Context, publicKeyHex string) error

	// SetNonce sets an account's nonce to an explicit value, creating the
	// account (balance 0) if absent. Admission never advances the ledger
	// nonce (DESIGN.md), so there is no admission-time increment to undo, and
	// block application advances nonces with IncrementNonce, not SetNonce.
	SetNonce(ctx context.Context, publicKeyHex string, nonce uint64) error
}

// SeedAccount is a hard-coded public key pre-seeded with a genesis-large
// balance at ledger initialization (spec.md §4.4).
type SeedAccount struct {
	PublicKeyHex string
	BalanceCoins float64
}
