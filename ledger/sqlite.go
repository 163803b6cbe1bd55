package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/chainnode-go/chainnode/errs"
	"github.com/chainnode-go/chainnode/money"
	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/chainnode-go/chainnode/util"
)

// SQLStore is the SQL-table option spec.md §6 allows for the account store.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens storeURL (scheme "sqlite" or "sqlitememory") and ensures
// the account table exists, seeding it per spec.md §4.4.
func NewSQLStore(logger ulogger.Logger, storeURL string, seed ...SeedAccount) (*SQLStore, error) {
	parsed, err := url.Parse(storeURL)
	if err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "parse account store url", err)
	}

	db, err := util.InitSQLDB(logger, parsed)
	if err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "open account store", err)
	}

	if _, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			public_key TEXT PRIMARY KEY,
			nonce      INTEGER NOT NULL DEFAULT 0,
			balance    INTEGER NOT NULL DEFAULT 0
		)`); err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "create accounts table", err)
	}

	s := &SQLStore{db: db}
	for _, sa := range seed {
		if err := s.SetBalanceMicro(context.Background(), sa.PublicKeyHex, money.ToMicro(sa.BalanceCoins)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *SQLStore) GetBalance(ctx context.Context, pk string) (float64, bool, error) {
	micro, ok, err := s.GetBalanceMicro(ctx, pk)
	if err != nil || !ok {
		return 0, ok, err
	}
	return money.ToCoins(micro), true, nil
}

func (s *SQLStore) GetBalanceMicro(ctx context.Context, pk string) (int64, bool, error) {
	var micro int64
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE public_key = ?`, pk).Scan(&micro)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errs.New(errs.ERR_STORAGE, "get balance", err)
	}
	return micro, true, nil
}

func (s *SQLStore) GetNonce(ctx context.Context, pk string) (uint64, bool, error) {
	var nonce uint64
	err := s.db.QueryRowContext(ctx, `SELECT nonce FROM accounts WHERE public_key = ?`, pk).Scan(&nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errs.New(errs.ERR_STORAGE, "get nonce", err)
	}
	return nonce, true, nil
}

func (s *SQLStore) UpsertBalance(ctx context.Context, pk string, balanceCoins float64) error {
	return s.SetBalanceMicro(ctx, pk, money.ToMicro(balanceCoins))
}

func (s *SQLStore) SetBalanceMicro(ctx context.Context, pk string, micro int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (public_key, nonce, balance) VALUES (?, 0, ?)
		ON CONFLICT(public_key) DO UPDATE SET balance = excluded.balance`, pk, micro)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, fmt.Sprintf("set balance for %s", pk), err)
	}
	return nil
}

func (s *SQLStore) IncrementNonce(ctx context.Context, pk string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (public_key, nonce, balance) VALUES (?, 1, 0)
		ON CONFLICT(public_key) DO UPDATE SET nonce = nonce + 1`, pk)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, fmt.Sprintf("increment nonce for %s", pk), err)
	}
	return nil
}

func (s *SQLStore) SetNonce(ctx context.Context, pk string, nonce uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (public_key, nonce, balance) VALUES (?, ?, 0)
		ON CONFLICT(public_key) DO UPDATE SET nonce = excluded.nonce`, pk, nonce)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, fmt.Sprintf("set nonce for %s", pk), err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
