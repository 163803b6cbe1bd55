package peerstore

import (
	"context"
	"database/sql"
	"math/rand"
	"net/url"

	"github.com/chainnode-go/chainnode/errs"
	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/chainnode-go/chainnode/util"
)

// SQLStore is the SQL-table option spec.md §6 allows for the peer registry.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(logger ulogger.Logger, storeURL string) (*SQLStore, error) {
	parsed, err := url.Parse(storeURL)
	if err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "parse peer store url", err)
	}

	db, err := util.InitSQLDB(logger, parsed)
	if err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "open peer store", err)
	}

	if _, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS peers (
			ip         TEXT NOT NULL,
			port       INTEGER NOT NULL,
			is_offline INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (ip, port)
		)`); err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "create peers table", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Add(ctx context.Context, addr Addr, maxPeers int) error {
	if maxPeers > 0 {
		n, err := s.Count(ctx)
		if err != nil {
			return err
		}
		if n >= maxPeers {
			return nil
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO peers (ip, port, is_offline) VALUES (?, ?, 0)
		ON CONFLICT(ip, port) DO NOTHING`, addr.IP, addr.Port)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, "add peer", err)
	}
	return nil
}

func (s *SQLStore) setOffline(ctx context.Context, addr Addr, offline bool) error {
	v := 0
	if offline {
		v = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO peers (ip, port, is_offline) VALUES (?, ?, ?)
		ON CONFLICT(ip, port) DO UPDATE SET is_offline = excluded.is_offline`, addr.IP, addr.Port, v)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, "set peer liveness", err)
	}
	return nil
}

func (s *SQLStore) SetOnline(ctx context.Context, addr Addr) error  { return s.setOffline(ctx, addr, false) }
func (s *SQLStore) SetOffline(ctx context.Context, addr Addr) error { return s.setOffline(ctx, addr, true) }

func (s *SQLStore) Remove(ctx context.Context, addr Addr) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM peers WHERE ip = ? AND port = ?`, addr.IP, addr.Port)
	if err != nil {
		return errs.New(errs.ERR_STORAGE, "remove peer", err)
	}
	return nil
}

func (s *SQLStore) GetPeers(ctx context.Context, count int, exclude ...Addr) ([]Addr, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ip, port FROM peers WHERE is_offline = 0`)
	if err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "query peers", err)
	}
	defer rows.Close()

	excluded := make(map[Addr]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}

	var candidates []Addr
	for rows.Next() {
		var a Addr
		if err := rows.Scan(&a.IP, &a.Port); err != nil {
			return nil, errs.New(errs.ERR_STORAGE, "scan peer row", err)
		}
		if !excluded[a] {
			candidates = append(candidates, a)
		}
	}

	rand.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	if count < len(candidates) {
		candidates = candidates[:count]
	}
	return candidates, nil
}

func (s *SQLStore) GetAll(ctx context.Context) ([]PeerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ip, port, is_offline FROM peers`)
	if err != nil {
		return nil, errs.New(errs.ERR_STORAGE, "query all peers", err)
	}
	defer rows.Close()

	var out []PeerRecord
	for rows.Next() {
		var rec PeerRecord
		var offline int
		if err := rows.Scan(&rec.Addr.IP, &rec.Addr.Port, &offline); err != nil {
			return nil, errs.New(errs.ERR_STORAGE, "scan peer row", err)
		}
		rec.IsOffline = offline != 0
		out = append(out, rec)
	}
	return out, nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM peers`).Scan(&n)
	if err != nil {
		return 0, errs.New(errs.ERR_STORAGE, "count peers", err)
	}
	return n, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
