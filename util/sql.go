package util

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/ordishs/gocore"

	_ "modernc.org/sqlite"
)

// SQLEngine identifies which backing engine a store URL selects. Only sqlite
// variants are supported: spec.md §6 only requires "a file-backed embedded KV
// or a SQL table with the same schema", and sqlite (pure Go, via
// modernc.org/sqlite) satisfies both without pulling in a database server.
type SQLEngine string

const (
	Sqlite       SQLEngine = "sqlite"
	SqliteMemory SQLEngine = "sqlitememory"
)

// InitSQLDB opens a *sql.DB for storeUrl, which must have scheme "sqlite" or
// "sqlitememory".
func InitSQLDB(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, error) {
	switch SQLEngine(storeURL.Scheme) {
	case Sqlite, SqliteMemory:
		return initSQLiteDB(logger, storeURL)
	}

	return nil, fmt.Errorf("unknown store scheme: %s", storeURL.Scheme)
}

func initSQLiteDB(logger ulogger.Logger, storeURL *url.URL) (*sql.DB, error) {
	var filename string

	if SQLEngine(storeURL.Scheme) == SqliteMemory {
		filename = fmt.Sprintf("file:%s?mode=memory&cache=shared", randomHex(8))
	} else {
		folder, _ := gocore.Config().Get("dataFolder", "data")
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data folder %s: %w", folder, err)
		}

		dbName := storeURL.Path[1:]
		abs, err := filepath.Abs(path.Join(folder, fmt.Sprintf("%s.db", dbName)))
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for sqlite db: %w", err)
		}

		// Fail fast rather than hide a contention problem behind a large busy_timeout.
		filename = fmt.Sprintf("%s?cache=shared&_pragma=busy_timeout=5000&_pragma=journal_mode=WAL", abs)
	}

	logger.Infof("using sqlite db: %s", filename)

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if _, err = db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not enable foreign key support: %w", err)
	}

	return db, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
