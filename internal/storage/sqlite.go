package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// NewSQLiteStorage opens (or creates) a SQLite database. Use ":memory:" for
// a throwaway database.
func NewSQLiteStorage(ctx context.Context, path string, logger *zap.Logger) (*SQLStorage, error) {
	dsn := ":memory:"
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// One connection: writes are serialised and :memory: stays a single database.
	db.SetMaxOpenConns(1)

	return newSQLStorage(ctx, db, DialectSQLite, logger)
}
