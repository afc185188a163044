// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the SQLite implementation of the adapter contract.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteAdapter is the embedded file-backed implementation of Adapter.
// The underlying handle is process-wide shared state: constructed once,
// reused for the process lifetime.
type SQLiteAdapter struct {
	core
}

// NewSQLiteAdapter opens (or creates) the database file at path. The
// parent directory is created when missing. Opening is lazy: an
// unreachable or read-only location surfaces as ErrUnavailable on first
// use, not here.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	dsn := sqliteDSN(path)
	if !isMemoryDSN(dsn) {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, MapDBError(err)
	}

	// In-memory databases are per-connection; force a single connection
	// so schema changes stay visible. Tests rely on this.
	if isMemoryDSN(dsn) {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	dbLogf("db: opened sqlite at %s", path)
	return &SQLiteAdapter{core{
		kind:  "sqlite",
		sqlDB: sqlDB,
		bun:   bun.NewDB(sqlDB, sqlitedialect.New()),
	}}, nil
}

// sqliteDSN normalizes a plain file path into a modernc DSN with foreign
// keys enabled. DSNs the caller already shaped (file: URIs, :memory:)
// pass through untouched.
func sqliteDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=foreign_keys(1)"
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
