// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for BridgeLab. It abstracts
// the underlying database (SQLite or MySQL) behind a uniform adapter
// contract so the rest of the application never depends on a concrete
// engine.
package db // import "github.com/qiaoxue/bridgelab/internal/db"

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/uptrace/bun"
)

// Result reports the outcome of a mutating statement. LastInsertID is only
// meaningful for inserts against an auto-increment key.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Adapter is the uniform capability contract over the storage engines.
// Implementations must be behaviorally indistinguishable to callers; they
// differ only in transaction mechanics and dialect details.
type Adapter interface {
	// Kind identifies the engine ("sqlite" or "mysql").
	Kind() string

	// QueryOne runs a parameterized read expected to return 0 or 1 rows
	// and scans the row into dest. Absence is reported as found=false,
	// never as an error.
	QueryOne(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error)

	// QueryAll runs a parameterized read for 0..N rows into a slice
	// pointer. No match leaves dest an empty slice.
	QueryAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// Execute runs an insert/update/delete.
	Execute(ctx context.Context, query string, args ...interface{}) (Result, error)

	// Exec runs one or more non-parameterized statements (DDL). Multiple
	// semicolon-separated statements are applied in order, stopping at
	// the first failure.
	Exec(ctx context.Context, rawSQL string) error

	// Begin/Commit/Rollback scope a sequence of Execute/QueryOne calls so
	// that either all effects persist or none do. Calls issued between
	// Begin and Commit/Rollback route through the transaction.
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	// DB exposes the active transaction when one is open, otherwise the
	// base handle, for callers using bun query builders directly.
	DB() bun.IDB

	// Close releases all held connections; idempotent.
	Close() error
}

// core implements the Adapter contract on top of a *bun.DB. Both engine
// adapters embed it; they differ only in construction.
type core struct {
	kind  string
	sqlDB *sql.DB
	bun   *bun.DB

	mu sync.Mutex
	tx *bun.Tx
}

func (c *core) Kind() string { return c.kind }

// idb returns the active transaction if one is open, else the base DB.
func (c *core) idb() bun.IDB {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return c.tx
	}
	return c.bun
}

func (c *core) DB() bun.IDB { return c.idb() }

func (c *core) QueryOne(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := c.idb().NewRaw(query, args...).Scan(ctx, dest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, MapDBError(err)
	}
	return true, nil
}

func (c *core) QueryAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := c.idb().NewRaw(query, args...).Scan(ctx, dest); err != nil {
		// Scanning into a slice yields no ErrNoRows; anything here is a
		// real storage fault.
		return MapDBError(err)
	}
	return nil
}

func (c *core) Execute(ctx context.Context, query string, args ...interface{}) (Result, error) {
	res, err := c.idb().ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, MapDBError(err)
	}
	var out Result
	// Not every statement kind reports an insert id; ignore the error and
	// leave the zero value, as callers only read it after inserts.
	out.LastInsertID, _ = res.LastInsertId()
	out.RowsAffected, _ = res.RowsAffected()
	return out, nil
}

func (c *core) Exec(ctx context.Context, rawSQL string) error {
	for _, stmt := range splitStatements(rawSQL) {
		if _, err := c.idb().ExecContext(ctx, stmt); err != nil {
			return MapDBError(err)
		}
	}
	return nil
}

func (c *core) Begin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return ErrTxActive
	}
	tx, err := c.bun.BeginTx(ctx, nil)
	if err != nil {
		return MapDBError(err)
	}
	c.tx = &tx
	return nil
}

func (c *core) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	return MapDBError(err)
}

func (c *core) Rollback() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	return MapDBError(err)
}

func (c *core) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	if c.bun == nil {
		return nil
	}
	err := c.bun.Close()
	c.bun = nil
	c.sqlDB = nil
	return err
}

// splitStatements breaks a raw DDL blob into individual statements. The
// MySQL driver rejects multi-statement Exec by default, so both engines
// apply statements one by one for identical behavior.
func splitStatements(rawSQL string) []string {
	parts := strings.Split(rawSQL, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
