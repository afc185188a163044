// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the MySQL implementation of the adapter contract.
package db

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	"github.com/qiaoxue/bridgelab/internal/config"
)

const (
	defaultPoolSize        = 10
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = time.Minute
)

// MySQLAdapter is the networked implementation of Adapter. Connections
// come from a bounded pool; a transaction checks out a dedicated
// connection for its whole lifetime and releases it on commit/rollback
// (database/sql transaction semantics).
type MySQLAdapter struct {
	core
}

// NewMySQLAdapter configures the connection pool for the given settings.
// No connection is established here: the driver dials lazily, so an
// unreachable server surfaces as ErrUnavailable on first use rather than
// killing startup. This keeps the fallback login path usable when the
// database is down.
//
// Pool exhaustion waits for a free connection instead of failing fast,
// matching a queue limit of zero (unbounded waiting).
func NewMySQLAdapter(cfg config.MySQL) (*MySQLAdapter, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, MapDBError(err)
	}

	limit := cfg.ConnectionLimit
	if limit <= 0 {
		limit = defaultPoolSize
	}
	sqlDB.SetMaxOpenConns(limit)
	sqlDB.SetMaxIdleConns(limit)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	dbLogf("db: configured mysql pool for %s (max open=%d)", cfg.Addr(), limit)
	return &MySQLAdapter{core{
		kind:  "mysql",
		sqlDB: sqlDB,
		bun:   bun.NewDB(sqlDB, mysqldialect.New()),
	}}, nil
}
