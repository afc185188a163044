// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"sync"
)

// sqliteSchema creates the students table and its indexes. Everything is
// IF NOT EXISTS so a racing first request merely repeats harmless work.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS students (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	grade TEXT NOT NULL,
	student_id TEXT NOT NULL UNIQUE,
	gender TEXT NOT NULL CHECK(gender IN ('male', 'female')),
	role TEXT NOT NULL CHECK(role IN ('leader', 'member')),
	group_name TEXT NOT NULL,
	group_password TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_students_student_id ON students(student_id);
CREATE INDEX IF NOT EXISTS idx_students_group_name ON students(group_name);
CREATE INDEX IF NOT EXISTS idx_students_role ON students(role);
CREATE INDEX IF NOT EXISTS idx_students_name_group ON students(name, group_name)
`

// mysqlSchema is the MySQL 5.5-compatible variant: inline indexes, no
// second CURRENT_TIMESTAMP column, timestamps owned by the application.
const mysqlSchema = `
CREATE TABLE IF NOT EXISTS students (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	grade VARCHAR(50) NOT NULL,
	student_id VARCHAR(50) NOT NULL UNIQUE,
	gender ENUM('male', 'female') NOT NULL,
	role ENUM('leader', 'member') NOT NULL,
	group_name VARCHAR(100) NOT NULL,
	group_password VARCHAR(100) NOT NULL,
	created_at DATETIME,
	updated_at DATETIME,
	INDEX idx_students_student_id (student_id),
	INDEX idx_students_group_name (group_name),
	INDEX idx_students_role (role),
	INDEX idx_students_name_group (name, group_name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
`

var (
	schemaMu    sync.Mutex
	schemaReady bool
)

// EnsureSchema lazily creates the students table and indexes on first
// call and is a no-op for the rest of the process lifetime. It is safe to
// call from concurrent in-flight requests: the mutex serializes the first
// attempt, and the DDL itself is idempotent. A failure (read-only file,
// unreachable server) leaves the flag unset so a later call can retry,
// and surfaces as ErrUnavailable.
func EnsureSchema(ctx context.Context, a Adapter) error {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if schemaReady {
		return nil
	}

	schema := sqliteSchema
	if a.Kind() == "mysql" {
		schema = mysqlSchema
	}
	if err := a.Exec(ctx, schema); err != nil {
		if IsUnavailable(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	schemaReady = true
	dbLogf("db: schema ready (%s)", a.Kind())
	return nil
}

// TableExists reports whether the students table is present. Used by the
// diagnostic endpoint; never creates anything.
func TableExists(ctx context.Context, a Adapter) (bool, error) {
	var name string
	query := "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'students'"
	if a.Kind() == "mysql" {
		query = "SHOW TABLES LIKE 'students'"
	}
	return a.QueryOne(ctx, &name, query)
}
