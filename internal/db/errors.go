// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains shared database errors and helpers.
package db

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// ErrUnavailable is returned when the storage engine cannot be reached or
// opened. Callers report it as "storage unavailable", never as a generic
// internal error.
var ErrUnavailable = errors.New("storage unavailable")

// ErrTxActive is returned by Begin when the adapter already holds an open
// transaction.
var ErrTxActive = errors.New("transaction already in progress")

// MapDBError inspects low-level driver errors and maps constraint
// violations and connectivity failures to package-level sentinel errors,
// so callers never string-match engine-specific messages. The original
// error text is preserved in the wrap for diagnostics.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case 1044, 1045, 1049: // access denied / unknown database
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// SQLite surfaces constraint and open failures as plain strings.
	le := strings.ToLower(err.Error())
	switch {
	case strings.Contains(le, "unique"), strings.Contains(le, "duplicate"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case strings.Contains(le, "connection refused"),
		strings.Contains(le, "bad connection"),
		strings.Contains(le, "dial tcp"),
		strings.Contains(le, "no such host"),
		strings.Contains(le, "unable to open database"),
		strings.Contains(le, "i/o timeout"):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// IsDuplicate reports whether err is (or wraps) a uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsUnavailable reports whether err is (or wraps) a connectivity fault.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
