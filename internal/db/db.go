// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/qiaoxue/bridgelab/internal/config"
)

// The adapter instance is process-wide shared state: lazily constructed
// once, reused until process exit. Reset exists for the test harness; the
// production code never tears the adapter down.
var (
	defaultAdapter Adapter
)

// New constructs an adapter for the configured engine without touching
// package state. The embedded engine is the default.
func New(cfg config.Database) (Adapter, error) {
	switch cfg.Type {
	case config.EngineMySQL:
		return NewMySQLAdapter(cfg.MySQL)
	default:
		return NewSQLiteAdapter(cfg.SQLite.Path)
	}
}

// Init constructs the process-wide adapter on first call and returns the
// existing one afterwards.
func Init(cfg config.Database) (Adapter, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if defaultAdapter != nil {
		return defaultAdapter, nil
	}
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defaultAdapter = a
	return a, nil
}

// Default returns the process-wide adapter, or nil before Init.
func Default() Adapter {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	return defaultAdapter
}

// IsInitialized reports whether the process-wide adapter has been set.
func IsInitialized() bool {
	return Default() != nil
}

// Reset closes and clears the process-wide adapter and the schema flag.
// Only the test harness calls this; production state lives until process
// exit.
func Reset() {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if defaultAdapter != nil {
		_ = defaultAdapter.Close()
		defaultAdapter = nil
	}
	schemaReady = false
}
