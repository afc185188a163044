// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"testing"
)

// resetSchema clears the process-wide bootstrap flag so each test runs
// the DDL against its own database.
func resetSchema() {
	schemaMu.Lock()
	schemaReady = false
	schemaMu.Unlock()
}

func TestEnsureSchemaCreatesTable(t *testing.T) {
	resetSchema()
	a := newTestAdapter(t, "bootstrap_create")
	ctx := context.Background()

	exists, err := TableExists(ctx, a)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if exists {
		t.Fatal("students table present before bootstrap")
	}

	if err := EnsureSchema(ctx, a); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	exists, err = TableExists(ctx, a)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if !exists {
		t.Error("students table missing after bootstrap")
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	resetSchema()
	a := newTestAdapter(t, "bootstrap_idem")
	ctx := context.Background()

	if err := EnsureSchema(ctx, a); err != nil {
		t.Fatalf("first EnsureSchema: %v", err)
	}
	if err := EnsureSchema(ctx, a); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	// The raw DDL must also be re-runnable: simulate a racing first
	// request that missed the flag.
	if err := a.Exec(ctx, sqliteSchema); err != nil {
		t.Errorf("re-running DDL: %v", err)
	}
}

func TestEnsureSchemaRetriesAfterFailure(t *testing.T) {
	resetSchema()
	ctx := context.Background()

	broken := newTestAdapter(t, "bootstrap_broken")
	// Poison the handle so the DDL fails without touching the flag.
	_ = broken.sqlDB.Close()
	if err := EnsureSchema(ctx, broken); err == nil {
		t.Fatal("EnsureSchema on a closed adapter succeeded")
	}

	a := newTestAdapter(t, "bootstrap_retry")
	if err := EnsureSchema(ctx, a); err != nil {
		t.Fatalf("EnsureSchema after failed attempt: %v", err)
	}
	exists, err := TableExists(ctx, a)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if !exists {
		t.Error("students table missing after retry")
	}
}
