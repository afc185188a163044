// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package student

import (
	"context"
	"errors"
	"testing"

	"github.com/qiaoxue/bridgelab/internal/config"
	"github.com/qiaoxue/bridgelab/internal/db"
	"github.com/qiaoxue/bridgelab/internal/model"
)

func TestFixedLeaderLoginWinsOverStorage(t *testing.T) {
	repo := newTestRepo(t, "auth_fixed")
	auth := NewAuthenticator(repo)

	// No rows in the database; the compiled-in roster must answer.
	leader, err := auth.VerifyLeaderLogin(context.Background(), "邓紫烨", "337", "337")
	if err != nil {
		t.Fatalf("VerifyLeaderLogin: %v", err)
	}
	if leader.StudentID != "0307" {
		t.Errorf("studentId = %q, want 0307", leader.StudentID)
	}
	if leader.GroupPassword != "" {
		t.Error("password not stripped from login result")
	}
}

func TestFixedLeaderLoginSurvivesStorageOutage(t *testing.T) {
	// An unreachable MySQL server: the adapter constructs fine (lazy
	// dial) and every query fails.
	a, err := db.NewMySQLAdapter(config.MySQL{
		Host: "127.0.0.1", Port: 1, User: "root", Database: "students_db",
	})
	if err != nil {
		t.Fatalf("NewMySQLAdapter: %v", err)
	}
	t.Cleanup(func() {
		_ = a.Close()
		db.Reset()
	})
	db.Reset()
	auth := NewAuthenticator(NewRepository(a))

	leader, err := auth.VerifyLeaderLogin(context.Background(), "陈熙", "爱日晖", "爱日晖")
	if err != nil {
		t.Fatalf("fixed leader rejected while storage is down: %v", err)
	}
	if leader.Name != "陈熙" {
		t.Errorf("name = %q, want 陈熙", leader.Name)
	}

	// A non-roster login against dead storage fails uniformly.
	_, err = auth.VerifyLeaderLogin(context.Background(), "王芳", "铁桥组", "pw1")
	if !errors.Is(err, ErrLoginFailed) {
		t.Errorf("err = %v, want ErrLoginFailed", err)
	}
}

func TestDatabaseLeaderLogin(t *testing.T) {
	repo := newTestRepo(t, "auth_db")
	auth := NewAuthenticator(repo)
	ctx := context.Background()

	if _, err := repo.Add(ctx, create("王芳", "0501", model.RoleLeader, "铁桥组", "pw1")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	leader, err := auth.VerifyLeaderLogin(ctx, "王芳", "铁桥组", "pw1")
	if err != nil {
		t.Fatalf("VerifyLeaderLogin: %v", err)
	}
	if leader.StudentID != "0501" {
		t.Errorf("studentId = %q, want 0501", leader.StudentID)
	}
	if leader.GroupPassword != "" {
		t.Error("password not stripped from login result")
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	repo := newTestRepo(t, "auth_uniform")
	auth := NewAuthenticator(repo)
	ctx := context.Background()

	if _, err := repo.Add(ctx, create("王芳", "0501", model.RoleLeader, "铁桥组", "pw1")); err != nil {
		t.Fatalf("Add leader: %v", err)
	}
	if _, err := repo.Add(ctx, create("李雷", "0502", model.RoleMember, "铁桥组", "pw1")); err != nil {
		t.Fatalf("Add member: %v", err)
	}

	cases := []struct {
		name, group, password string
	}{
		{"王芳", "铁桥组", "wrong"},   // wrong password
		{"王芳", "木桥组", "pw1"},     // wrong group
		{"不存在", "铁桥组", "pw1"},    // unknown name
		{"李雷", "铁桥组", "pw1"},     // member, correct credentials
	}
	for _, c := range cases {
		_, err := auth.VerifyLeaderLogin(ctx, c.name, c.group, c.password)
		if !errors.Is(err, ErrLoginFailed) {
			t.Errorf("login(%s, %s): err = %v, want ErrLoginFailed", c.name, c.group, err)
		}
	}
}

func TestReasonCoversInvariants(t *testing.T) {
	for _, err := range []error{
		ErrStudentIDExists, ErrGroupHasLeader, ErrPasswordMismatch,
		ErrInvalidGender, ErrInvalidRole, ErrLoginFailed,
	} {
		if Reason(err) == "" {
			t.Errorf("Reason(%v) is empty", err)
		}
	}
}
