// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package student

import (
	"context"
	"errors"

	"github.com/qiaoxue/bridgelab/internal/i18n"
	"github.com/qiaoxue/bridgelab/internal/logging"
	"github.com/qiaoxue/bridgelab/internal/model"
)

// ErrLoginFailed is the uniform rejection for every unsuccessful login.
// Wrong name, wrong group, wrong password and storage faults all map to
// it so a caller cannot probe which part was wrong.
var ErrLoginFailed = errors.New("login failed")

// Authenticator verifies group-leader logins through a priority chain:
// the compiled-in roster first, then the database. A storage fault is
// logged and treated as "no database match", never surfaced to the
// caller.
type Authenticator struct {
	repo *Repository
}

// NewAuthenticator returns an authenticator backed by repo.
func NewAuthenticator(repo *Repository) *Authenticator {
	return &Authenticator{repo: repo}
}

// VerifyLeaderLogin checks the credentials and returns the matched
// leader with the group password blanked. Passwords are compared in
// plain text; they are shared group phrases, not personal secrets.
func (a *Authenticator) VerifyLeaderLogin(ctx context.Context, name, groupName, password string) (*model.Student, error) {
	if s := lookupFixedLeader(name, groupName, password); s != nil {
		s.GroupPassword = ""
		return s, nil
	}

	s, err := a.repo.findLeader(ctx, name, groupName)
	if err != nil {
		logging.Warnf("auth: leader lookup failed, treating as no match: %v", err)
		return nil, ErrLoginFailed
	}
	if s == nil || s.GroupPassword != password {
		return nil, ErrLoginFailed
	}

	s.GroupPassword = ""
	return s, nil
}

// Reason translates a repository error into the user-facing message for
// batch reports and API responses.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrStudentIDExists):
		return i18n.T("err.student_exists")
	case errors.Is(err, ErrGroupHasLeader):
		return i18n.T("err.group_has_leader")
	case errors.Is(err, ErrPasswordMismatch):
		return i18n.T("err.password_mismatch")
	case errors.Is(err, ErrInvalidGender):
		return i18n.T("err.invalid_gender")
	case errors.Is(err, ErrInvalidRole):
		return i18n.T("err.invalid_role")
	case errors.Is(err, ErrLoginFailed):
		return i18n.T("err.login_failed")
	default:
		return i18n.T("err.add_failed")
	}
}

// IsInvariantViolation reports whether err is one of the group or
// identity invariants a client can fix by changing its input.
func IsInvariantViolation(err error) bool {
	return isInvariantErr(err)
}
