// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the domain types shared across the backend.
package model

import (
	"fmt"
	"time"
)

// Gender is the enumerated gender attribute of a student.
type Gender string

// Role is the enumerated role of a student within their group.
type Role string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"

	// RoleLeader marks the single group representative allowed to log in.
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

// Valid reports whether g is one of the two allowed values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Valid reports whether r is one of the two allowed values.
func (r Role) Valid() bool {
	return r == RoleLeader || r == RoleMember
}

// Student is the sole persisted entity: one enrolled participant.
// GroupPassword is stored in plaintext (a known defect of the system,
// kept for behavioral fidelity) and never serialized to JSON.
type Student struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Grade         string    `json:"grade"`
	StudentID     string    `json:"studentId"`
	Gender        Gender    `json:"gender"`
	Role          Role      `json:"role"`
	GroupName     string    `json:"groupName"`
	GroupPassword string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// String returns the name@group representation.
func (s Student) String() string {
	return fmt.Sprintf("%s@%s", s.Name, s.GroupName)
}

// IsLeader reports whether the student is their group's leader.
func (s Student) IsLeader() bool {
	return s.Role == RoleLeader
}

// CreateStudent carries the fields of a new student record. The validate
// tags are enforced at the HTTP boundary; the repository re-checks the
// enums before any write.
type CreateStudent struct {
	Name          string `json:"name" validate:"required"`
	Grade         string `json:"grade" validate:"required"`
	StudentID     string `json:"studentId" validate:"required"`
	Gender        Gender `json:"gender" validate:"required,oneof=male female"`
	Role          Role   `json:"role" validate:"required,oneof=leader member"`
	GroupName     string `json:"groupName" validate:"required"`
	GroupPassword string `json:"groupPassword" validate:"required"`
}

// UpdateStudent carries a partial update; nil fields are left untouched.
type UpdateStudent struct {
	Name          *string `json:"name"`
	Grade         *string `json:"grade"`
	Gender        *Gender `json:"gender"`
	Role          *Role   `json:"role"`
	GroupName     *string `json:"groupName"`
	GroupPassword *string `json:"groupPassword"`
}

// Empty reports whether the update carries no fields at all.
func (u UpdateStudent) Empty() bool {
	return u.Name == nil && u.Grade == nil && u.Gender == nil &&
		u.Role == nil && u.GroupName == nil && u.GroupPassword == nil
}

// BatchError is one structured per-item failure inside a batch import.
type BatchError struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Reason    string `json:"error"`
}

// BatchResult is the report of a multi-record insert: items either count
// as succeeded or contribute a structured failure reason. A validation
// failure never aborts the batch.
type BatchResult struct {
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Errors  []BatchError `json:"errors"`
}

// Stats aggregates the student table for dashboards and diagnostics.
type Stats struct {
	Total   int `json:"total"`
	Leaders int `json:"leaders"`
	Members int `json:"members"`
	Groups  int `json:"groups"`
}
