// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package student implements the student/group repository and the leader
// authentication chain on top of the database adapter. The repository is
// the sole writer of the students table and owns the group invariants:
// unique student ids, one leader per group, and a consistent group
// password across all members of a group.
package student

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/qiaoxue/bridgelab/internal/db"
	"github.com/qiaoxue/bridgelab/internal/model"
)

// Invariant violations. They are recovered at the repository boundary and
// turned into structured results for batches, or mapped to a user message
// at the request boundary for single operations.
var (
	ErrStudentIDExists  = errors.New("student id already exists")
	ErrGroupHasLeader   = errors.New("group already has a leader")
	ErrPasswordMismatch = errors.New("group password inconsistent")
	ErrInvalidGender    = errors.New("invalid gender")
	ErrInvalidRole      = errors.New("invalid role")
)

// studentModel maps the students table for bun queries.
type studentModel struct {
	bun.BaseModel `bun:"table:students"`

	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name"`
	Grade         string    `bun:"grade"`
	StudentID     string    `bun:"student_id"`
	Gender        string    `bun:"gender"`
	Role          string    `bun:"role"`
	GroupName     string    `bun:"group_name"`
	GroupPassword string    `bun:"group_password"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

func (m studentModel) toStudent() model.Student {
	return model.Student{
		ID:            m.ID,
		Name:          m.Name,
		Grade:         m.Grade,
		StudentID:     m.StudentID,
		Gender:        model.Gender(m.Gender),
		Role:          model.Role(m.Role),
		GroupName:     m.GroupName,
		GroupPassword: m.GroupPassword,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// Repository executes all domain-level operations over the students
// table. It never depends on a concrete engine, only on the adapter.
type Repository struct {
	db db.Adapter
}

// NewRepository returns a repository bound to the given adapter.
func NewRepository(a db.Adapter) *Repository {
	return &Repository{db: a}
}

// ensure gates every operation behind the lazy schema bootstrap.
func (r *Repository) ensure(ctx context.Context) error {
	return db.EnsureSchema(ctx, r.db)
}

// checkInvariants applies the four insert preconditions in order:
// duplicate student id, second leader in group, group password mismatch,
// then the enum checks. The read-then-write sequence is not serialized
// against concurrent adds (see the unique index on student_id for the
// backstop on invariant 1).
func (r *Repository) checkInvariants(ctx context.Context, data model.CreateStudent) error {
	var existing studentModel
	found, err := r.db.QueryOne(ctx, &existing,
		"SELECT * FROM students WHERE student_id = ?", data.StudentID)
	if err != nil {
		return err
	}
	if found {
		return ErrStudentIDExists
	}

	if data.Role == model.RoleLeader {
		found, err = r.db.QueryOne(ctx, &existing,
			"SELECT * FROM students WHERE group_name = ? AND role = ?",
			data.GroupName, string(model.RoleLeader))
		if err != nil {
			return err
		}
		if found {
			return ErrGroupHasLeader
		}
	}

	// A new member's password is checked against the first existing
	// member found in the group.
	var groupPassword string
	found, err = r.db.QueryOne(ctx, &groupPassword,
		"SELECT group_password FROM students WHERE group_name = ? LIMIT 1", data.GroupName)
	if err != nil {
		return err
	}
	if found && groupPassword != data.GroupPassword {
		return ErrPasswordMismatch
	}

	if !data.Gender.Valid() {
		return ErrInvalidGender
	}
	if !data.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

const insertStudentSQL = `INSERT INTO students
	(name, grade, student_id, gender, role, group_name, group_password, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *Repository) insert(ctx context.Context, data model.CreateStudent, now time.Time) (int64, error) {
	res, err := r.db.Execute(ctx, insertStudentSQL,
		data.Name, data.Grade, data.StudentID, string(data.Gender), string(data.Role),
		data.GroupName, data.GroupPassword, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertID, nil
}

// Add validates the invariants and inserts one student, returning the
// persisted row including the generated id.
func (r *Repository) Add(ctx context.Context, data model.CreateStudent) (*model.Student, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	if err := r.checkInvariants(ctx, data); err != nil {
		return nil, err
	}

	id, err := r.insert(ctx, data, time.Now().UTC().Truncate(time.Second))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// isInvariantErr reports whether err is a per-item validation failure
// that a batch records rather than propagates. db.ErrDuplicate counts:
// it is the unique-index backstop firing for invariant 1.
func isInvariantErr(err error) bool {
	return errors.Is(err, ErrStudentIDExists) ||
		errors.Is(err, ErrGroupHasLeader) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrInvalidGender) ||
		errors.Is(err, ErrInvalidRole) ||
		db.IsDuplicate(err)
}

// BatchAdd inserts a list of students inside one transaction. Items are
// checked independently: a validation failure is recorded in the report
// and the batch continues. Only an unexpected engine fault rolls the
// whole batch back.
func (r *Repository) BatchAdd(ctx context.Context, list []model.CreateStudent) (model.BatchResult, error) {
	result := model.BatchResult{Errors: []model.BatchError{}}
	if err := r.ensure(ctx); err != nil {
		return result, err
	}

	if err := r.db.Begin(ctx); err != nil {
		return result, err
	}

	for _, item := range list {
		err := r.checkInvariants(ctx, item)
		if err == nil {
			_, err = r.insert(ctx, item, time.Now().UTC().Truncate(time.Second))
		}
		if err != nil {
			if !isInvariantErr(err) {
				_ = r.db.Rollback()
				return result, err
			}
			result.Failed++
			result.Errors = append(result.Errors, model.BatchError{
				StudentID: item.StudentID,
				Name:      item.Name,
				Reason:    Reason(err),
			})
			continue
		}
		result.Success++
	}

	if err := r.db.Commit(); err != nil {
		return result, err
	}
	return result, nil
}

// GetByID returns the student with the given surrogate key, or nil when
// absent. Absence is a normal result, never an error.
func (r *Repository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	var m studentModel
	err := r.db.DB().NewSelect().Model(&m).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, db.MapDBError(err)
	}
	s := m.toStudent()
	return &s, nil
}

// GetByStudentID returns the student with the given business key, or nil.
func (r *Repository) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	var m studentModel
	found, err := r.db.QueryOne(ctx, &m,
		"SELECT * FROM students WHERE student_id = ?", studentID)
	if err != nil || !found {
		return nil, err
	}
	s := m.toStudent()
	return &s, nil
}

// findLeader fetches a group's leader row by name for authentication.
func (r *Repository) findLeader(ctx context.Context, name, groupName string) (*model.Student, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	var m studentModel
	err := r.db.DB().NewSelect().Model(&m).
		Where("name = ?", name).
		Where("group_name = ?", groupName).
		Where("role = ?", string(model.RoleLeader)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, db.MapDBError(err)
	}
	s := m.toStudent()
	return &s, nil
}

// leaderFirst orders rows leader-before-member without relying on the
// enum's collation order.
const leaderFirst = "CASE role WHEN 'leader' THEN 0 ELSE 1 END"

// GetGroupMembers returns all rows of a group, leader first, then by
// name ascending.
func (r *Repository) GetGroupMembers(ctx context.Context, groupName string) ([]model.Student, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	var rows []studentModel
	err := r.db.QueryAll(ctx, &rows,
		"SELECT * FROM students WHERE group_name = ? ORDER BY "+leaderFirst+", name ASC", groupName)
	if err != nil {
		return nil, err
	}
	return toStudents(rows), nil
}

// GetAll returns every student ordered by group, role (leader first) and
// name.
func (r *Repository) GetAll(ctx context.Context) ([]model.Student, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	var rows []studentModel
	err := r.db.QueryAll(ctx, &rows,
		"SELECT * FROM students ORDER BY group_name, "+leaderFirst+", name ASC")
	if err != nil {
		return nil, err
	}
	return toStudents(rows), nil
}

func toStudents(rows []studentModel) []model.Student {
	out := make([]model.Student, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toStudent())
	}
	return out
}

// Update applies only the supplied fields and always refreshes
// updated_at. An empty update is a plain read-back.
func (r *Repository) Update(ctx context.Context, id int64, data model.UpdateStudent) (*model.Student, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	if data.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if data.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *data.Name)
	}
	if data.Grade != nil {
		sets, args = append(sets, "grade = ?"), append(args, *data.Grade)
	}
	if data.Gender != nil {
		if !data.Gender.Valid() {
			return nil, ErrInvalidGender
		}
		sets, args = append(sets, "gender = ?"), append(args, string(*data.Gender))
	}
	if data.Role != nil {
		if !data.Role.Valid() {
			return nil, ErrInvalidRole
		}
		sets, args = append(sets, "role = ?"), append(args, string(*data.Role))
	}
	if data.GroupName != nil {
		sets, args = append(sets, "group_name = ?"), append(args, *data.GroupName)
	}
	if data.GroupPassword != nil {
		sets, args = append(sets, "group_password = ?"), append(args, *data.GroupPassword)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Truncate(time.Second), id)

	query := "UPDATE students SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.Execute(ctx, query, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete physically removes one student; reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := r.ensure(ctx); err != nil {
		return false, err
	}
	res, err := r.db.Execute(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// BatchDelete removes students by business key, one statement per id,
// and returns the summed affected-row count. This is deliberately not
// wrapped in a transaction: a mid-list fault leaves the earlier deletes
// in place.
func (r *Repository) BatchDelete(ctx context.Context, studentIDs []string) (int64, error) {
	if err := r.ensure(ctx); err != nil {
		return 0, err
	}
	var deleted int64
	for _, sid := range studentIDs {
		res, err := r.db.Execute(ctx, "DELETE FROM students WHERE student_id = ?", sid)
		if err != nil {
			return deleted, err
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}

// Stats aggregates the table: total rows, leader and member counts, and
// the number of distinct groups.
func (r *Repository) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := r.ensure(ctx); err != nil {
		return stats, err
	}
	counts := []struct {
		dest  *int
		query string
	}{
		{&stats.Total, "SELECT COUNT(*) FROM students"},
		{&stats.Leaders, "SELECT COUNT(*) FROM students WHERE role = 'leader'"},
		{&stats.Members, "SELECT COUNT(*) FROM students WHERE role = 'member'"},
		{&stats.Groups, "SELECT COUNT(DISTINCT group_name) FROM students"},
	}
	for _, c := range counts {
		if _, err := r.db.QueryOne(ctx, c.dest, c.query); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
