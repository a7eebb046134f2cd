package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Task belongs to exactly one section and carries the same owner as that
// section.  CompletedAt is set when the task transitions to completed and
// cleared when it is reopened.
type Task struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Owner       string     `json:"owner"`
	SectionID   uint64     `json:"section_id"`
}

// TaskUpdate carries a partial update.  Nil fields were not supplied by the
// client and leave the stored value untouched; non-nil fields apply even
// when they hold a zero value, so completed=false and description="" are
// honored instead of being skipped.
type TaskUpdate struct {
	Name        *string
	Description *string
	Completed   *bool
	CompletedAt *time.Time
}

// TaskRepo provides owner-scoped access to tasks.  Like SectionRepo, every
// lookup filters by owner jointly with the ids.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

// Create inserts a task under the owner's section.  The section check and
// the insert run as one statement: INSERT..SELECT matches zero rows when the
// section is absent or foreign, so no task can be created against someone
// else's section even under concurrent deletes.
func (r *TaskRepo) Create(ctx context.Context, sectionID uint64, owner, name, description string) (Task, error) {
	createdAt := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO tasks (name, description, completed, created_at, owner, section_id)
		 SELECT ?, ?, FALSE, ?, ?, id FROM sections WHERE id=? AND owner=?`,
		name, description, createdAt, owner, sectionID, owner)
	if err != nil {
		return Task{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Task{}, ErrNotFound
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:        uint64(id),
		Name:      name, Description: description,
		CreatedAt: createdAt,
		Owner:     owner, SectionID: sectionID,
	}, nil
}

// GetByIDAndOwner fetches a task filtered by (section, id, owner).
func (r *TaskRepo) GetByIDAndOwner(ctx context.Context, sectionID, taskID uint64, owner string) (Task, error) {
	return scanTask(r.DB.QueryRowContext(ctx,
		`SELECT id, name, description, completed, created_at, completed_at, owner, section_id
		 FROM tasks WHERE id=? AND section_id=? AND owner=? LIMIT 1`,
		taskID, sectionID, owner))
}

// ListBySection returns the owner's tasks in a section with pagination.  A
// foreign or absent section simply yields an empty list.
func (r *TaskRepo) ListBySection(ctx context.Context, sectionID uint64, owner string, skip, limit int) ([]Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, description, completed, created_at, completed_at, owner, section_id
		 FROM tasks WHERE section_id=? AND owner=? ORDER BY id LIMIT ? OFFSET ?`,
		sectionID, owner, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update applies a partial update inside a transaction: the current row is
// read under lock, supplied fields are merged, and the result is written
// back.  The second return value reports whether this update transitioned
// the task to completed.
//
// completed_at policy: a false->true transition stamps server time unless
// the client supplied an explicit completed_at; reopening a task clears it.
func (r *TaskRepo) Update(ctx context.Context, sectionID, taskID uint64, owner string, upd TaskUpdate) (Task, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, false, err
	}
	defer tx.Rollback()

	t, err := scanTask(tx.QueryRowContext(ctx,
		`SELECT id, name, description, completed, created_at, completed_at, owner, section_id
		 FROM tasks WHERE id=? AND section_id=? AND owner=? LIMIT 1 FOR UPDATE`,
		taskID, sectionID, owner))
	if err != nil {
		return Task{}, false, err
	}

	completedNow := applyTaskUpdate(&t, upd)

	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET name=?, description=?, completed=?, completed_at=? WHERE id=?",
		t.Name, t.Description, t.Completed, t.CompletedAt, t.ID); err != nil {
		return Task{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Task{}, false, err
	}
	return t, completedNow, nil
}

// applyTaskUpdate merges the supplied fields of upd into t and reports
// whether the merge transitioned the task to completed.  Nil fields are
// untouched; present fields apply even when falsy.  A false->true completed
// transition stamps completed_at with server time unless the client sent an
// explicit value, and reopening always clears it.
func applyTaskUpdate(t *Task, upd TaskUpdate) (completedNow bool) {
	wasCompleted := t.Completed
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	switch {
	case !t.Completed:
		t.CompletedAt = nil
	case upd.CompletedAt != nil:
		t.CompletedAt = upd.CompletedAt
	case t.CompletedAt == nil:
		now := time.Now().UTC()
		t.CompletedAt = &now
	}
	return t.Completed && !wasCompleted
}

// Delete removes an owned task.
func (r *TaskRepo) Delete(ctx context.Context, sectionID, taskID uint64, owner string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM tasks WHERE id=? AND section_id=? AND owner=?",
		taskID, sectionID, owner)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanTask(row rowScanner) (Task, error) {
	var (
		t           Task
		completedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Completed,
		&t.CreatedAt, &completedAt, &t.Owner, &t.SectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return t, nil
}
