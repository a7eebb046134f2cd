package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Group is a global classification of users.  Groups carry no owner: every
// authenticated caller sees the same set.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GroupRepo struct{ DB *sql.DB }

func NewGroupRepo(db *sql.DB) *GroupRepo { return &GroupRepo{DB: db} }

// Upsert inserts a group by name or leaves an existing one untouched.  The
// seed loader calls this on every startup, so it has to be idempotent.
// Matching runs on the unique name key.
func (r *GroupRepo) Upsert(ctx context.Context, name string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_groups (name) VALUES (?) ON DUPLICATE KEY UPDATE name=VALUES(name)",
		name)
	return err
}

// GetByID fetches a single group.
func (r *GroupRepo) GetByID(ctx context.Context, id int64) (Group, error) {
	var g Group
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM user_groups WHERE id=? LIMIT 1", id).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Group{}, ErrNotFound
	}
	return g, err
}

// List returns groups ordered by id with skip/limit pagination.
func (r *GroupRepo) List(ctx context.Context, skip, limit int) ([]Group, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM user_groups ORDER BY id LIMIT ? OFFSET ?", limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Group{}
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateName renames a group and returns the updated record.  The existence
// check runs first because an UPDATE to the same value reports zero affected
// rows on MySQL, which would look like a missing group.
func (r *GroupRepo) UpdateName(ctx context.Context, id int64, name string) (Group, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return Group{}, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE user_groups SET name=? WHERE id=?", name, id); err != nil {
		return Group{}, err
	}
	return Group{ID: id, Name: name}, nil
}
