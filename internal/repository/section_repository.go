package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Section groups tasks for a single owner.  The owner is stamped at creation
// and never changes afterwards.
type Section struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// SectionRepo provides owner-scoped access to sections.  Every read and
// mutation filters on (id, owner) jointly so that a section belonging to
// another owner behaves exactly like one that does not exist.
type SectionRepo struct{ DB *sql.DB }

func NewSectionRepo(db *sql.DB) *SectionRepo { return &SectionRepo{DB: db} }

// Create inserts a section for the owner and returns it with its ID set.
func (r *SectionRepo) Create(ctx context.Context, owner, name string) (Section, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sections (name, owner) VALUES (?,?)", name, owner)
	if err != nil {
		return Section{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Section{}, err
	}
	return Section{ID: uint64(id), Name: name, Owner: owner}, nil
}

// GetByIDAndOwner fetches a section filtered by (id, owner).
func (r *SectionRepo) GetByIDAndOwner(ctx context.Context, id uint64, owner string) (Section, error) {
	var s Section
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, owner FROM sections WHERE id=? AND owner=? LIMIT 1",
		id, owner).Scan(&s.ID, &s.Name, &s.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrNotFound
	}
	return s, err
}

// ListByOwner returns the owner's sections with skip/limit pagination.
func (r *SectionRepo) ListByOwner(ctx context.Context, owner string, skip, limit int) ([]Section, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, owner FROM sections WHERE owner=? ORDER BY id LIMIT ? OFFSET ?",
		owner, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Section{}
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.Name, &s.Owner); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateName renames an owned section.  A zero affected-row count can mean
// either "no such section for this owner" or "name unchanged", so it is
// disambiguated with a follow-up owned lookup.
func (r *SectionRepo) UpdateName(ctx context.Context, id uint64, owner, name string) (Section, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sections SET name=? WHERE id=? AND owner=?", name, id, owner)
	if err != nil {
		return Section{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndOwner(ctx, id, owner); err != nil {
			return Section{}, err
		}
	}
	return Section{ID: id, Name: name, Owner: owner}, nil
}

// DeleteCascade removes a section and all its tasks in one transaction.
// Either the section and every child task are gone, or nothing is: a failure
// at any point rolls the whole delete back, and concurrent readers never see
// a partial cascade.  Returns ErrNotFound when the owner has no such section.
func (r *SectionRepo) DeleteCascade(ctx context.Context, id uint64, owner string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM tasks WHERE section_id=? AND owner=?", id, owner); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM sections WHERE id=? AND owner=?", id, owner)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound // rollback restores any tasks deleted above
	}
	return tx.Commit()
}
