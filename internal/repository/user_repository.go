package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// User mirrors the 'users' table.  Passwords are stored as bcrypt digests
// only; the plaintext never reaches this layer.
type User struct {
	ID           uint64
	Email        string
	Nickname     string
	PasswordHash string
	GroupID      int64
	IsActive     bool
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  New users land in group 0 and
// start inactive.  A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, nickname, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, nickname, password_hash, group_id, is_active) VALUES (?,?,?,0,FALSE)",
		email, nickname, passwordHash)
	if err != nil {
		// MySQL 1062 = duplicate entry for the unique email key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,nickname,password_hash,group_id,is_active FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.GroupID, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,nickname,password_hash,group_id,is_active FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.GroupID, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
