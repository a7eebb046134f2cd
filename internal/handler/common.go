package handler // handler implements the HTTP endpoints of both services

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/1xev3/edev-backend/internal/middleware"
	"github.com/1xev3/edev-backend/internal/repository"
)

// maxPageSize caps the limit parameter on every list endpoint, regardless of
// what the client asked for.
const maxPageSize = 100

// Handlers depend on small store interfaces instead of the concrete repos so
// the ownership and pagination contracts can be exercised against in-memory
// fakes.  The repository types satisfy these as-is.

type UserStore interface {
	Create(ctx context.Context, email, nickname, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
}

type GroupStore interface {
	Upsert(ctx context.Context, name string) error
	GetByID(ctx context.Context, id int64) (repository.Group, error)
	List(ctx context.Context, skip, limit int) ([]repository.Group, error)
	UpdateName(ctx context.Context, id int64, name string) (repository.Group, error)
}

type SectionStore interface {
	Create(ctx context.Context, owner, name string) (repository.Section, error)
	GetByIDAndOwner(ctx context.Context, id uint64, owner string) (repository.Section, error)
	ListByOwner(ctx context.Context, owner string, skip, limit int) ([]repository.Section, error)
	UpdateName(ctx context.Context, id uint64, owner, name string) (repository.Section, error)
	DeleteCascade(ctx context.Context, id uint64, owner string) error
}

type TaskStore interface {
	Create(ctx context.Context, sectionID uint64, owner, name, description string) (repository.Task, error)
	GetByIDAndOwner(ctx context.Context, sectionID, taskID uint64, owner string) (repository.Task, error)
	ListBySection(ctx context.Context, sectionID uint64, owner string, skip, limit int) ([]repository.Task, error)
	Update(ctx context.Context, sectionID, taskID uint64, owner string, upd repository.TaskUpdate) (repository.Task, bool, error)
	Delete(ctx context.Context, sectionID, taskID uint64, owner string) error
}

// ownerFrom extracts the authenticated owner email placed in the context by
// the JWT guard.  The guard never lets a request through without it, so a
// missing value means a wiring mistake rather than a client error.
func ownerFrom(c echo.Context) (string, error) {
	if s, ok := c.Get(middleware.OwnerKey).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("no authenticated owner in context")
}

// pagination reads skip/limit query parameters, applying defaults and the
// global cap.  limit=1000 comes back as 100; negative values fall back to
// the defaults.
func pagination(c echo.Context) (skip, limit int) {
	skip, limit = 0, maxPageSize
	if v, err := strconv.Atoi(c.QueryParam("skip")); err == nil && v > 0 {
		skip = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}
