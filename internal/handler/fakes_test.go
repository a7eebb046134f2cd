package handler

// In-memory store fakes backing the handler tests.  They mirror the
// repository contracts: owner-joint lookups return ErrNotFound for foreign
// rows, section delete cascades to tasks, task updates honor field presence.
// Section and task fakes share one data set so the cascade is observable.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1xev3/edev-backend/internal/repository"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[string]repository.User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]repository.User)}
}

func (f *fakeUserStore) Create(_ context.Context, email, nickname, passwordHash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := f.users[email]; ok {
		return 0, repository.ErrEmailExists
	}
	f.nextID++
	f.users[email] = repository.User{
		ID: f.nextID, Email: email, Nickname: nickname, PasswordHash: passwordHash,
	}
	return f.nextID, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

// fakeTodoData is the shared backing state for the section and task fakes.
type fakeTodoData struct {
	mu       sync.Mutex
	nextID   uint64
	sections map[uint64]repository.Section
	tasks    map[uint64]repository.Task
}

func newFakeTodoData() *fakeTodoData {
	return &fakeTodoData{
		sections: make(map[uint64]repository.Section),
		tasks:    make(map[uint64]repository.Task),
	}
}

type fakeSectionStore struct{ d *fakeTodoData }
type fakeTaskStore struct{ d *fakeTodoData }

func (f *fakeSectionStore) Create(_ context.Context, owner, name string) (repository.Section, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	f.d.nextID++
	s := repository.Section{ID: f.d.nextID, Name: name, Owner: owner}
	f.d.sections[s.ID] = s
	return s, nil
}

func (f *fakeSectionStore) GetByIDAndOwner(_ context.Context, id uint64, owner string) (repository.Section, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	s, ok := f.d.sections[id]
	if !ok || s.Owner != owner {
		return repository.Section{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSectionStore) ListByOwner(_ context.Context, owner string, skip, limit int) ([]repository.Section, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	all := []repository.Section{}
	for _, s := range f.d.sections {
		if s.Owner == owner {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, skip, limit), nil
}

func (f *fakeSectionStore) UpdateName(_ context.Context, id uint64, owner, name string) (repository.Section, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	s, ok := f.d.sections[id]
	if !ok || s.Owner != owner {
		return repository.Section{}, repository.ErrNotFound
	}
	s.Name = name
	f.d.sections[id] = s
	return s, nil
}

func (f *fakeSectionStore) DeleteCascade(_ context.Context, id uint64, owner string) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	s, ok := f.d.sections[id]
	if !ok || s.Owner != owner {
		return repository.ErrNotFound
	}
	delete(f.d.sections, id)
	for tid, t := range f.d.tasks {
		if t.SectionID == id {
			delete(f.d.tasks, tid)
		}
	}
	return nil
}

func (f *fakeTaskStore) Create(_ context.Context, sectionID uint64, owner, name, description string) (repository.Task, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	s, ok := f.d.sections[sectionID]
	if !ok || s.Owner != owner {
		return repository.Task{}, repository.ErrNotFound
	}
	f.d.nextID++
	t := repository.Task{
		ID: f.d.nextID, Name: name, Description: description,
		CreatedAt: time.Now().UTC(), Owner: owner, SectionID: sectionID,
	}
	f.d.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTaskStore) GetByIDAndOwner(_ context.Context, sectionID, taskID uint64, owner string) (repository.Task, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	t, ok := f.d.tasks[taskID]
	if !ok || t.SectionID != sectionID || t.Owner != owner {
		return repository.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTaskStore) ListBySection(_ context.Context, sectionID uint64, owner string, skip, limit int) ([]repository.Task, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	all := []repository.Task{}
	for _, t := range f.d.tasks {
		if t.SectionID == sectionID && t.Owner == owner {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, skip, limit), nil
}

func (f *fakeTaskStore) Update(_ context.Context, sectionID, taskID uint64, owner string, upd repository.TaskUpdate) (repository.Task, bool, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	t, ok := f.d.tasks[taskID]
	if !ok || t.SectionID != sectionID || t.Owner != owner {
		return repository.Task{}, false, repository.ErrNotFound
	}
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
	f.d.tasks[taskID] = t
	return t, t.Completed && !wasCompleted, nil
}

func (f *fakeTaskStore) Delete(_ context.Context, sectionID, taskID uint64, owner string) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	t, ok := f.d.tasks[taskID]
	if !ok || t.SectionID != sectionID || t.Owner != owner {
		return repository.ErrNotFound
	}
	delete(f.d.tasks, taskID)
	return nil
}

func page[T any](all []T, skip, limit int) []T {
	if skip >= len(all) {
		return []T{}
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}
