// Package memory provides the default in-memory store adapter. State is
// process-lifetime: created at start, discarded at exit.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store"
)

// memStore is a thread-safe in-memory implementation of store.Store. All
// reads hand out copies so callers can never mutate shared state.
type memStore struct {
	mu          sync.RWMutex
	users       map[int64]model.User
	sessions    map[string]model.Session
	dreams      []model.DreamRecord // append-only, insertion order preserved
	nextUserID  int64
	nextDreamID int64
}

// New creates an empty in-memory store.
func New() store.Store {
	return &memStore{
		users:       make(map[int64]model.User),
		sessions:    make(map[string]model.Session),
		nextUserID:  1,
		nextDreamID: 1,
	}
}

func (s *memStore) Users() store.Users       { return &users{s} }
func (s *memStore) Sessions() store.Sessions { return &sessions{s} }
func (s *memStore) Dreams() store.Dreams     { return &dreams{s} }

// HealthPing implements health.HealthPinger; the memory store is always
// reachable while the process lives.
func (s *memStore) HealthPing(ctx context.Context) error { return ctx.Err() }

// --- Users ---

type users struct{ p *memStore }

func (u *users) Create(_ context.Context, m *model.User) (*model.User, error) {
	u.p.mu.Lock()
	defer u.p.mu.Unlock()

	for _, existing := range u.p.users {
		if existing.Email == m.Email {
			return nil, model.ErrDuplicateEmail
		}
	}

	out := *m
	out.ID = u.p.nextUserID
	u.p.nextUserID++
	out.CreatedAt = time.Now().UTC()
	u.p.users[out.ID] = out
	return &out, nil
}

func (u *users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.p.mu.RLock()
	defer u.p.mu.RUnlock()

	for _, m := range u.p.users {
		if m.Email == email {
			out := m
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (u *users) GetByID(_ context.Context, id int64) (*model.User, error) {
	u.p.mu.RLock()
	defer u.p.mu.RUnlock()

	m, ok := u.p.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := m
	return &out, nil
}

// --- Sessions ---

type sessions struct{ p *memStore }

func (se *sessions) Create(_ context.Context, token string) (*model.Session, error) {
	se.p.mu.Lock()
	defer se.p.mu.Unlock()

	if _, exists := se.p.sessions[token]; exists {
		return nil, fmt.Errorf("session token already exists")
	}

	out := model.Session{Token: token, CreatedAt: time.Now().UTC()}
	se.p.sessions[token] = out
	return &out, nil
}

func (se *sessions) Get(_ context.Context, token string) (*model.Session, error) {
	se.p.mu.RLock()
	defer se.p.mu.RUnlock()

	m, ok := se.p.sessions[token]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := m
	if m.UserID != nil {
		uid := *m.UserID
		out.UserID = &uid
	}
	return &out, nil
}

func (se *sessions) AttachUser(_ context.Context, token string, userID int64) error {
	se.p.mu.Lock()
	defer se.p.mu.Unlock()

	m, ok := se.p.sessions[token]
	if !ok {
		return model.ErrNotFound
	}
	if m.UserID != nil && *m.UserID == userID {
		return nil
	}
	m.UserID = &userID
	se.p.sessions[token] = m
	return nil
}

func (se *sessions) RecordUsage(_ context.Context, token string) (int, error) {
	se.p.mu.Lock()
	defer se.p.mu.Unlock()

	m, ok := se.p.sessions[token]
	if !ok {
		return 0, model.ErrNotFound
	}
	var n int
	if m.UserID != nil {
		m.UserUsageCount++
		n = m.UserUsageCount
	} else {
		m.GuestUsageCount++
		n = m.GuestUsageCount
	}
	se.p.sessions[token] = m
	return n, nil
}

func (se *sessions) Delete(_ context.Context, token string) error {
	se.p.mu.Lock()
	defer se.p.mu.Unlock()

	if _, ok := se.p.sessions[token]; !ok {
		return model.ErrNotFound
	}
	delete(se.p.sessions, token)
	return nil
}

// --- Dreams ---

type dreams struct{ p *memStore }

func (d *dreams) Create(_ context.Context, m *model.DreamRecord) (*model.DreamRecord, error) {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()

	out := *m
	out.ID = d.p.nextDreamID
	d.p.nextDreamID++
	out.CreatedAt = time.Now().UTC()
	if m.UserID != nil {
		uid := *m.UserID
		out.UserID = &uid
	}
	d.p.dreams = append(d.p.dreams, out)

	res := out
	return &res, nil
}

func (d *dreams) ListByUser(_ context.Context, userID int64) ([]*model.DreamRecord, error) {
	d.p.mu.RLock()
	defer d.p.mu.RUnlock()

	res := make([]*model.DreamRecord, 0)
	for _, rec := range d.p.dreams {
		if rec.UserID != nil && *rec.UserID == userID {
			out := rec
			uid := *rec.UserID
			out.UserID = &uid
			res = append(res, &out)
		}
	}
	return res, nil
}
