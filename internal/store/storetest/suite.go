// Package storetest holds a compliance suite shared by store adapters.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	email := "u-" + uuid.New().String() + "@example.test"

	// Users
	u, err := s.Users().Create(ctx, &model.User{Email: email, PasswordHash: "$2a$10$fake", Name: "First"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("CreateUser: id/createdAt not assigned: %+v", u)
	}
	if _, err := s.Users().Create(ctx, &model.User{Email: email, PasswordHash: "$2a$10$other", Name: "Dup"}); !errors.Is(err, model.ErrDuplicateEmail) {
		t.Fatalf("duplicate email: want ErrDuplicateEmail, got %v", err)
	}
	u2, err := s.Users().Create(ctx, &model.User{Email: "2-" + email, PasswordHash: "$2a$10$fake", Name: "Second"})
	if err != nil {
		t.Fatalf("CreateUser u2: %v", err)
	}
	if u2.ID <= u.ID {
		t.Fatalf("user ids not monotonic: %d then %d", u.ID, u2.ID)
	}
	if got, err := s.Users().GetByEmail(ctx, email); err != nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: got=%+v err=%v", got, err)
	}
	if got, err := s.Users().GetByID(ctx, u.ID); err != nil || got.Email != email {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if _, err := s.Users().GetByID(ctx, 1<<40); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID unknown: want ErrNotFound, got %v", err)
	}

	// Sessions
	token := uuid.New().String()
	sess, err := s.Sessions().Create(ctx, token)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.UserID != nil || sess.GuestUsageCount != 0 || sess.UserUsageCount != 0 {
		t.Fatalf("fresh session not zeroed: %+v", sess)
	}
	if _, err := s.Sessions().Create(ctx, token); err == nil {
		t.Fatalf("CreateSession: duplicate token must fail")
	}
	if _, err := s.Sessions().Get(ctx, "no-such-token"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetSession unknown: want ErrNotFound, got %v", err)
	}

	// Guest usage increments only the guest counter.
	if n, err := s.Sessions().RecordUsage(ctx, token); err != nil || n != 1 {
		t.Fatalf("RecordUsage guest: n=%d err=%v", n, err)
	}
	got, err := s.Sessions().Get(ctx, token)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.GuestUsageCount != 1 || got.UserUsageCount != 0 {
		t.Fatalf("guest usage touched wrong counter: %+v", got)
	}

	// Attach is idempotent and leaves counters alone.
	if err := s.Sessions().AttachUser(ctx, token, u.ID); err != nil {
		t.Fatalf("AttachUser: %v", err)
	}
	if err := s.Sessions().AttachUser(ctx, token, u.ID); err != nil {
		t.Fatalf("AttachUser repeat: %v", err)
	}
	got, err = s.Sessions().Get(ctx, token)
	if err != nil || got.UserID == nil || *got.UserID != u.ID {
		t.Fatalf("AttachUser not visible: got=%+v err=%v", got, err)
	}
	if got.GuestUsageCount != 1 || got.UserUsageCount != 0 {
		t.Fatalf("AttachUser disturbed counters: %+v", got)
	}

	// Usage after attach increments only the user counter.
	if n, err := s.Sessions().RecordUsage(ctx, token); err != nil || n != 1 {
		t.Fatalf("RecordUsage user: n=%d err=%v", n, err)
	}
	if n, err := s.Sessions().RecordUsage(ctx, token); err != nil || n != 2 {
		t.Fatalf("RecordUsage user 2nd: n=%d err=%v", n, err)
	}
	got, _ = s.Sessions().Get(ctx, token)
	if got.GuestUsageCount != 1 || got.UserUsageCount != 2 {
		t.Fatalf("counters after attach: %+v", got)
	}

	// Dreams
	if lst, err := s.Dreams().ListByUser(ctx, u.ID); err != nil || len(lst) != 0 {
		t.Fatalf("ListByUser empty: n=%d err=%v", len(lst), err)
	}
	uid := u.ID
	d1, err := s.Dreams().Create(ctx, &model.DreamRecord{UserID: &uid, DreamText: "first dream text here", Analysis: "a1"})
	if err != nil {
		t.Fatalf("CreateDream d1: %v", err)
	}
	d2, err := s.Dreams().Create(ctx, &model.DreamRecord{UserID: &uid, DreamText: "second dream text here", Analysis: "a2"})
	if err != nil {
		t.Fatalf("CreateDream d2: %v", err)
	}
	if d2.ID <= d1.ID {
		t.Fatalf("dream ids not monotonic: %d then %d", d1.ID, d2.ID)
	}
	// Guest submission has no owner and never shows up in any user's list.
	if _, err := s.Dreams().Create(ctx, &model.DreamRecord{DreamText: "guest dream text here", Analysis: "a3"}); err != nil {
		t.Fatalf("CreateDream guest: %v", err)
	}
	lst, err := s.Dreams().ListByUser(ctx, u.ID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListByUser: n=%d err=%v", len(lst), err)
	}
	// Insertion order at the storage layer so presentation sorts are stable.
	if lst[0].ID != d1.ID || lst[1].ID != d2.ID {
		t.Fatalf("ListByUser order: got [%d %d], want [%d %d]", lst[0].ID, lst[1].ID, d1.ID, d2.ID)
	}

	// Delete ends the session.
	if err := s.Sessions().Delete(ctx, token); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.Sessions().Get(ctx, token); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetSession after delete: want ErrNotFound, got %v", err)
	}
}
