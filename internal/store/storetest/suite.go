// Package storetest holds a compliance suite run against every store driver.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store
// implementation. makeStore should return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	suffix := uuid.New().String()[:8]
	username := "user-" + suffix
	email := username + "@example.test"

	// Accounts
	acc, err := s.Accounts().Create(ctx, &model.Account{
		Username:         username,
		Email:            email,
		PasswordSalt:     []byte("salt"),
		PasswordVerifier: []byte("verifier"),
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if acc.ID == 0 {
		t.Fatalf("CreateAccount: zero id")
	}

	// Duplicate username and duplicate email both refuse.
	if _, err := s.Accounts().Create(ctx, &model.Account{
		Username: username, Email: "other-" + email,
		PasswordSalt: []byte("s"), PasswordVerifier: []byte("v"),
	}); !errors.Is(err, model.ErrDuplicate) {
		t.Fatalf("duplicate username: want ErrDuplicate, got %v", err)
	}
	if _, err := s.Accounts().Create(ctx, &model.Account{
		Username: "other-" + username, Email: email,
		PasswordSalt: []byte("s"), PasswordVerifier: []byte("v"),
	}); !errors.Is(err, model.ErrDuplicate) {
		t.Fatalf("duplicate email: want ErrDuplicate, got %v", err)
	}

	// Lookup by username and by email resolve the same account.
	if got, err := s.Accounts().GetByLogin(ctx, username); err != nil || got.ID != acc.ID {
		t.Fatalf("GetByLogin(username): got=%v err=%v", got, err)
	}
	if got, err := s.Accounts().GetByLogin(ctx, email); err != nil || got.ID != acc.ID {
		t.Fatalf("GetByLogin(email): got=%v err=%v", got, err)
	}
	if _, err := s.Accounts().GetByLogin(ctx, "nobody-"+suffix); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByLogin miss: want ErrNotFound, got %v", err)
	}

	// Entries
	e1, err := s.Entries().Create(ctx, &model.JournalEntry{
		AccountID: acc.ID, Kind: model.EntryText, Content: "hello", CreatedAt: "2024-03-04 09:15:00",
	})
	if err != nil {
		t.Fatalf("CreateEntry e1: %v", err)
	}
	e2, err := s.Entries().Create(ctx, &model.JournalEntry{
		AccountID: acc.ID, Kind: model.EntryVoice, Content: "1_abc.wav", CreatedAt: "2024-03-04 09:16:00",
	})
	if err != nil {
		t.Fatalf("CreateEntry e2: %v", err)
	}

	lst, err := s.Entries().ListByAccount(ctx, acc.ID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListByAccount: n=%d err=%v", len(lst), err)
	}
	if lst[0].ID != e1.ID || lst[1].ID != e2.ID {
		t.Fatalf("ListByAccount order: got %d,%d want %d,%d", lst[0].ID, lst[1].ID, e1.ID, e2.ID)
	}
	if lst[0].Kind != model.EntryText || lst[0].Content != "hello" || lst[0].CreatedAt != "2024-03-04 09:15:00" {
		t.Fatalf("ListByAccount row: %+v", lst[0])
	}

	// A second account never sees or touches the first account's rows.
	other, err := s.Accounts().Create(ctx, &model.Account{
		Username: "second-" + suffix, Email: "second-" + suffix + "@example.test",
		PasswordSalt: []byte("s"), PasswordVerifier: []byte("v"),
	})
	if err != nil {
		t.Fatalf("CreateAccount second: %v", err)
	}
	if lst, err := s.Entries().ListByAccount(ctx, other.ID); err != nil || len(lst) != 0 {
		t.Fatalf("ListByAccount isolation: n=%d err=%v", len(lst), err)
	}
	if _, err := s.Entries().GetByID(ctx, other.ID, e1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID cross-account: want ErrNotFound, got %v", err)
	}
	if err := s.Entries().Delete(ctx, other.ID, e1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete cross-account: want ErrNotFound, got %v", err)
	}
	if got, err := s.Entries().GetByID(ctx, acc.ID, e1.ID); err != nil || got.Content != "hello" {
		t.Fatalf("entry should survive foreign delete: got=%v err=%v", got, err)
	}

	// Owner delete removes the row exactly once.
	if err := s.Entries().Delete(ctx, acc.ID, e1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Entries().Delete(ctx, acc.ID, e1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete twice: want ErrNotFound, got %v", err)
	}
	if lst, err := s.Entries().ListByAccount(ctx, acc.ID); err != nil || len(lst) != 1 {
		t.Fatalf("ListByAccount after delete: n=%d err=%v", len(lst), err)
	}

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
