package store

import (
	"context"

	"github.com/wailingwell/wailingwell/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., sqlite, postgres).
type Store interface {
	Accounts() Accounts
	Entries() Entries

	// Ping reports whether the underlying database is reachable.
	Ping(ctx context.Context) error
	Close() error
}

type Accounts interface {
	// Create inserts a new account. A username or email that is already
	// present yields model.ErrDuplicate.
	Create(ctx context.Context, a *model.Account) (*model.Account, error)
	// GetByLogin looks an account up by username or email interchangeably.
	// A miss yields model.ErrNotFound.
	GetByLogin(ctx context.Context, login string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
}

type Entries interface {
	Create(ctx context.Context, e *model.JournalEntry) (*model.JournalEntry, error)
	// ListByAccount returns the account's entries in storage order.
	ListByAccount(ctx context.Context, accountID int64) ([]*model.JournalEntry, error)
	// GetByID is scoped by owner: an entry that exists under a different
	// account yields model.ErrNotFound.
	GetByID(ctx context.Context, accountID, entryID int64) (*model.JournalEntry, error)
	Delete(ctx context.Context, accountID, entryID int64) error
}
