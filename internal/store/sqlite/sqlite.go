// Package sqlite implements store.Store on a local SQLite database using the
// cgo-free modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode. The URI parameters give better concurrency for read-heavy use.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory opens a private in-memory database, used by tests.
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, err
	}
	// a single connection keeps the in-memory database alive and visible
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewWithDB constructs a SQLite-backed store from an open connection.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Accounts() store.Accounts { return &accounts{db: s.db} }
func (s *sqliteStore) Entries() store.Entries   { return &entries{db: s.db} }

func (s *sqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error                   { return s.db.Close() }

// --- Accounts ---

type accounts struct{ db *sql.DB }

func (a *accounts) Create(ctx context.Context, m *model.Account) (*model.Account, error) {
	// Check for an existing row first so the common case gets a clean
	// ErrDuplicate; the unique constraints still catch a racing insert.
	var exists int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accounts WHERE username = ? OR email = ?`,
		m.Username, m.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, model.ErrDuplicate
	}

	now := time.Now().UTC()
	res, err := a.db.ExecContext(ctx,
		`INSERT INTO accounts (username, email, password_salt, password_verifier, creation_time) VALUES (?,?,?,?,?)`,
		m.Username, m.Email, m.PasswordSalt, m.PasswordVerifier, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, model.ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	out := *m
	out.ID = id
	out.CreationTime = now
	return &out, nil
}

func (a *accounts) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_salt, password_verifier, creation_time FROM accounts WHERE username = ? OR email = ?`,
		login, login)
	return scanAccount(row)
}

func (a *accounts) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_salt, password_verifier, creation_time FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	var out model.Account
	err := row.Scan(&out.ID, &out.Username, &out.Email, &out.PasswordSalt, &out.PasswordVerifier, &out.CreationTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Entries ---

type entries struct{ db *sql.DB }

func (e *entries) Create(ctx context.Context, m *model.JournalEntry) (*model.JournalEntry, error) {
	res, err := e.db.ExecContext(ctx,
		`INSERT INTO journal_entries (account_id, entry_type, content, created_at) VALUES (?,?,?,?)`,
		m.AccountID, string(m.Kind), m.Content, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	return &out, nil
}

func (e *entries) ListByAccount(ctx context.Context, accountID int64) ([]*model.JournalEntry, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, account_id, entry_type, content, created_at FROM journal_entries WHERE account_id = ? ORDER BY id`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.JournalEntry
	for rows.Next() {
		var m model.JournalEntry
		var kind string
		if err := rows.Scan(&m.ID, &m.AccountID, &kind, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Kind = model.EntryKind(kind)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (e *entries) GetByID(ctx context.Context, accountID, entryID int64) (*model.JournalEntry, error) {
	var m model.JournalEntry
	var kind string
	err := e.db.QueryRowContext(ctx,
		`SELECT id, account_id, entry_type, content, created_at FROM journal_entries WHERE id = ? AND account_id = ?`,
		entryID, accountID).Scan(&m.ID, &m.AccountID, &kind, &m.Content, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Kind = model.EntryKind(kind)
	return &m, nil
}

func (e *entries) Delete(ctx context.Context, accountID, entryID int64) error {
	res, err := e.db.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE id = ? AND account_id = ?`, entryID, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
