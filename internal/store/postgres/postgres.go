// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres-backed store from an open connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Accounts() store.Accounts { return &accounts{db: s.db} }
func (s *pgStore) Entries() store.Entries   { return &entries{db: s.db} }

func (s *pgStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *pgStore) Close() error                   { return s.db.Close() }

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Accounts ---

type accounts struct{ db *sql.DB }

func (a *accounts) Create(ctx context.Context, m *model.Account) (*model.Account, error) {
	var exists int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accounts WHERE username = $1 OR email = $2`,
		m.Username, m.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, model.ErrDuplicate
	}

	now := time.Now().UTC()
	var id int64
	err = a.db.QueryRowContext(ctx, `
        INSERT INTO accounts (username, email, password_salt, password_verifier, creation_time)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id
    `, m.Username, m.Email, m.PasswordSalt, m.PasswordVerifier, now).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrDuplicate
		}
		return nil, err
	}

	out := *m
	out.ID = id
	out.CreationTime = now
	return &out, nil
}

func (a *accounts) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx, `
        SELECT id, username, email, password_salt, password_verifier, creation_time
        FROM accounts WHERE username = $1 OR email = $1
    `, login)
	return scanAccount(row)
}

func (a *accounts) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx, `
        SELECT id, username, email, password_salt, password_verifier, creation_time
        FROM accounts WHERE id = $1
    `, id)
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
	var id int64
	err := e.db.QueryRowContext(ctx, `
        INSERT INTO journal_entries (account_id, entry_type, content, created_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id
    `, m.AccountID, string(m.Kind), m.Content, m.CreatedAt).Scan(&id)
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	return &out, nil
}

func (e *entries) ListByAccount(ctx context.Context, accountID int64) ([]*model.JournalEntry, error) {
	rows, err := e.db.QueryContext(ctx, `
        SELECT id, account_id, entry_type, content, created_at
        FROM journal_entries WHERE account_id = $1 ORDER BY id
    `, accountID)
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
	err := e.db.QueryRowContext(ctx, `
        SELECT id, account_id, entry_type, content, created_at
        FROM journal_entries WHERE id = $1 AND account_id = $2
    `, entryID, accountID).Scan(&m.ID, &m.AccountID, &kind, &m.Content, &m.CreatedAt)
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
		`DELETE FROM journal_entries WHERE id = $1 AND account_id = $2`, entryID, accountID)
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
