package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/wailingwell/wailingwell/internal/store"
	"github.com/wailingwell/wailingwell/internal/store/migrations"
	"github.com/wailingwell/wailingwell/internal/store/storetest"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.Up(context.Background(), db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewWithDB(db)
}

func TestSQLiteStoreCompliance(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "well.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
