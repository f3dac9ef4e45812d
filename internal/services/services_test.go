package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wailingwell/wailingwell/internal/blob"
	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/store"
)

// --- Fakes ---

type fakeStore struct {
	nextAccountID int64
	nextEntryID   int64
	accounts      []*model.Account
	entries       []*model.JournalEntry

	failEntryCreate bool
}

func (f *fakeStore) Accounts() store.Accounts       { return &fakeAccounts{f} }
func (f *fakeStore) Entries() store.Entries         { return &fakeEntries{f} }
func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

type fakeAccounts struct{ f *fakeStore }

func (a *fakeAccounts) Create(_ context.Context, m *model.Account) (*model.Account, error) {
	for _, acc := range a.f.accounts {
		if acc.Username == m.Username || acc.Email == m.Email {
			return nil, model.ErrDuplicate
		}
	}
	a.f.nextAccountID++
	out := *m
	out.ID = a.f.nextAccountID
	out.CreationTime = time.Now().UTC()
	a.f.accounts = append(a.f.accounts, &out)
	return &out, nil
}

func (a *fakeAccounts) GetByLogin(_ context.Context, login string) (*model.Account, error) {
	for _, acc := range a.f.accounts {
		if acc.Username == login || acc.Email == login {
			out := *acc
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (a *fakeAccounts) GetByID(_ context.Context, id int64) (*model.Account, error) {
	for _, acc := range a.f.accounts {
		if acc.ID == id {
			out := *acc
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

type fakeEntries struct{ f *fakeStore }

func (e *fakeEntries) Create(_ context.Context, m *model.JournalEntry) (*model.JournalEntry, error) {
	if e.f.failEntryCreate {
		return nil, errors.New("boom")
	}
	e.f.nextEntryID++
	out := *m
	out.ID = e.f.nextEntryID
	e.f.entries = append(e.f.entries, &out)
	return &out, nil
}

func (e *fakeEntries) ListByAccount(_ context.Context, accountID int64) ([]*model.JournalEntry, error) {
	var out []*model.JournalEntry
	for _, en := range e.f.entries {
		if en.AccountID == accountID {
			cp := *en
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (e *fakeEntries) GetByID(_ context.Context, accountID, entryID int64) (*model.JournalEntry, error) {
	for _, en := range e.f.entries {
		if en.ID == entryID && en.AccountID == accountID {
			cp := *en
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (e *fakeEntries) Delete(_ context.Context, accountID, entryID int64) error {
	for i, en := range e.f.entries {
		if en.ID == entryID && en.AccountID == accountID {
			e.f.entries = append(e.f.entries[:i], e.f.entries[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

// --- Helpers ---

var manila = time.FixedZone("PST", 8*3600)

func newJournalService(t *testing.T, f *fakeStore) (*JournalService, *blob.Sink) {
	t.Helper()
	sink, err := blob.NewSink(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	return NewJournalService(f, sink, manila, zerolog.Nop()), sink
}

func sinkFiles(t *testing.T, sink *blob.Sink) []string {
	t.Helper()
	des, err := os.ReadDir(sink.Dir())
	if err != nil {
		t.Fatalf("read sink dir: %v", err)
	}
	var names []string
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names
}

// --- AccountService ---

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(&fakeStore{})

	acc, err := svc.Register(ctx, "alice", "a@x.com", "p")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acc.ID == 0 {
		t.Fatal("no account id assigned")
	}
	if string(acc.PasswordVerifier) == "p" {
		t.Fatal("password must not be stored verbatim")
	}

	// email works as login; so does username
	if _, err := svc.Authenticate(ctx, "a@x.com", "p"); err != nil {
		t.Fatalf("authenticate by email: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "p"); err != nil {
		t.Fatalf("authenticate by username: %v", err)
	}

	// wrong password and unknown login report the same error
	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "mallory", "p"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("unknown login: want ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(&fakeStore{})

	if _, err := svc.Register(ctx, "alice", "a@x.com", "p"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "b@x.com", "p"); !errors.Is(err, model.ErrDuplicate) {
		t.Fatalf("duplicate username: want ErrDuplicate, got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "a@x.com", "p"); !errors.Is(err, model.ErrDuplicate) {
		t.Fatalf("duplicate email: want ErrDuplicate, got %v", err)
	}
	if _, err := svc.Register(ctx, "", "c@x.com", "p"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("empty username: want ErrValidation, got %v", err)
	}
}

// --- JournalService ---

func TestCreateTextEntry(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, _ := newJournalService(t, f)

	e, err := svc.CreateText(ctx, 1, "hello")
	if err != nil {
		t.Fatalf("create text: %v", err)
	}
	if e.Kind != model.EntryText || e.Content != "hello" {
		t.Fatalf("entry: %+v", e)
	}
	if _, err := time.ParseInLocation(storedTimeLayout, e.CreatedAt, manila); err != nil {
		t.Fatalf("timestamp %q not in storage format: %v", e.CreatedAt, err)
	}

	if _, err := svc.CreateText(ctx, 1, ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("empty text: want ErrValidation, got %v", err)
	}
}

func TestCreateVoiceFromInlineData(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, sink := newJournalService(t, f)

	e, err := svc.CreateVoice(ctx, 1, VoicePayload{InlineData: "data:audio/wav;base64,AAAA"})
	if err != nil {
		t.Fatalf("create voice: %v", err)
	}
	if e.Kind != model.EntryVoice || !strings.HasPrefix(e.Content, "1_") {
		t.Fatalf("entry: %+v", e)
	}

	fh, err := sink.Open(e.Content)
	if err != nil {
		t.Fatalf("open blob: %v", err)
	}
	defer fh.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(fh); err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0, 0, 0}) {
		t.Fatalf("blob bytes: %v", buf.Bytes())
	}
}

func TestCreateVoiceUploadTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, sink := newJournalService(t, f)

	e, err := svc.CreateVoice(ctx, 2, VoicePayload{
		UploadFilename: "note.wav",
		Upload:         bytes.NewReader([]byte("uploaded")),
		InlineData:     "data:audio/wav;base64,AAAA", // must be ignored
	})
	if err != nil {
		t.Fatalf("create voice: %v", err)
	}

	fh, err := sink.Open(e.Content)
	if err != nil {
		t.Fatalf("open blob: %v", err)
	}
	defer fh.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(fh); err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if buf.String() != "uploaded" {
		t.Fatalf("inline data won over upload: %q", buf.String())
	}
}

func TestCreateVoiceWithoutPayload(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, sink := newJournalService(t, f)

	if _, err := svc.CreateVoice(ctx, 1, VoicePayload{}); !errors.Is(err, model.ErrMissingPayload) {
		t.Fatalf("want ErrMissingPayload, got %v", err)
	}
	if len(f.entries) != 0 {
		t.Fatal("no row should be written")
	}
	if names := sinkFiles(t, sink); len(names) != 0 {
		t.Fatalf("no blob should be written, got %v", names)
	}
}

func TestCreateVoiceCleansUpBlobOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{failEntryCreate: true}
	svc, sink := newJournalService(t, f)

	if _, err := svc.CreateVoice(ctx, 1, VoicePayload{InlineData: "data:audio/wav;base64,AAAA"}); err == nil {
		t.Fatal("expected insert failure")
	}
	if names := sinkFiles(t, sink); len(names) != 0 {
		t.Fatalf("orphaned blob left behind: %v", names)
	}
}

func TestListFormatsDisplayTime(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, _ := newJournalService(t, f)

	f.entries = append(f.entries, &model.JournalEntry{
		ID: 1, AccountID: 1, Kind: model.EntryText, Content: "hi", CreatedAt: "2024-03-04 09:15:00",
	})

	entries, err := svc.List(ctx, 1)
	if err != nil || len(entries) != 1 {
		t.Fatalf("list: n=%d err=%v", len(entries), err)
	}
	if entries[0].DisplayTime != "March 04, 2024 (09:15 AM)" {
		t.Fatalf("display time: %q", entries[0].DisplayTime)
	}
	// storage format is untouched
	if entries[0].CreatedAt != "2024-03-04 09:15:00" {
		t.Fatalf("created at mutated: %q", entries[0].CreatedAt)
	}
}

func TestDeleteVoiceEntryRemovesBlob(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, sink := newJournalService(t, f)

	e, err := svc.CreateVoice(ctx, 1, VoicePayload{InlineData: "data:audio/wav;base64,AAAA"})
	if err != nil {
		t.Fatalf("create voice: %v", err)
	}

	if err := svc.Delete(ctx, 1, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if names := sinkFiles(t, sink); len(names) != 0 {
		t.Fatalf("blob survived delete: %v", names)
	}
	if err := svc.Delete(ctx, 1, e.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestDeleteVoiceEntryToleratesMissingBlob(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, sink := newJournalService(t, f)

	e, err := svc.CreateVoice(ctx, 1, VoicePayload{InlineData: "data:audio/wav;base64,AAAA"})
	if err != nil {
		t.Fatalf("create voice: %v", err)
	}
	if err := sink.Remove(e.Content); err != nil {
		t.Fatalf("pre-remove blob: %v", err)
	}

	if err := svc.Delete(ctx, 1, e.ID); err != nil {
		t.Fatalf("delete with missing blob should succeed: %v", err)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	f := &fakeStore{}
	svc, _ := newJournalService(t, f)

	e, err := svc.CreateText(ctx, 1, "mine")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, 2, e.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("foreign delete: want ErrNotFound, got %v", err)
	}
	if got, err := f.Entries().GetByID(ctx, 1, e.ID); err != nil || got.Content != "mine" {
		t.Fatalf("entry should be untouched: got=%v err=%v", got, err)
	}
}
