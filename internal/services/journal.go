package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/wailingwell/wailingwell/internal/blob"
	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/store"
)

const (
	// storedTimeLayout is the civil-time format persisted with every entry.
	storedTimeLayout = "2006-01-02 15:04:05"
	// displayTimeLayout is the long form shown in the journal book.
	displayTimeLayout = "January 02, 2006 (03:04 PM)"
)

// VoicePayload carries the two possible sources of a voice entry's audio:
// an uploaded file and/or a browser-recorded base64 data URL.
type VoicePayload struct {
	UploadFilename string
	Upload         io.Reader
	InlineData     string
}

// JournalService orchestrates entry creation, listing and deletion against
// the store and the audio blob sink.
type JournalService struct {
	store store.Store
	sink  *blob.Sink
	loc   *time.Location
	log   zerolog.Logger
}

func NewJournalService(st store.Store, sink *blob.Sink, loc *time.Location, log zerolog.Logger) *JournalService {
	return &JournalService{store: st, sink: sink, loc: loc, log: log}
}

func (s *JournalService) timestamp() string {
	return time.Now().In(s.loc).Format(storedTimeLayout)
}

// CreateText stores a text entry verbatim with the current civil timestamp.
func (s *JournalService) CreateText(ctx context.Context, accountID int64, text string) (*model.JournalEntry, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text entry is empty", model.ErrValidation)
	}
	return s.store.Entries().Create(ctx, &model.JournalEntry{
		AccountID: accountID,
		Kind:      model.EntryText,
		Content:   text,
		CreatedAt: s.timestamp(),
	})
}

// CreateVoice stores a voice entry. An uploaded file with a non-empty
// filename takes precedence; inline data is only consulted when the upload
// is absent. With neither present no row is written and
// model.ErrMissingPayload is returned.
func (s *JournalService) CreateVoice(ctx context.Context, accountID int64, p VoicePayload) (*model.JournalEntry, error) {
	filename := blob.NewFilename(accountID)

	switch {
	case p.UploadFilename != "" && p.Upload != nil:
		if err := s.sink.Save(filename, p.Upload); err != nil {
			return nil, fmt.Errorf("saving uploaded audio: %w", err)
		}
	case p.InlineData != "":
		audio, err := blob.DecodeDataURL(p.InlineData)
		if err != nil {
			return nil, err
		}
		if err := s.sink.Save(filename, bytes.NewReader(audio)); err != nil {
			return nil, fmt.Errorf("saving recorded audio: %w", err)
		}
	default:
		return nil, model.ErrMissingPayload
	}

	entry, err := s.store.Entries().Create(ctx, &model.JournalEntry{
		AccountID: accountID,
		Kind:      model.EntryVoice,
		Content:   filename,
		CreatedAt: s.timestamp(),
	})
	if err != nil {
		// no row was written; don't leave an orphaned blob behind
		if rmErr := s.sink.Remove(filename); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("filename", filename).Msg("orphaned blob cleanup failed")
		}
		return nil, err
	}
	return entry, nil
}

// List returns the account's entries in storage order with DisplayTime
// filled for rendering.
func (s *JournalService) List(ctx context.Context, accountID int64) ([]*model.JournalEntry, error) {
	entries, err := s.store.Entries().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		ts, err := time.ParseInLocation(storedTimeLayout, e.CreatedAt, s.loc)
		if err != nil {
			s.log.Warn().Str("created_at", e.CreatedAt).Int64("entry", e.ID).Msg("unparsable entry timestamp")
			e.DisplayTime = e.CreatedAt
			continue
		}
		e.DisplayTime = ts.Format(displayTimeLayout)
	}
	return entries, nil
}

// Delete removes an entry the account owns, plus its blob for voice entries.
// Ownership is enforced by the scoped lookup; a miss yields
// model.ErrNotFound. Blob removal failures are logged and swallowed so the
// row always goes.
func (s *JournalService) Delete(ctx context.Context, accountID, entryID int64) error {
	entry, err := s.store.Entries().GetByID(ctx, accountID, entryID)
	if err != nil {
		return err
	}

	if entry.Kind == model.EntryVoice {
		if err := s.sink.Remove(entry.Content); err != nil {
			s.log.Warn().Err(err).Str("filename", entry.Content).Msg("voice blob removal failed")
		}
	}
	return s.store.Entries().Delete(ctx, accountID, entryID)
}
