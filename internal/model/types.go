package model

import (
	"fmt"
	"time"
)

// EntryKind tells how a journal entry's content is interpreted: inline text
// or the filename of a stored audio blob.
type EntryKind string

const (
	EntryText  EntryKind = "text"
	EntryVoice EntryKind = "voice"
)

// ParseEntryKind converts a form value into an EntryKind.
func ParseEntryKind(s string) (EntryKind, error) {
	switch EntryKind(s) {
	case EntryText, EntryVoice:
		return EntryKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown entry type %q", ErrValidation, s)
}

// Account represents a registered user.
type Account struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordSalt     []byte    `json:"-"`
	PasswordVerifier []byte    `json:"-"`
	CreationTime     time.Time `json:"creationTime"`
}

// JournalEntry is one diary record. Content holds the text body for text
// entries and the blob filename for voice entries. CreatedAt is the civil
// time of the configured zone in "2006-01-02 15:04:05" form; DisplayTime is
// filled at read time for rendering and never stored.
type JournalEntry struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"accountId"`
	Kind        EntryKind `json:"kind"`
	Content     string    `json:"content"`
	CreatedAt   string    `json:"createdAt"`
	DisplayTime string    `json:"displayTime,omitempty"`
}
