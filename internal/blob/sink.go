// Package blob stores voice-note audio files on the local filesystem.
package blob

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wailingwell/wailingwell/internal/model"
)

// audioExt is the fixed extension given to every stored recording.
const audioExt = ".wav"

// Sink is a directory of named audio files.
type Sink struct {
	dir string
}

// NewSink ensures dir exists and returns a sink rooted there.
func NewSink(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Sink{dir: dir}, nil
}

// Dir returns the sink's root directory.
func (s *Sink) Dir() string { return s.dir }

// NewFilename derives a collision-resistant blob name for an account:
// "<accountID>_<random hex>.wav".
func NewFilename(accountID int64) string {
	u := uuid.New()
	return fmt.Sprintf("%d_%s%s", accountID, hex.EncodeToString(u[:]), audioExt)
}

// path confines filename to a single path element inside the sink.
func (s *Sink) path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Save writes the audio bytes from r under filename.
func (s *Sink) Save(filename string, r io.Reader) error {
	f, err := os.Create(s.path(filename))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Remove deletes the named blob. A blob that is already gone is success.
func (s *Sink) Remove(filename string) error {
	err := os.Remove(s.path(filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open opens a stored blob for reading.
func (s *Sink) Open(filename string) (*os.File, error) {
	f, err := os.Open(s.path(filename))
	if os.IsNotExist(err) {
		return nil, model.ErrNotFound
	}
	return f, err
}

// DecodeDataURL extracts the audio bytes from a browser-recorded data URL
// ("data:audio/wav;base64,<payload>"): everything before the first comma is
// discarded, the remainder is base64-decoded.
func DecodeDataURL(s string) ([]byte, error) {
	_, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing data URL prefix", model.ErrInvalidPayload)
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidPayload, err)
	}
	return b, nil
}
