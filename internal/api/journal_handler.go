package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/services"
	"github.com/wailingwell/wailingwell/internal/session"
)

// maxUploadBytes caps an uploaded voice note at 32 MiB.
const maxUploadBytes = 32 << 20

func (h *Handlers) JournalForm(w http.ResponseWriter, r *http.Request, s session.Session) {
	h.views.Render(w, "journal.html", h.pageData(s))
}

func (h *Handlers) CreateEntry(w http.ResponseWriter, r *http.Request, s session.Session) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.flashAndRedirect(w, r, s, "/journal", "error", "Invalid form submission")
		return
	}

	kind, err := model.ParseEntryKind(r.FormValue("entry_type"))
	if err != nil {
		h.flashAndRedirect(w, r, s, "/journal", "error", "Unknown entry type")
		return
	}

	switch kind {
	case model.EntryText:
		_, err = h.journal.CreateText(r.Context(), s.AccountID, r.FormValue("text_entry"))
	case model.EntryVoice:
		payload := services.VoicePayload{InlineData: r.FormValue("voice_recording")}
		if file, header, ferr := r.FormFile("voice_entry"); ferr == nil {
			defer func() { _ = file.Close() }()
			payload.Upload = file
			payload.UploadFilename = header.Filename
		}
		_, err = h.journal.CreateVoice(r.Context(), s.AccountID, payload)
	}

	switch {
	case errors.Is(err, model.ErrValidation):
		h.flashAndRedirect(w, r, s, "/journal", "error", "Text entry is empty")
		return
	case errors.Is(err, model.ErrMissingPayload):
		h.flashAndRedirect(w, r, s, "/journal", "error", "No audio was uploaded or recorded")
		return
	case errors.Is(err, model.ErrInvalidPayload):
		h.flashAndRedirect(w, r, s, "/journal", "error", "The recorded audio could not be decoded")
		return
	case err != nil:
		h.log.Error().Err(err).Int64("account", s.AccountID).Msg("create entry failed")
		h.flashAndRedirect(w, r, s, "/journal", "error", "Something went wrong, try again")
		return
	}

	h.flashAndRedirect(w, r, s, "/journal", "success", "Journal entry saved successfully")
}

func (h *Handlers) JournalBook(w http.ResponseWriter, r *http.Request, s session.Session) {
	entries, err := h.journal.List(r.Context(), s.AccountID)
	if err != nil {
		h.log.Error().Err(err).Int64("account", s.AccountID).Msg("list entries failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := h.pageData(s)
	data.Entries = entries
	h.views.Render(w, "journal_book.html", data)
}

func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request, s session.Session) {
	entryID, err := strconv.ParseInt(mux.Vars(r)["entryId"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = h.journal.Delete(r.Context(), s.AccountID, entryID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		h.flashAndRedirect(w, r, s, "/journal/book", "error",
			"Entry not found or you do not have permission to delete this entry")
		return
	case err != nil:
		h.log.Error().Err(err).Int64("account", s.AccountID).Int64("entry", entryID).Msg("delete entry failed")
		h.flashAndRedirect(w, r, s, "/journal/book", "error", "Something went wrong, try again")
		return
	}

	h.flashAndRedirect(w, r, s, "/journal/book", "success", "Journal entry deleted successfully")
}

// ServeUpload streams a stored voice note back to its listener.
func (h *Handlers) ServeUpload(w http.ResponseWriter, r *http.Request, s session.Session) {
	filename := mux.Vars(r)["filename"]

	f, err := h.sink.Open(filename)
	if errors.Is(err, model.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("open blob failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, filename, stat.ModTime(), f)
}
