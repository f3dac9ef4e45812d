// Package web renders the application's embedded HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is the view model shared by every page.
type PageData struct {
	LoggedIn    bool
	DisplayName string
	CoinTossed  bool
	Flashes     []session.Flash
	Entries     []*model.JournalEntry
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Render writes the named page. The page is executed into a buffer first so
// a template fault never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, name string, data PageData) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
