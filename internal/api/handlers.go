// Package api holds the HTTP handlers and routing for the web application.
package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wailingwell/wailingwell/internal/blob"
	"github.com/wailingwell/wailingwell/internal/services"
	"github.com/wailingwell/wailingwell/internal/session"
	"github.com/wailingwell/wailingwell/internal/web"
)

// Handlers bundles the collaborators every route needs.
type Handlers struct {
	accounts *services.AccountService
	journal  *services.JournalService
	sink     *blob.Sink
	sessions *session.Manager
	views    *web.Renderer
	log      zerolog.Logger
}

func NewHandlers(
	accounts *services.AccountService,
	journal *services.JournalService,
	sink *blob.Sink,
	sessions *session.Manager,
	views *web.Renderer,
	log zerolog.Logger,
) *Handlers {
	return &Handlers{
		accounts: accounts,
		journal:  journal,
		sink:     sink,
		sessions: sessions,
		views:    views,
		log:      log,
	}
}

// flashAndRedirect queues a session flash and bounces to path.
func (h *Handlers) flashAndRedirect(w http.ResponseWriter, r *http.Request, s session.Session, path, category, message string) {
	h.sessions.PushFlash(s.Token, category, message)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// pageData assembles the common view model for a logged-in page, draining
// the session's flash queue.
func (h *Handlers) pageData(s session.Session) web.PageData {
	return web.PageData{
		LoggedIn:    true,
		DisplayName: s.DisplayName,
		CoinTossed:  s.CoinTossed,
		Flashes:     h.sessions.PopFlashes(s.Token),
	}
}
