package api

import (
	"net/http"

	"github.com/wailingwell/wailingwell/internal/api/respond"
	"github.com/wailingwell/wailingwell/internal/session"
	"github.com/wailingwell/wailingwell/internal/web"
)

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	_, loggedIn := h.sessions.FromRequest(r)
	h.views.Render(w, "index.html", web.PageData{LoggedIn: loggedIn})
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request, s session.Session) {
	h.views.Render(w, "home.html", h.pageData(s))
}

type tossCoinResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TossCoin is the one JSON endpoint. It is not behind the gate because an
// unauthenticated toss answers with a JSON notice, not a redirect.
func (h *Handlers) TossCoin(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.FromRequest(r)
	if !ok {
		respond.WriteJSON(w, http.StatusOK, tossCoinResponse{
			Success: false,
			Message: "You need to login first",
		})
		return
	}

	h.sessions.SetCoinToss(s.Token, true)
	respond.WriteJSON(w, http.StatusOK, tossCoinResponse{
		Success: true,
		Message: "You tossed the coin successfully!",
	})
}
