package api

import (
	"net/http"
	"net/url"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/wailingwell/wailingwell/internal/session"
)

// Recover intercepts panics from downstream handlers, logs details, and
// returns HTTP 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// gated wraps a handler that requires a login session. Requests without one
// are bounced to the login page with a notice.
func (h *Handlers) gated(next func(http.ResponseWriter, *http.Request, session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.sessions.FromRequest(r)
		if !ok {
			redirectWithNotice(w, r, "/login", "error", "You need to login first")
			return
		}
		next(w, r, s)
	}
}

// redirectWithNotice sends a 303 carrying a one-shot notice in the query
// string; used on flows that have no session to flash through.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, category, message string) {
	q := url.Values{}
	q.Set("notice", message)
	q.Set("category", category)
	http.Redirect(w, r, path+"?"+q.Encode(), http.StatusSeeOther)
}

// queryFlashes turns a redirect notice back into renderable flashes.
func queryFlashes(r *http.Request) []session.Flash {
	msg := r.URL.Query().Get("notice")
	if msg == "" {
		return nil
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "error"
	}
	return []session.Flash{{Category: category, Message: msg}}
}
