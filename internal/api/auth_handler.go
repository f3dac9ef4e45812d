package api

import (
	"errors"
	"net/http"

	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/session"
	"github.com/wailingwell/wailingwell/internal/web"
)

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, "login.html", web.PageData{Flashes: queryFlashes(r)})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/login", "error", "Invalid form submission")
		return
	}
	login := r.PostFormValue("username")
	password := r.PostFormValue("password")

	acc, err := h.accounts.Authenticate(r.Context(), login, password)
	if errors.Is(err, model.ErrInvalidCredentials) {
		redirectWithNotice(w, r, "/login", "error", "Invalid username or password")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("authenticate failed")
		redirectWithNotice(w, r, "/login", "error", "Something went wrong, try again")
		return
	}

	s := h.sessions.Create(acc.ID, acc.Username)
	session.SetCookie(w, s)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, "register.html", web.PageData{Flashes: queryFlashes(r)})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/register", "error", "Invalid form submission")
		return
	}
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	if password != confirm {
		redirectWithNotice(w, r, "/register", "error", "Passwords do not match")
		return
	}

	_, err := h.accounts.Register(r.Context(), username, email, password)
	switch {
	case errors.Is(err, model.ErrDuplicate):
		redirectWithNotice(w, r, "/register", "error", "Username or email already taken")
		return
	case errors.Is(err, model.ErrValidation):
		redirectWithNotice(w, r, "/register", "error", "Username, email and password are required")
		return
	case err != nil:
		h.log.Error().Err(err).Msg("register failed")
		redirectWithNotice(w, r, "/register", "error", "Something went wrong, try again")
		return
	}

	redirectWithNotice(w, r, "/login", "success", "Registration successful, please log in")
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.sessions.FromRequest(r); ok {
		h.sessions.Destroy(s.Token)
	}
	session.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
