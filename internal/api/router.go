package api

import (
	"github.com/gorilla/mux"
)

// NewRouter wires every route to its handler.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover)

	r.HandleFunc("/", h.Index).Methods("GET")

	r.HandleFunc("/login", h.LoginForm).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/register", h.RegisterForm).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")

	r.HandleFunc("/home", h.gated(h.Home)).Methods("GET")
	r.HandleFunc("/toss_coin", h.TossCoin).Methods("POST")

	r.HandleFunc("/journal", h.gated(h.JournalForm)).Methods("GET")
	r.HandleFunc("/journal", h.gated(h.CreateEntry)).Methods("POST")
	r.HandleFunc("/journal/book", h.gated(h.JournalBook)).Methods("GET")
	r.HandleFunc("/journal/delete/{entryId:[0-9]+}", h.gated(h.DeleteEntry)).Methods("POST")

	r.HandleFunc("/static/uploads/{filename}", h.gated(h.ServeUpload)).Methods("GET")

	return r
}
