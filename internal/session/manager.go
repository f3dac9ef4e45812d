// Package session keeps server-side login sessions in an in-process map,
// keyed by an opaque token carried in an HttpOnly cookie. Flash notices ride
// the session and are drained when rendered.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie issued at login.
const CookieName = "wailingwell_session"

// Flash is a one-shot user-facing notice.
type Flash struct {
	Category string // "success" or "error"
	Message  string
}

// Session binds a request to an authenticated account.
type Session struct {
	Token       string
	AccountID   int64
	DisplayName string
	CoinTossed  bool
	ExpiresAt   time.Time
}

type record struct {
	Session
	flashes []Flash
}

// Manager owns the token→session map.
type Manager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*record
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{ttl: ttl, sessions: make(map[string]*record)}
}

// Create registers a new session for the account and returns a snapshot.
func (m *Manager) Create(accountID int64, displayName string) Session {
	s := Session{
		Token:       uuid.New().String(),
		AccountID:   accountID,
		DisplayName: displayName,
		ExpiresAt:   time.Now().Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[s.Token] = &record{Session: s}
	m.mu.Unlock()
	return s
}

// Get returns a snapshot of the session for token, if present and unexpired.
// Expired sessions are dropped on access.
func (m *Manager) Get(token string) (Session, bool) {
	m.mu.RLock()
	rec, ok := m.sessions[token]
	var snap Session
	if ok {
		snap = rec.Session
	}
	m.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Now().After(snap.ExpiresAt) {
		m.Destroy(token)
		return Session{}, false
	}
	return snap, true
}

func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// SetCoinToss flips the transient coin-toss flag on the session.
func (m *Manager) SetCoinToss(token string, v bool) {
	m.mu.Lock()
	if rec, ok := m.sessions[token]; ok {
		rec.CoinTossed = v
	}
	m.mu.Unlock()
}

// PushFlash queues a notice on the session. Tokens without a session are
// ignored; the notice would have nowhere to render.
func (m *Manager) PushFlash(token, category, message string) {
	m.mu.Lock()
	if rec, ok := m.sessions[token]; ok {
		rec.flashes = append(rec.flashes, Flash{Category: category, Message: message})
	}
	m.mu.Unlock()
}

// PopFlashes drains and returns the session's queued notices.
func (m *Manager) PopFlashes(token string) []Flash {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[token]
	if !ok || len(rec.flashes) == 0 {
		return nil
	}
	out := rec.flashes
	rec.flashes = nil
	return out
}

// FromRequest resolves the request's session cookie, if any.
func (m *Manager) FromRequest(r *http.Request) (Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Session{}, false
	}
	return m.Get(c.Value)
}

// SetCookie issues the session cookie on the response.
func SetCookie(w http.ResponseWriter, s Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie drops the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
