// Package auth keeps the shared admin mode and flash messages in a signed
// session cookie.
package auth

import (
	"crypto/subtle"
	"encoding/gob"
	"fmt"
	"net/http"

	"learnbase/logger"
	"learnbase/models"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "learnbase_session"
	adminKey    = "is_admin"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Capability is the admin permission resolved for one request. Handlers pass
// it to whatever they gate instead of consulting shared state.
type Capability struct {
	admin    bool
	enforced bool
}

// IsAdmin reports whether the session holds the admin flag.
func (c Capability) IsAdmin() bool { return c.admin }

// CanMutate reports whether gated operations are permitted.
func (c Capability) CanMutate() bool { return c.admin || !c.enforced }

// Require returns an error matching models.ErrAuth unless gated operations
// are permitted.
func (c Capability) Require() error {
	if c.CanMutate() {
		return nil
	}
	return fmt.Errorf("admin mode is off: %w", models.ErrAuth)
}

// Sessions checks the shared admin password and reads and writes the session.
type Sessions struct {
	store        sessions.Store
	password     string
	requireAdmin bool
}

func NewSessions(secretKey, adminPassword string, requireAdmin bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, password: adminPassword, requireAdmin: requireAdmin}
}

// session always returns a usable session; an undecodable cookie yields a new one.
func (s *Sessions) session(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, SessionName)
	if err != nil {
		logger.Debug("auth: discarding unreadable session cookie: %v", err)
	}
	return sess
}

// Capability resolves the admin permission of the request's session.
func (s *Sessions) Capability(r *http.Request) Capability {
	admin, _ := s.session(r).Values[adminKey].(bool)
	return Capability{admin: admin, enforced: s.requireAdmin}
}

// Login sets the admin flag when password matches and clears it otherwise.
// A mismatch returns an error matching models.ErrAuth.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, password string) (Capability, error) {
	sess := s.session(r)
	ok := s.password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if ok {
		sess.Values[adminKey] = true
	} else {
		delete(sess.Values, adminKey)
	}
	if err := sess.Save(r, w); err != nil {
		return Capability{enforced: s.requireAdmin}, fmt.Errorf("saving session: %w", err)
	}
	if !ok {
		return Capability{enforced: s.requireAdmin}, fmt.Errorf("admin password mismatch: %w", models.ErrAuth)
	}
	return Capability{admin: true, enforced: s.requireAdmin}, nil
}

// Logout clears the admin flag.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	delete(sess.Values, adminKey)
	return sess.Save(r, w)
}

// AddFlash queues a message for the next page render.
func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess := s.session(r)
	sess.AddFlash(Flash{Category: category, Message: message})
	if err := sess.Save(r, w); err != nil {
		logger.Error("auth: saving flash message: %v", err)
	}
}

// Flashes pops every queued message.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		logger.Error("auth: clearing flash messages: %v", err)
	}
	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
