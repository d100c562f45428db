// Package session implements cookie-keyed server-side sessions backed by the
// store. The cookie carries only an opaque ULID; all session state lives in
// the sessions table.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
	"github.com/aussiebroadwan/cookbook/pkg/idx"
)

const (
	DefaultCookieName = "cookbook_session"
	DefaultTTL        = 24 * time.Hour
)

type Manager struct {
	Store      store.Store
	CookieName string
	TTL        time.Duration
	Secure     bool // set behind TLS
}

func NewManager(st store.Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		Store:      st,
		CookieName: DefaultCookieName,
		TTL:        ttl,
	}
}

// Load returns the session referenced by the request cookie, lazily creating
// a fresh unauthenticated session (and setting the cookie) when the cookie is
// absent, unknown, or expired.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (domain.Session, error) {
	ctx := r.Context()

	if cookie, err := r.Cookie(m.CookieName); err == nil {
		if _, perr := idx.Parse(cookie.Value); perr == nil {
			sess, gerr := m.Store.Sessions().GetSession(ctx, cookie.Value)
			if gerr == nil {
				return sess, nil
			}
			if !errors.Is(gerr, store.ErrNotFound) {
				return domain.Session{}, gerr
			}
		}
	}

	sess := domain.Session{
		ID:        idx.New().String(),
		ExpiresAt: time.Now().UTC().Add(m.TTL),
	}
	if err := m.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}

	m.setCookie(w, sess.ID, sess.ExpiresAt)
	return sess, nil
}

// Save persists the mutable session fields.
func (m *Manager) Save(ctx context.Context, s domain.Session) error {
	return m.Store.Sessions().UpdateSession(ctx, s)
}

// Authenticate marks the session as belonging to userID. The session id is
// regenerated so an id handed out pre-login can never become authenticated
// (fixation defense); the old row is removed in the same transaction.
func (m *Manager) Authenticate(
	ctx context.Context,
	w http.ResponseWriter,
	s domain.Session,
	userID string,
) (domain.Session, error) {
	fresh := domain.Session{
		ID:            idx.New().String(),
		UserID:        userID,
		Authenticated: true,
		ExpiresAt:     time.Now().UTC().Add(m.TTL),
	}

	err := m.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteSession(ctx, s.ID); err != nil {
			return err
		}
		return tx.Sessions().CreateSession(ctx, fresh)
	})
	if err != nil {
		return domain.Session{}, err
	}

	m.setCookie(w, fresh.ID, fresh.ExpiresAt)
	return fresh, nil
}

// Destroy deletes the session row and expires the cookie. Destroying an
// already-destroyed session is a no-op.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s domain.Session) error {
	if err := m.Store.Sessions().DeleteSession(ctx, s.ID); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SetError stores a one-shot flash message on the session.
func (m *Manager) SetError(ctx context.Context, s domain.Session, msg string) error {
	s.ErrorMessage = msg
	return m.Save(ctx, s)
}

// PopError returns the pending flash message and clears it in the same
// store write, so the message renders at most once.
func (m *Manager) PopError(ctx context.Context, s domain.Session) (string, error) {
	if s.ErrorMessage == "" {
		return "", nil
	}

	msg := s.ErrorMessage
	s.ErrorMessage = ""
	if err := m.Save(ctx, s); err != nil {
		return "", err
	}
	return msg, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
