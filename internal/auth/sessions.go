package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"realestate/internal/model"
)

// CookieConfig holds the attributes of the session cookie. Logout reuses
// them so the browser replaces the live cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// SessionManager starts, resolves and ends login sessions.
type SessionManager struct {
	store  SessionStore
	signer *TokenSigner
	ttl    time.Duration
	cookie CookieConfig
}

// NewSessionManager creates a session manager.
func NewSessionManager(store SessionStore, signer *TokenSigner, ttl time.Duration, cookie CookieConfig) *SessionManager {
	return &SessionManager{
		store:  store,
		signer: signer,
		ttl:    ttl,
		cookie: cookie,
	}
}

// CookieName is the name of the session cookie.
func (m *SessionManager) CookieName() string {
	return m.cookie.Name
}

// Start records a new session for user and returns its signed token.
func (m *SessionManager) Start(ctx context.Context, user *model.User) (string, Identity, error) {
	id := newSessionID()
	session := Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		Role:        user.Role,
	}
	if err := m.store.Save(ctx, id, session, m.ttl); err != nil {
		return "", Identity{}, fmt.Errorf("store session: %w", err)
	}

	token, err := m.signer.Sign(id, m.ttl)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return "", Identity{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, identityOf(id, session), nil
}

// Resolve returns the identity for a cookie token.
func (m *SessionManager) Resolve(ctx context.Context, token string) (Identity, error) {
	id, err := m.signer.SessionID(token)
	if err != nil {
		return Identity{}, fmt.Errorf("parse session token: %w", err)
	}
	session, err := m.store.Load(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	return identityOf(id, session), nil
}

// End destroys the session behind id. Anonymous identities are a no-op.
func (m *SessionManager) End(ctx context.Context, id Identity) error {
	if id.SessionID == "" {
		return nil
	}
	return m.store.Delete(ctx, id.SessionID)
}

// Cookie builds the cookie carrying token.
func (m *SessionManager) Cookie(token string) *http.Cookie {
	c := m.baseCookie()
	c.Value = token
	c.Expires = time.Now().Add(m.ttl)
	c.MaxAge = int(m.ttl.Seconds())
	return c
}

// ExpiredCookie builds a cookie that makes the client drop the session cookie.
func (m *SessionManager) ExpiredCookie() *http.Cookie {
	c := m.baseCookie()
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	return c
}

func (m *SessionManager) baseCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookie.Name,
		Path:     "/",
		Domain:   m.cookie.Domain,
		Secure:   m.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func identityOf(sessionID string, s Session) Identity {
	return Identity{
		SessionID:   sessionID,
		UserID:      s.UserID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		Role:        s.Role,
	}
}
