// Package session holds the process-wide identity: the bearer token and
// the cached user. It is written only by the login/logout/OAuth flows;
// every other component just reads it.
package session

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookshop/internal/entity"
)

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrForbidden       = errors.New("admin access required")
)

// Claims mirrors the token payload the backend issues. The client never
// verifies the signature (it has no secret); it only reads hints.
type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	mu    sync.RWMutex
	store *Store
	token string
	user  *entity.User
}

// Open loads the persisted session, if any.
func Open(store *Store) (*Session, error) {
	s := &Session{store: store}
	token, user, err := store.Load()
	if err != nil {
		return nil, err
	}
	s.token = token
	s.user = user
	return s, nil
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns the cached identity, or nil.
func (s *Session) Current() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool { return s.Token() != "" }

func (s *Session) IsAdmin() bool {
	u := s.Current()
	return u != nil && u.Role == entity.RoleAdmin
}

// RequireAuth gates views that need a logged-in user.
func (s *Session) RequireAuth() error {
	if !s.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin gates the back-office views. This is a UX guard only;
// the server enforces authorization on every protected route.
func (s *Session) RequireAdmin() error {
	if err := s.RequireAuth(); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Establish stores a fresh token and identity after login.
func (s *Session) Establish(token string, user entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(token, user); err != nil {
		return err
	}
	s.token = token
	s.user = &user
	return nil
}

// SetUser replaces the cached identity, keeping the token. Used after
// /auth/me confirms the session.
func (s *Session) SetUser(user entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(s.token, user); err != nil {
		return err
	}
	s.user = &user
	return nil
}

// Clear drops the session. Logout calls this even when the server call
// failed.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return s.store.Clear()
}

// ExpiresAt reads the token's expiry claim without verifying the
// signature. ok is false when there is no token or no expiry.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ConsumeRedirect extracts the identity the OAuth flow appends to the
// redirect URL (token, userId, username, email, role). ok is false
// unless all five are present.
func ConsumeRedirect(rawURL string) (token string, user entity.User, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", entity.User{}, false
	}
	q := u.Query()
	token = q.Get("token")
	user = entity.User{
		ID:       q.Get("userId"),
		Username: q.Get("username"),
		Email:    q.Get("email"),
		Role:     q.Get("role"),
		Enabled:  true,
	}
	if token == "" || user.ID == "" || user.Username == "" || user.Email == "" || user.Role == "" {
		return "", entity.User{}, false
	}
	return token, user, true
}
