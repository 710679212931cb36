// Package auth drives the login, registration, and logout flows against
// the backend and keeps the session in step with them.
package auth

import (
	"context"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/session"
	"bookshop/internal/ui"
	"bookshop/internal/validate"
)

type Service struct {
	client  *api.Client
	session *session.Session
	notify  ui.Notifier
}

func New(client *api.Client, sess *session.Session, notify ui.Notifier) *Service {
	return &Service{client: client, session: sess, notify: notify}
}

// loginRequest matches the backend contract: the username field carries
// the email address.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and establishes the session.
func (s *Service) Login(ctx context.Context, email, password string) error {
	var resp entity.AuthResponse
	err := s.client.Post(ctx, "/auth/login", loginRequest{Username: email, Password: password}, &resp)
	if err != nil {
		s.notify.Errorf("login failed: %v", err)
		return err
	}

	user := entity.User{
		ID:       resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
		Role:     resp.Role,
		Enabled:  true,
	}
	if err := s.session.Establish(resp.Token, user); err != nil {
		return err
	}
	s.notify.Successf("welcome back, %s", resp.Username)
	return nil
}

// Register creates an account. ConfirmPassword is checked locally and
// never sent.
func (s *Service) Register(ctx context.Context, input entity.RegisterInput) error {
	if fieldErr := validate.Struct(input); fieldErr != nil {
		s.notify.Errorf("%s", fieldErr.Message)
		return fieldErr
	}
	if err := s.client.Post(ctx, "/auth/register", input, nil); err != nil {
		s.notify.Errorf("registration failed: %v", err)
		return err
	}
	s.notify.Successf("account created, you can log in now")
	return nil
}

// Logout tells the server and clears the session. The local session is
// cleared even when the server call fails, so a broken backend cannot
// pin a stale identity.
func (s *Service) Logout(ctx context.Context) error {
	callErr := s.client.Post(ctx, "/auth/logout", nil, nil)
	if callErr != nil {
		s.notify.Warnf("logout request failed: %v", callErr)
	}
	if err := s.session.Clear(); err != nil {
		return err
	}
	s.notify.Successf("logged out")
	return callErr
}

// Verify confirms the stored token against /auth/me and refreshes the
// cached identity. An invalid token clears the session.
func (s *Service) Verify(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return session.ErrUnauthenticated
	}

	var me entity.User
	if err := s.client.Get(ctx, "/auth/me", &me); err != nil {
		s.notify.Warnf("session expired, please log in again")
		if clearErr := s.session.Clear(); clearErr != nil {
			return clearErr
		}
		return err
	}
	return s.session.SetUser(me)
}

// ConsumeOAuthRedirect establishes a session from the parameters the
// OAuth flow appends to the redirect URL.
func (s *Service) ConsumeOAuthRedirect(rawURL string) error {
	token, user, ok := session.ConsumeRedirect(rawURL)
	if !ok {
		s.notify.Errorf("incomplete sign-in redirect")
		return session.ErrUnauthenticated
	}
	if err := s.session.Establish(token, user); err != nil {
		return err
	}
	s.notify.Successf("signed in as %s", user.Username)
	return nil
}
