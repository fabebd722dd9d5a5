// Package auth holds the process-wide session state derived from the stored access token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hompulse/console/internal/api"
	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// TokenStore persists the access token between runs
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Requester is the subset of the API client used for authentication
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	PostForm(ctx context.Context, path string, form url.Values, out any) error
}

// adminScopes are the console scopes restricted to administrators
var adminScopes = map[string]bool{
	"geo":        true,
	"product":    true,
	"partner":    true,
	"user":       true,
	"role":       true,
	"permission": true,
}

// publicScopes never require a session
var publicScopes = map[string]bool{
	"auth":   true,
	"help":   true,
	"system": true,
}

// ErrNotAuthenticated is returned by operations that need a logged-in user
var ErrNotAuthenticated = errors.New("not logged in")

// ErrForbidden is returned when the user lacks the role for a scope
var ErrForbidden = errors.New("access restricted to administrators")

// State is the current-user state. It is safe for concurrent use.
type State struct {
	tokens      TokenStore
	client      Requester
	events      *event.EventManager
	logger      *log.Logger
	adminRoleID int64
	now         func() time.Time

	mu   sync.RWMutex
	user *model.User
}

// NewState creates an unauthenticated state; call Initialize to restore a stored session
func NewState(tokens TokenStore, client Requester, adminRoleID int64, events *event.EventManager, logger *log.Logger) *State {
	if adminRoleID == 0 {
		adminRoleID = 1
	}
	return &State{
		tokens:      tokens,
		client:      client,
		events:      events,
		logger:      logger,
		adminRoleID: adminRoleID,
		now:         time.Now,
	}
}

// Initialize reads the stored token and validates it against the profile endpoint.
// An expired, invalid or rejected token is cleared silently and nil is returned.
// Other failures (network, server) are returned and the token is kept.
func (s *State) Initialize(ctx context.Context) error {
	token, err := s.tokens.Load()
	if err != nil {
		return fmt.Errorf("failed to load stored token: %w", err)
	}
	if token == "" {
		s.setUser(nil)
		return nil
	}

	if expired(token, s.now()) {
		s.logger.Info(ctx, "Stored token expired, clearing", nil)
		return s.drop()
	}

	return s.validate(ctx)
}

// Login exchanges credentials for a token, stores it, and loads the profile
func (s *State) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp model.LoginResponse
	if err := s.client.PostForm(ctx, "/auth/login", form, &resp); err != nil {
		s.logger.Warn(ctx, "Login failed", log.Fields{"username": username, "error": err})
		return nil, fmt.Errorf("login failed: %s", api.Detail(err))
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login failed: server returned no access token")
	}

	if err := s.tokens.Save(resp.AccessToken); err != nil {
		return nil, err
	}
	if err := s.validate(ctx); err != nil {
		return nil, err
	}

	user := s.User()
	if user == nil {
		return nil, fmt.Errorf("login failed: profile rejected the new token")
	}
	s.logger.Info(ctx, "User logged in", log.Fields{"username": user.Username})
	s.events.Publish(event.Event{Type: event.LoggedIn, Data: *user})
	return user, nil
}

// Logout clears the stored token and the current user
func (s *State) Logout(ctx context.Context) error {
	prev := s.User()
	if err := s.tokens.Clear(); err != nil {
		return err
	}
	s.setUser(nil)
	if prev != nil {
		s.logger.Info(ctx, "User logged out", log.Fields{"username": prev.Username})
	}
	s.events.Publish(event.Event{Type: event.LoggedOut})
	return nil
}

// HandleUnauthorized re-checks the profile after a 401 response and drops
// the session only when the profile endpoint rejects the token too.
// A 403 is a permission denial and never ends the session.
// It reports whether the session was dropped.
func (s *State) HandleUnauthorized(ctx context.Context, err error) bool {
	if api.StatusCode(err) != http.StatusUnauthorized || !s.Authenticated() {
		return false
	}
	if verr := s.validate(ctx); verr != nil {
		s.logger.Warn(ctx, "Could not re-check profile after 401", log.Fields{"error": verr})
		return false
	}
	return !s.Authenticated()
}

// validate fetches the profile with the stored token
func (s *State) validate(ctx context.Context) error {
	var user model.User
	if err := s.client.Get(ctx, "/users/me", &user); err != nil {
		if api.IsUnauthorized(err) {
			s.logger.Info(ctx, "Stored token rejected, clearing", log.Fields{"status": api.StatusCode(err)})
			return s.drop()
		}
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	s.setUser(&user)
	return nil
}

func (s *State) drop() error {
	s.setUser(nil)
	if err := s.tokens.Clear(); err != nil {
		return err
	}
	return nil
}

func (s *State) setUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// User returns a copy of the current user, or nil
func (s *State) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a validated user is present
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin reports whether the current user holds the admin role
func (s *State) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.RoleID == s.adminRoleID
}

// Allowed checks whether the current user may use scope
func (s *State) Allowed(scope string) error {
	if publicScopes[scope] {
		return nil
	}
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	if adminScopes[scope] && !s.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// IsAdminScope reports whether scope is restricted to administrators
func IsAdminScope(scope string) bool {
	return adminScopes[scope]
}

// expired reports whether token is a JWT whose exp claim is in the past.
// Tokens that are not JWTs, or carry no exp, are left to the profile check.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
