package session

import (
	"context"
	"fmt"

	"hompulse/console/internal/auth"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
	"hompulse/console/internal/ui"
)

func authHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"login":  handleAuthLogin,
		"logout": handleAuthLogout,
		"whoami": handleAuthWhoami,
	}
}

func systemHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"exit":   handleSystemExit,
		"quit":   handleSystemExit,
		"status": handleSystemStatus,
	}
}

// handleAuthLogin handles 'auth login <username> <password>'
func handleAuthLogin(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	// Arguments are taken raw since a password may contain a colon
	if len(cmd.Args) < 2 {
		return nil, fmt.Errorf("auth login: usage: auth login <username> <password>")
	}
	username, password := cmd.Args[0], cmd.Args[1]

	user, err := s.Auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	// Reload the hierarchy so that no selection survives a change of user
	if s.Auth.IsAdmin() {
		if _, err := s.Navigator.Reset(ctx); err != nil {
			s.logger.Warn(ctx, "Hierarchy load after login failed", log.Fields{"error": err})
		}
	}
	return fmt.Sprintf("Logged in as %s (%s)", user.Username, roleLabel(s.Auth)), nil
}

// handleAuthLogout handles 'auth logout'
func handleAuthLogout(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	if !s.Auth.Authenticated() {
		return "Not logged in", nil
	}
	if err := s.Auth.Logout(ctx); err != nil {
		return nil, err
	}
	return "Logged out", nil
}

// handleAuthWhoami handles 'auth whoami'
func handleAuthWhoami(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	user := s.Auth.User()
	if user == nil {
		return "Not logged in", nil
	}
	t := ui.NewTable("Current user", "ID", "USERNAME", "EMAIL", "ROLE")
	t.Add(user.ID, user.Username, user.Email, roleLabel(s.Auth))
	return t, nil
}

func roleLabel(a *auth.State) string {
	if a.IsAdmin() {
		return "admin"
	}
	return "user"
}

func handleSystemExit(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	return nil, ErrExit
}

// handleSystemStatus reports the API endpoint, the user and the hierarchy position
func handleSystemStatus(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	t := ui.NewTable("Status", "KEY", "VALUE")
	t.Add("api", s.baseURL)
	t.Add("session", s.ID)
	if user := s.Auth.User(); user != nil {
		t.Add("user", user.Username)
		t.Add("role", roleLabel(s.Auth))
	} else {
		t.Add("user", "-")
	}
	t.Add("level", s.Navigator.ActiveLevel().DisplayName)
	if inflight := s.Navigator.InFlight(); len(inflight) > 0 {
		t.Add("loading", fmt.Sprint(inflight))
	}
	return t, nil
}
