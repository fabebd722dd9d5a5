// Package session executes console commands against the HOM Pulse services
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hompulse/console/internal/auth"
	"hompulse/console/internal/data"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
	"hompulse/console/internal/navigator"
)

// ErrExit is returned by the system exit and quit commands
var ErrExit = errors.New("exit requested")

// ErrSessionExpired replaces an authorization failure after the stored session was dropped
var ErrSessionExpired = errors.New("session expired, log in again")

// CommandHandler is a function type for command handlers
type CommandHandler func(ctx context.Context, s *Session, cmd model.Command) (interface{}, error)

// Services are the dependencies shared by every session
type Services struct {
	Auth    *auth.State
	Data    *data.DataManager
	Levels  []model.LevelDefinition
	Backend navigator.Backend
	BaseURL string
}

// Session represents an individual console session
type Session struct {
	ID        string
	Auth      *auth.State
	Data      *data.DataManager
	Navigator *navigator.Navigator
	baseURL   string

	mu              sync.Mutex
	lastActivity    time.Time
	commandHandlers map[string]map[string]CommandHandler
	logger          *log.Logger
}

// NewSession creates a new Session instance with its own hierarchy navigator
func NewSession(id string, svc Services, logger *log.Logger) (*Session, error) {
	nav, err := navigator.New(svc.Levels, svc.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create navigator: %w", err)
	}

	s := &Session{
		ID:           id,
		Auth:         svc.Auth,
		Data:         svc.Data,
		Navigator:    nav,
		baseURL:      svc.BaseURL,
		lastActivity: time.Now(),
		logger:       logger,
	}
	s.initCommandHandlers()
	return s, nil
}

// initCommandHandlers initializes the command handlers map
func (s *Session) initCommandHandlers() {
	s.commandHandlers = map[string]map[string]CommandHandler{
		"auth":       authHandlers(),
		"geo":        geoHandlers(),
		"partner":    partnerHandlers(),
		"product":    productHandlers(),
		"user":       userHandlers(),
		"role":       roleHandlers(),
		"permission": permissionHandlers(),
		"inventory":  inventoryHandlers(),
		"finance":    financeHandlers(),
		"order":      orderHandlers(),
		"consumer":   consumerHandlers(),
		"system":     systemHandlers(),
	}
}

// CommandRun executes a command within the session context.
// Scopes other than auth and system require a logged-in user; admin scopes require the admin role.
func (s *Session) CommandRun(ctx context.Context, cmd model.Command) (interface{}, error) {
	s.touch()

	scopeHandlers, ok := s.commandHandlers[cmd.Scope]
	if !ok {
		return nil, fmt.Errorf("invalid command scope: %s", cmd.Scope)
	}
	if err := s.Auth.Allowed(cmd.Scope); err != nil {
		s.logger.Warn(ctx, "Command rejected", log.Fields{"sessionID": s.ID, "scope": cmd.Scope, "error": err})
		return nil, err
	}
	handler, ok := scopeHandlers[cmd.Operation]
	if !ok {
		return nil, fmt.Errorf("invalid %s operation: %q", cmd.Scope, cmd.Operation)
	}

	result, err := handler(ctx, s, cmd)
	if err != nil && s.Auth.HandleUnauthorized(ctx, err) {
		s.logger.Info(ctx, "Session dropped after authorization failure", log.Fields{"sessionID": s.ID})
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return result, err
}

// Visible reports whether scope is offered to the current user
func (s *Session) Visible(scope string) bool {
	if _, ok := s.commandHandlers[scope]; !ok && scope != "help" {
		return false
	}
	return s.Auth.Allowed(scope) == nil
}

// Operations lists the operations registered for scope
func (s *Session) Operations(scope string) []string {
	ops := make([]string, 0, len(s.commandHandlers[scope]))
	for op := range s.commandHandlers[scope] {
		ops = append(ops, op)
	}
	return ops
}

// Path returns the display names of the selected hierarchy nodes, root first
func (s *Session) Path() []string {
	crumbs := s.Navigator.Breadcrumb()
	out := make([]string, len(crumbs))
	for i, c := range crumbs {
		out[i] = c.Node.Name
	}
	return out
}

// LastActivity returns the time of the last command
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}
