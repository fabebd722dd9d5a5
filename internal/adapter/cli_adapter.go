// Package adapter connects line-oriented front ends to the session package.
package adapter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
	"hompulse/console/internal/session"
)

// CLIAdapter turns input lines into commands for the console sessions it owns
type CLIAdapter struct {
	sessionManager *session.SessionManager
	sessions       map[string]*session.Session
	sessionMutex   sync.RWMutex
	logger         *log.Logger
}

// NewCLIAdapter creates a new CLIAdapter using the provided SessionManager
func NewCLIAdapter(sm *session.SessionManager, logger *log.Logger) *CLIAdapter {
	return &CLIAdapter{
		sessionManager: sm,
		sessions:       make(map[string]*session.Session),
		logger:         logger,
	}
}

// SessionAdd opens a session for a new CLI connection
func (a *CLIAdapter) SessionAdd() (string, error) {
	sessionID, err := a.sessionManager.SessionAdd()
	if err != nil {
		return "", err
	}
	s, ok := a.sessionManager.SessionGet(sessionID)
	if !ok {
		return "", fmt.Errorf("session %s does not exist after addition by cli adapter", sessionID)
	}

	a.sessionMutex.Lock()
	a.sessions[sessionID] = s
	a.sessionMutex.Unlock()
	a.logger.Info(context.Background(), "New CLI session added", log.Fields{"sessionID": sessionID})
	return sessionID, nil
}

// SessionDelete closes a CLI session
func (a *CLIAdapter) SessionDelete(sessionID string) {
	a.sessionMutex.Lock()
	delete(a.sessions, sessionID)
	a.sessionMutex.Unlock()
	a.sessionManager.SessionDelete(sessionID)
}

func (a *CLIAdapter) session(sessionID string) (*session.Session, bool) {
	a.sessionMutex.RLock()
	defer a.sessionMutex.RUnlock()
	s, ok := a.sessions[sessionID]
	return s, ok
}

// ProcessInput parses input and runs it in the session
func (a *CLIAdapter) ProcessInput(ctx context.Context, sessionID, input string) (interface{}, error) {
	cmd, err := ParseCommand(input)
	if err != nil {
		return nil, err
	}
	return a.CommandRun(ctx, sessionID, cmd)
}

// CommandRun runs an already parsed command in the session
func (a *CLIAdapter) CommandRun(ctx context.Context, sessionID string, cmd model.Command) (interface{}, error) {
	return a.sessionManager.SessionRun(ctx, sessionID, cmd)
}

// ParseCommand splits input into scope, operation and arguments.
// Double quotes group words; a backslash escapes the next character.
func ParseCommand(input string) (model.Command, error) {
	args, err := SplitArgs(input)
	if err != nil {
		return model.Command{}, err
	}
	return CommandFromArgs(args)
}

// CommandFromArgs builds a command from already split words
func CommandFromArgs(args []string) (model.Command, error) {
	if len(args) == 0 {
		return model.Command{}, fmt.Errorf("empty command")
	}

	cmd := model.Command{
		Scope: strings.ToLower(args[0]),
		Args:  []string{},
	}
	if len(args) > 1 {
		cmd.Operation = strings.ToLower(args[1])
		cmd.Args = args[2:]
	}
	return cmd, nil
}

// SplitArgs tokenizes a command line
func SplitArgs(input string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuotes, escaped, started := false, false, false

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped, started = true, true
		case r == '"':
			inQuotes = !inQuotes
			started = true
		case (r == ' ' || r == '\t') && !inQuotes:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}

// PromptParts returns the user name and breadcrumb path shown in the prompt
func (a *CLIAdapter) PromptParts(sessionID string) (string, []string) {
	s, ok := a.session(sessionID)
	if !ok {
		return "", nil
	}
	user := s.Auth.User()
	if user == nil {
		return "", nil
	}
	if !s.Auth.IsAdmin() {
		return user.Username, nil
	}
	return user.Username, s.Path()
}

// VisibleScopes lists the scopes the session's user may run, sorted
func (a *CLIAdapter) VisibleScopes(sessionID string) []string {
	s, ok := a.session(sessionID)
	if !ok {
		return nil
	}
	var scopes []string
	for _, scope := range Scopes {
		if s.Visible(scope) {
			scopes = append(scopes, scope)
		}
	}
	sort.Strings(scopes)
	return scopes
}

// Scopes are the command scopes understood by the console
var Scopes = []string{
	"auth", "geo", "partner", "product", "user", "role", "permission",
	"inventory", "finance", "order", "consumer", "system", "help",
}

// AdapterStop closes every session opened by the adapter
func (a *CLIAdapter) AdapterStop() error {
	a.sessionMutex.Lock()
	ids := make([]string, 0, len(a.sessions))
	for id := range a.sessions {
		ids = append(ids, id)
	}
	a.sessions = make(map[string]*session.Session)
	a.sessionMutex.Unlock()

	for _, id := range ids {
		a.sessionManager.SessionDelete(id)
	}
	a.logger.Info(context.Background(), "CLI adapter stopped", log.Fields{"sessions": len(ids)})
	return nil
}
