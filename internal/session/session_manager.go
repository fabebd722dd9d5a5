package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

const (
	defaultCleanupInterval = time.Minute
	defaultSessionTimeout  = 30 * time.Minute
)

// ErrSessionNotFound is returned for an unknown or expired session id
var ErrSessionNotFound = errors.New("session not found")

// ErrStopped is returned for commands submitted after Stop
var ErrStopped = errors.New("session manager stopped")

// SessionManager manages console sessions and runs their commands one at a time
type SessionManager struct {
	services Services
	timeout  time.Duration
	logger   *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	commandQueue chan commandExecution
	done         chan struct{}
	stopOnce     sync.Once
}

// commandExecution represents a command to be executed in a session and the channel for its outcome
type commandExecution struct {
	ctx     context.Context
	session *Session
	command model.Command
	reply   chan commandResult
}

type commandResult struct {
	value interface{}
	err   error
}

// NewSessionManager starts the command executor and the idle-session cleanup.
// A zero timeout uses the default of 30 minutes.
func NewSessionManager(services Services, timeout time.Duration, logger *log.Logger) *SessionManager {
	if timeout <= 0 {
		timeout = defaultSessionTimeout
	}
	sm := &SessionManager{
		services:     services,
		timeout:      timeout,
		logger:       logger,
		sessions:     make(map[string]*Session),
		commandQueue: make(chan commandExecution),
		done:         make(chan struct{}),
	}
	go sm.commandExecutor()
	go sm.cleanupRoutine(cleanupInterval(timeout))

	logger.Info(context.Background(), "SessionManager created", log.Fields{"timeout": timeout.String()})
	return sm
}

func cleanupInterval(timeout time.Duration) time.Duration {
	if half := timeout / 2; half < defaultCleanupInterval {
		return half
	}
	return defaultCleanupInterval
}

// SessionAdd creates a new session and returns its ID
func (sm *SessionManager) SessionAdd() (string, error) {
	id := uuid.NewString()
	s, err := NewSession(id, sm.services, sm.logger)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	sm.mu.Lock()
	sm.sessions[id] = s
	sm.mu.Unlock()

	sm.logger.Info(context.Background(), "New session added", log.Fields{"sessionID": id})
	return id, nil
}

// SessionGet retrieves a session by its ID
func (sm *SessionManager) SessionGet(sessionID string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[sessionID]
	return s, ok
}

// SessionDelete removes a session
func (sm *SessionManager) SessionDelete(sessionID string) {
	sm.mu.Lock()
	_, ok := sm.sessions[sessionID]
	delete(sm.sessions, sessionID)
	sm.mu.Unlock()

	if ok {
		sm.logger.Info(context.Background(), "Session deleted", log.Fields{"sessionID": sessionID})
	}
}

// SessionCount returns the number of open sessions
func (sm *SessionManager) SessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// SessionRun queues a command for a session and waits for its outcome
func (sm *SessionManager) SessionRun(ctx context.Context, sessionID string, cmd model.Command) (interface{}, error) {
	select {
	case <-sm.done:
		return nil, ErrStopped
	default:
	}
	s, ok := sm.SessionGet(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	// Log command in command log
	sm.logger.Command(ctx, "Command received", log.Fields{
		"sessionID": sessionID,
		"scope":     cmd.Scope,
		"operation": cmd.Operation,
		"args":      redact(cmd),
	})

	reply := make(chan commandResult, 1)
	select {
	case sm.commandQueue <- commandExecution{ctx: ctx, session: s, command: cmd, reply: reply}:
	case <-sm.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		if res.err != nil && !errors.Is(res.err, ErrExit) {
			sm.logger.Error(ctx, "Command execution failed", log.Fields{"sessionID": sessionID, "error": res.err})
		}
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// commandExecutor processes commands from the queue, one at a time
func (sm *SessionManager) commandExecutor() {
	for {
		select {
		case exec := <-sm.commandQueue:
			value, err := exec.session.CommandRun(exec.ctx, exec.command)
			exec.reply <- commandResult{value: value, err: err}
		case <-sm.done:
			return
		}
	}
}

// cleanupRoutine periodically removes sessions idle for longer than the timeout
func (sm *SessionManager) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sm.cleanupInactiveSessions(time.Now())
		case <-sm.done:
			return
		}
	}
}

func (sm *SessionManager) cleanupInactiveSessions(now time.Time) {
	sm.mu.RLock()
	var idle []string
	for id, s := range sm.sessions {
		if now.Sub(s.LastActivity()) > sm.timeout {
			idle = append(idle, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range idle {
		sm.logger.Info(context.Background(), "Removing inactive session", log.Fields{"sessionID": id})
		sm.SessionDelete(id)
	}
}

// Stop ends the executor and the cleanup routine
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.done)
		sm.logger.Info(context.Background(), "SessionManager stopped", nil)
	})
}

// redact hides the password argument of auth login
func redact(cmd model.Command) []string {
	args := append([]string(nil), cmd.Args...)
	if cmd.Scope == "auth" && cmd.Operation == "login" && len(args) > 1 {
		args[1] = "***"
	}
	for i, arg := range args {
		if k, _, ok := cutField(arg); ok && k == "password" {
			args[i] = "password:***"
		}
	}
	return args
}
