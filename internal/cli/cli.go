// Package cli runs the interactive console and command scripts.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"hompulse/console/internal/adapter"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
	"hompulse/console/internal/session"
	"hompulse/console/internal/ui"
)

// PasswordReader reads a password without echo
type PasswordReader func(prompt string) (string, error)

// CLI represents the command-line interface
type CLI struct {
	adapter      *adapter.CLIAdapter
	ui           *ui.UI
	sessionID    string
	historyFile  string
	readPassword PasswordReader
	logger       *log.Logger
}

// NewCLI creates a new CLI instance with its own session
func NewCLI(a *adapter.CLIAdapter, u *ui.UI, historyFile string, logger *log.Logger) (*CLI, error) {
	sessionID, err := a.SessionAdd()
	if err != nil {
		return nil, fmt.Errorf("failed to open console session: %w", err)
	}
	return &CLI{
		adapter:      a,
		ui:           u,
		sessionID:    sessionID,
		historyFile:  historyFile,
		readPassword: u.ReadPassword,
		logger:       logger,
	}, nil
}

// SetPasswordReader replaces the reader used when 'auth login' is given no password
func (c *CLI) SetPasswordReader(r PasswordReader) {
	c.readPassword = r
}

// Close ends the CLI session
func (c *CLI) Close() {
	c.adapter.SessionDelete(c.sessionID)
}

// Run starts the interactive loop and returns when the user exits or ctx is cancelled
func (c *CLI) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            c.prompt(),
		HistoryFile:       c.historyFile,
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize line editor: %w", err)
	}
	defer rl.Close()

	c.readPassword = func(prompt string) (string, error) {
		b, err := rl.ReadPassword(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Unblock Readline on shutdown
	stop := context.AfterFunc(ctx, func() { rl.Close() })
	defer stop()

	c.ui.Println("HOM Pulse admin console")
	c.ui.Info("Type 'help' for a list of commands or 'system exit' to quit.")

	for {
		rl.SetPrompt(c.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				c.ui.Info("Use 'system exit' to quit.")
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := c.Execute(ctx, line); err != nil {
			if errors.Is(err, session.ErrExit) {
				return nil
			}
			c.ui.Error(err.Error())
		}
	}
}

// Exec runs commands read from r, one per line. Blank lines and lines
// starting with '#' are skipped. Execution stops at the first failing
// command unless keepGoing is set; the number of failures is returned in the error.
func (c *CLI) Exec(ctx context.Context, r io.Reader, keepGoing bool) error {
	scanner := bufio.NewScanner(r)
	lineNo, failed := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.Execute(ctx, line)
		if errors.Is(err, session.ErrExit) {
			break
		}
		if err != nil {
			failed++
			c.ui.Error(fmt.Sprintf("line %d: %v", lineNo, err))
			c.logger.Warn(ctx, "Script command failed", log.Fields{"line": lineNo, "error": err})
			if !keepGoing {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d command(s) failed", failed)
	}
	return nil
}

// Execute runs a single input line and renders its result
func (c *CLI) Execute(ctx context.Context, line string) error {
	cmd, err := adapter.ParseCommand(line)
	if err != nil {
		return err
	}
	return c.execute(ctx, cmd)
}

// ExecuteArgs runs a command given as separate words, as passed on the shell command line
func (c *CLI) ExecuteArgs(ctx context.Context, args []string) error {
	cmd, err := adapter.CommandFromArgs(args)
	if err != nil {
		return err
	}
	return c.execute(ctx, cmd)
}

func (c *CLI) execute(ctx context.Context, cmd model.Command) error {
	if cmd.Scope == "help" {
		args := cmd.Args
		if cmd.Operation != "" {
			args = append([]string{cmd.Operation}, cmd.Args...)
		}
		c.printHelp(args)
		return nil
	}

	if cmd.Scope == "auth" && cmd.Operation == "login" && len(cmd.Args) == 1 {
		if c.readPassword == nil {
			return fmt.Errorf("auth login: password required")
		}
		password, err := c.readPassword("Password: ")
		if err != nil {
			return err
		}
		cmd.Args = append(cmd.Args, password)
	}

	result, err := c.adapter.CommandRun(ctx, c.sessionID, cmd)
	if err != nil {
		return err
	}
	c.render(result)
	return nil
}

// render prints a command result
func (c *CLI) render(result interface{}) {
	switch v := result.(type) {
	case nil:
	case string:
		c.ui.Success(v)
	case *ui.Table:
		c.ui.Table(v)
	case error:
		c.ui.Error(v.Error())
	default:
		c.ui.Println(fmt.Sprint(v))
	}
}

func (c *CLI) prompt() string {
	return c.ui.Prompt(c.adapter.PromptParts(c.sessionID))
}
