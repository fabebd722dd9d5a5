// Package ui renders console output: messages, tables and the prompt.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrInterrupted is returned when input is cancelled with Ctrl+C
var ErrInterrupted = errors.New("interrupted")

// UI writes console output, optionally coloured
type UI struct {
	writer   io.Writer
	useColor bool
}

// NewUI creates a UI writing to w. Colour is disabled when w is not a terminal.
func NewUI(w io.Writer, useColor bool) *UI {
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		useColor = false
	}
	return &UI{writer: w, useColor: useColor}
}

// Writer returns the underlying writer
func (u *UI) Writer() io.Writer {
	return u.writer
}

// Colorize wraps message in color when colour output is on
func (u *UI) Colorize(message string, color Color) string {
	return u.colorize(message, color)
}

func (u *UI) colorize(message string, color Color) string {
	if !u.useColor || color == ColorDefault || color == "" {
		return message
	}
	return fmt.Sprintf("%s%s%s", color, message, ColorDefault)
}

func (u *UI) Print(message string) {
	fmt.Fprint(u.writer, message)
}

func (u *UI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(u.writer, format, args...)
}

func (u *UI) Println(message string) {
	fmt.Fprintln(u.writer, message)
}

func (u *UI) PrintlnColored(message string, color Color) {
	fmt.Fprintln(u.writer, u.colorize(message, color))
}

func (u *UI) Error(message string) {
	u.Printf("%s %s\n", u.colorize("!", ColorRed), u.colorize(message, ColorLightOrange))
}

func (u *UI) Success(message string) {
	u.PrintlnColored(message, ColorLightGreen)
}

func (u *UI) Warning(message string) {
	u.Printf("%s %s\n", u.colorize("?", ColorLightRed), u.colorize(message, ColorLightYellow))
}

func (u *UI) Info(message string) {
	u.PrintlnColored(message, ColorGray)
}

// Prompt builds the top bar shown before each command: "user @ Zone/State > "
func (u *UI) Prompt(user string, path []string) string {
	var b strings.Builder
	if user != "" {
		b.WriteString(u.colorize(user, ColorLightBlue))
		if len(path) > 0 {
			b.WriteString(u.colorize(" @ ", ColorWhite))
			b.WriteString(u.colorize(strings.Join(path, "/"), ColorLightPurple))
		}
		b.WriteString(" ")
	}
	b.WriteString(u.colorize("> ", ColorGreen))
	return b.String()
}

// ReadPassword prompts for a password without echo
func (u *UI) ReadPassword(prompt string) (string, error) {
	u.Print(prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password input requires a terminal")
	}
	password, err := term.ReadPassword(fd)
	u.Println("")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
