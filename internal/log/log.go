// Package log provides structured logging of console commands, errors and diagnostics
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"hompulse/console/internal/model"
)

// Fields carries structured attributes attached to a log record
type Fields map[string]interface{}

// LogMessage represents a message queued for the writer goroutine
type LogMessage struct {
	Level   LogLevel
	Content string
	Fields  Fields
	Context context.Context
}

// Logger writes commands, errors and info records to separate JSON handlers.
// Records are queued on a channel and written by a single goroutine.
type Logger struct {
	commandLogger *slog.Logger
	errorLogger   *slog.Logger
	infoLogger    *slog.Logger
	files         []io.Closer
	logChan       chan LogMessage
	wg            sync.WaitGroup
	mu            sync.RWMutex
	closed        bool
	level         LogLevel
}

// NewLogger creates a new Logger writing to the files named in the config
func NewLogger(cfg *model.Config) (*Logger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(cfg.LogFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var files []io.Closer
	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(cfg.LogFolder, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			for _, c := range files {
				c.Close()
			}
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		files = append(files, f)
		return f, nil
	}

	commandFile, err := open(cfg.CommandLog)
	if err != nil {
		return nil, err
	}
	errorFile, err := open(cfg.ErrorLog)
	if err != nil {
		return nil, err
	}
	infoFile, err := open(cfg.InfoLog)
	if err != nil {
		return nil, err
	}

	l := newLogger(commandFile, errorFile, infoFile, ParseLevel(cfg.LogLevel))
	l.files = files
	return l, nil
}

// NewWriterLogger creates a Logger that writes every stream to w.
// It is used for --log-stderr and in tests.
func NewWriterLogger(w io.Writer, level LogLevel) *Logger {
	return newLogger(w, w, w, level)
}

func newLogger(commandOut, errorOut, infoOut io.Writer, level LogLevel) *Logger {
	l := &Logger{
		commandLogger: slog.New(slog.NewJSONHandler(commandOut, &slog.HandlerOptions{Level: slog.LevelInfo})),
		errorLogger:   slog.New(slog.NewJSONHandler(errorOut, &slog.HandlerOptions{Level: slog.LevelError})),
		infoLogger:    slog.New(slog.NewJSONHandler(infoOut, &slog.HandlerOptions{Level: level.toSlogLevel()})),
		logChan:       make(chan LogMessage, 100),
		level:         level,
	}

	// Start the logging goroutine
	l.wg.Add(1)
	go l.processLogs()

	return l
}

// processLogs drains the channel until it is closed
func (l *Logger) processLogs() {
	defer l.wg.Done()
	for msg := range l.logChan {
		attrs := fieldsToAttrs(msg.Fields)
		ctx := msg.Context
		if ctx == nil {
			ctx = context.Background()
		}
		switch msg.Level {
		case LevelCommand:
			l.commandLogger.LogAttrs(ctx, slog.LevelInfo, msg.Content, attrs...)
		case LevelError:
			l.errorLogger.LogAttrs(ctx, slog.LevelError, msg.Content, attrs...)
		default:
			l.infoLogger.LogAttrs(ctx, msg.Level.toSlogLevel(), msg.Content, attrs...)
		}
	}
}

func fieldsToAttrs(fields Fields) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *Logger) send(ctx context.Context, level LogLevel, msg string, fields Fields) {
	if l == nil {
		return
	}
	if level > l.level && level != LevelCommand && level != LevelError {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	l.logChan <- LogMessage{Level: level, Content: msg, Fields: fields, Context: ctx}
}

// Command logs an executed console command
func (l *Logger) Command(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelCommand, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelError, msg, fields)
}

// Warn logs a warning
func (l *Logger) Warn(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelWarn, msg, fields)
}

// Info logs an informational message
func (l *Logger) Info(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelInfo, msg, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(ctx context.Context, msg string, fields Fields) {
	l.send(ctx, LevelDebug, msg, fields)
}

// Close flushes pending records and closes the log files
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.logChan)
	l.mu.Unlock()

	l.wg.Wait()

	for _, f := range l.files {
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}
	return nil
}
