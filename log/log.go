// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package level loggers on top of go-ethereum's slog based logger.
package log

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

// WithContext returns a logger carrying ctx on every record.
// The logger binds to the root logger on use, so it can be declared as a package
// variable before the root handler is installed.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Levels in addition to the slog ones.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

var level = new(slog.LevelVar)

// Init installs the root handler. verbosity follows the legacy levels, 0 (crit) to 5 (trace).
func Init(w io.Writer, verbosity int, json, color bool) {
	level.Set(ethlog.FromLegacyLevel(verbosity))
	var h slog.Handler
	if json {
		h = JSONHandlerWithLevel(w, level)
	} else {
		h = TerminalHandlerWithLevel(w, level, color)
	}
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// SetLevel changes the level of the root handler at runtime.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// CurrentLevel returns the level of the root handler.
func CurrentLevel() slog.Level {
	return level.Level()
}

// ParseLevel parses level names such as "debug" or "crit".
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "crit":
		return LevelCrit, true
	}
	return 0, false
}

// LevelName is the inverse of ParseLevel.
func LevelName(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelCrit:
		return "crit"
	}
	return strings.ToLower(l.String())
}

type lazyLogger struct {
	ctx []any

	mu     sync.Mutex
	root   ethlog.Logger
	logger ethlog.Logger
}

func (l *lazyLogger) get() ethlog.Logger {
	root := ethlog.Root()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.root != root {
		l.root = root
		l.logger = root.With(l.ctx...)
	}
	return l.logger
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.get().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.get().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.get().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.get().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.get().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.get().Crit(msg, ctx...) }
