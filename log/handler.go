// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// levelHandler gates an inner handler by a level that can be changed at runtime.
// The inner handler is built at max verbosity and formats whatever passes the gate.
type levelHandler struct {
	lvl   *slog.LevelVar
	inner slog.Handler
}

// TerminalHandlerWithLevel returns go-ethereum's terminal handler filtered by lvl.
func TerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &levelHandler{lvl, ethlog.NewTerminalHandlerWithLevel(wr, ethlog.LevelTrace, useColor)}
}

// JSONHandlerWithLevel returns go-ethereum's JSON handler filtered by lvl.
func JSONHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelHandler{lvl, ethlog.JSONHandlerWithLevel(wr, ethlog.LevelTrace)}
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithGroup(name)}
}
