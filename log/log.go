// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package scoped loggers writing through the go-ethereum
// root logger. The root is resolved on every record, so loggers declared at
// package level follow a handler installed later by Init.
package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Logger writes records carrying a fixed context.
type Logger struct {
	ctx []any
}

// WithContext returns a logger adding ctx to every record.
func WithContext(ctx ...any) *Logger {
	return &Logger{ctx}
}

func (l *Logger) write(level slog.Level, msg string, kv []any) {
	root := ethlog.Root()
	if !root.Enabled(context.Background(), level) {
		return
	}
	root.With(l.ctx...).Write(level, msg, kv...)
}

func (l *Logger) Trace(msg string, kv ...any) { l.write(ethlog.LevelTrace, msg, kv) }
func (l *Logger) Debug(msg string, kv ...any) { l.write(ethlog.LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.write(ethlog.LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.write(ethlog.LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.write(ethlog.LevelError, msg, kv) }

// Init installs the root handler. verbosity follows the legacy scale, 0 for
// silent up to 5 for trace. Terminal output is colored when w is a tty.
func Init(w io.Writer, verbosity int, json bool) {
	var h slog.Handler
	if json {
		h = ethlog.JSONHandler(w)
	} else {
		useColor := false
		if f, ok := w.(interface{ Fd() uintptr }); ok {
			useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		h = ethlog.NewTerminalHandler(w, useColor)
	}
	glog := ethlog.NewGlogHandler(h)
	glog.Verbosity(ethlog.FromLegacyLevel(verbosity))
	ethlog.SetDefault(ethlog.NewLogger(glog))
}
