// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/dcmflat/pkg/flatten"
)

var _ flatten.Sink = (*Logger)(nil)

// 🎯 Logger prints user-facing lines to a console and mirrors every message
// to zerolog with structured fields.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger. zlog is used when the context carries none.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// zerologFor prefers the context logger so patient and run fields come along
func (l *Logger) zerologFor(ctx context.Context) *zerolog.Logger {
	if z := zerolog.Ctx(ctx); z.GetLevel() != zerolog.Disabled {
		return z
	}
	return &l.zlog
}

// 📝 Header logs a header
func (l *Logger) Header(ctx context.Context, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("dcmflat")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zerologFor(ctx).Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(ctx context.Context, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zerologFor(ctx).Info().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(ctx context.Context, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zerologFor(ctx).Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(ctx context.Context, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zerologFor(ctx).Warn().Msg(msg)
}

// 📝 Error logs an error message along with its cause
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		fmt.Fprintf(l.console, "❌ %s: %v\n", color.New(color.FgRed).Sprint(msg), err)
	} else {
		fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	}
	l.zerologFor(ctx).Error().Err(err).Msg(msg)
}

// 📝 LogMove logs the outcome of one file. Moves only reach zerolog at debug
// level; skips and failures are printed.
func (l *Logger) LogMove(ctx context.Context, ev flatten.MoveEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := ev.Message()
	zl := l.zerologFor(ctx)

	var event *zerolog.Event
	switch ev.Outcome {
	case flatten.OutcomeMoved:
		event = zl.Debug().Int64("size", ev.Size)
	case flatten.OutcomeSkippedExists:
		fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
		event = zl.Warn()
	default:
		fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
		event = zl.Error().Err(ev.Err)
	}

	event.
		Str("source", ev.Source).
		Str("destination", ev.Destination).
		Str("outcome", ev.Outcome.String()).
		Msg(msg)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}
