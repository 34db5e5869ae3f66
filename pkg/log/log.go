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
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/patchdir/pkg/patch"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	opWidth     = 8  // Width for the operation
	statusWidth = 12 // Width for status text
)

// 🎯 Logger prints transfer progress to the console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	base    string
	root    string
	counts  map[string]int
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		counts:  map[string]int{},
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

// 📁 SetDirectory makes file lines relative to the given base and patch root
func (l *Logger) SetDirectory(base, root string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.base = base
	l.root = root
}

var _ patch.Observer = (*Logger)(nil)

// 📝 Observe prints one line per transferred or removed entry
func (l *Logger) Observe(ctx context.Context, ev patch.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	status := statusOf(ev)
	l.counts[status]++

	fmt.Fprintln(l.console, l.formatEvent(ev, status))

	l.zlog.Debug().
		Str("op", ev.Op.String()).
		Str("source", ev.Source).
		Str("destination", ev.Destination).
		Bool("is_dir", ev.IsDir).
		Bool("overwrote", ev.Overwrote).
		Msg("patch entry")
}

func statusOf(ev patch.Event) string {
	switch {
	case ev.Op == patch.OpRemove:
		return "removed"
	case ev.Overwrote:
		return "overwritten"
	default:
		return "new"
	}
}

// 📝 formatEvent formats an event for display
func (l *Logger) formatEvent(ev patch.Event, status string) string {
	var symbol rune
	var symbolColor color.Attribute
	switch status {
	case "removed":
		symbol = '✗'
		symbolColor = color.FgRed
	case "overwritten":
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	var opColor color.Attribute
	switch ev.Op {
	case patch.OpCopy:
		opColor = color.FgCyan
	case patch.OpMove:
		opColor = color.FgYellow
	default:
		opColor = color.FgMagenta
	}

	name := l.display(ev.Source, l.base)
	if ev.IsDir {
		name += string(filepath.Separator)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(opColor).Sprint(fmt.Sprintf("%-*s", opWidth, ev.Op.String())),
		fmt.Sprintf("%-*s", statusWidth, status))
}

func (l *Logger) display(path, root string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// 📝 StartTransfer prints the header for one copy or move request
func (l *Logger) StartTransfer(ctx context.Context, op patch.Op, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.String()),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(l.display(source, l.base)))

	l.zlog.Debug().
		Str("op", op.String()).
		Str("source", source).
		Str("root", l.root).
		Msg("starting transfer")
}

// 📝 Summary prints how many entries ended up in each state and resets the counts
func (l *Logger) Summary() {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s new %d %s overwritten %d %s removed %d\n",
		color.GreenString("✓"), l.counts["new"],
		color.BlueString("⟳"), l.counts["overwritten"],
		color.RedString("✗"), l.counts["removed"])

	l.zlog.Debug().
		Int("new", l.counts["new"]).
		Int("overwritten", l.counts["overwritten"]).
		Int("removed", l.counts["removed"]).
		Msg("transfer summary")

	l.counts = map[string]int{}
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("patchdir")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
