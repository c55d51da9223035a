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
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	ruleIndent  = 8  // spaces to indent rule entries
	nameWidth   = 40 // Base width for filename
	statusWidth = 15 // Width for status text
)

// 📊 FileStatus is what happened to one file
type FileStatus string

const (
	StatusRewritten   FileStatus = "rewritten"
	StatusWouldChange FileStatus = "would rewrite"
	StatusUnchanged   FileStatus = "unchanged"
	StatusFailed      FileStatus = "failed"
	StatusRestored    FileStatus = "restored"
	StatusRemoved     FileStatus = "removed"
)

// 🎯 FileOperation represents a file operation for logging
type FileOperation struct {
	Path         string     // File path
	Status       FileStatus // Operation status
	Replacements int        // Number of replacements made
	Backup       bool       // Whether a backup was kept
	Err          error      // Failure, when Status is StatusFailed
}

// 📏 RuleEvent represents one rule applied to one file
type RuleEvent struct {
	Path    string // File path
	Index   int    // Rule index
	Rule    string // Rule as written
	Count   int    // Substitutions made
	Skipped bool   // Suppressed by an earlier gated match
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	verbose bool
	mu      sync.Mutex
	files   int
}

// 🏭 New creates a new logger. Rule events are printed only when verbose is set.
func New(console io.Writer, level zerolog.Level, verbose bool) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		verbose: verbose,
	}
}

// 🔇 Discard returns a logger that prints nothing
func Discard() *Logger {
	return &Logger{
		zlog:    zerolog.Nop(),
		console: io.Discard,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding logger if none was set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// Verbose reports whether rule events are printed
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Files returns how many file operations were logged
func (l *Logger) Files() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.files
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Status {
	case StatusRewritten, StatusRestored:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case StatusWouldChange:
		symbol = '~'
		symbolColor = color.FgYellow
	case StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case StatusRemoved:
		symbol = '-'
		symbolColor = color.FgMagenta
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	detail := ""
	switch {
	case op.Err != nil:
		detail = op.Err.Error()
	case op.Replacements > 0:
		detail = fmt.Sprintf("%d replacements", op.Replacements)
		if op.Backup {
			detail += color.New(color.Faint).Sprint(" (backup kept)")
		}
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, string(op.Status))),
		detail)
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files++
	fmt.Fprintln(l.console, l.formatFileOperation(op))

	ev := l.zlog.Info()
	if op.Err != nil {
		ev = l.zlog.Error().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Str("status", string(op.Status)).
		Int("replacements", op.Replacements).
		Bool("backup", op.Backup).
		Msg("file operation")
}

// 📝 LogRule logs one rule applied to one file, only when verbose
func (l *Logger) LogRule(ctx context.Context, ev RuleEvent) {
	if !l.verbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	outcome := fmt.Sprintf("%d", ev.Count)
	if ev.Skipped {
		outcome = color.New(color.Faint).Sprint("skipped")
	}
	fmt.Fprintf(l.console, "%*s%s %s %s\n",
		ruleIndent, "",
		color.New(color.Faint).Sprintf("#%d", ev.Index),
		ev.Rule,
		outcome)

	l.zlog.Debug().
		Str("file", ev.Path).
		Int("rule", ev.Index).
		Int("count", ev.Count).
		Bool("skipped", ev.Skipped).
		Msg("rule applied")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("librewrite")
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

// 📝 Print writes msg to the console as is
func (l *Logger) Print(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, msg)
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
