// Package log provides the leveled, optionally ANSI-colored console logger
// used throughout the optimizer for the progress banners of spec §6.
//
// Grounded on the import shape of the teacher's own (unshipped) log
// package and on github.com/starkandwayne/goutils/ansi's "@color{}" markup,
// which every teacher diagnostic message is built from.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
)

// Level orders the verbosity of a log call.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Logger writes leveled, timestamped messages to a writer, colorizing
// "@x{...}" verbs when the writer is a terminal.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	color  bool
	stamp  bool
}

// Default is the process-wide logger used by package-level helpers.
var Default = New(os.Stderr, Info)

// New builds a Logger writing to w at the given minimum level. Color is
// enabled automatically when w is *os.File and isatty reports a terminal,
// matching the teacher's own isatty-gated ansi output.
func New(w io.Writer, level Level) *Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{out: w, level: level, color: color, stamp: true}
}

// SetColor forces color on or off, overriding the isatty autodetection.
func (l *Logger) SetColor(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = on
}

// SetLevel changes the minimum level that is printed.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) levelColor(level Level) string {
	switch level {
	case Debug:
		return "K"
	case Info:
		return "c"
	case Warn:
		return "Y"
	case Error:
		return "R"
	default:
		return "w"
	}
}

func (l *Logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	prefix := ""
	if l.stamp {
		prefix = time.Now().Format("2006-01-02 15:04:05") + " "
	}
	if !l.color {
		ansi.Color(false)
	}
	line := ansi.Sprintf("%s@%s{[%s]} %s\n", prefix, l.levelColor(level), level, msg)
	fmt.Fprint(l.out, line)
	if !l.color {
		ansi.Color(true)
	}
}

// Banner prints a message with no level prefix or timestamp, used for the
// per-macro/per-candidate progress lines of spec §6 which have their own
// hand-rolled formatting.
func (l *Logger) Banner(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, ansi.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(Error, format, args...) }

func Debugf(format string, args ...any) { Default.Debugf(format, args...) }
func Infof(format string, args ...any)  { Default.Infof(format, args...) }
func Warnf(format string, args ...any)  { Default.Warnf(format, args...) }
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
func Banner(format string, args ...any) { Default.Banner(format, args...) }
