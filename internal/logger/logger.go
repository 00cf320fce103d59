package logger

import (
	"io"
	"os"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Printf is the signature shared by every leveled printing function.
type Printf func(format string, a ...any)

// Logger bundles colorized printing functions for the different log levels together
// with an optional JSON event sink. A Logger is built once per command invocation and
// handed to every component that needs to report progress, instead of living in a
// package-level variable.
//
// Call sites keep the explicit level prefix and trailing newline:
//
//	log.Info("[INFO] Installed %s\n", name)
type Logger struct {
	// Info logs informational messages in green.
	Info Printf
	// Warn logs warnings in bright magenta.
	Warn Printf
	// Error logs errors in red.
	Error Printf
	// Debug logs debug messages in cyan when debug output is enabled, otherwise it is a no-op.
	Debug Printf

	debug bool
	sink  *EventSink
}

// Options configures a Logger.
type Options struct {
	Debug bool      // Enable cyan debug output
	Out   io.Writer // Destination for Info/Warn/Debug; defaults to stdout
	Err   io.Writer // Destination for Error; defaults to stderr
	Sink  *EventSink
}

// New returns a Logger writing to the configured writers.
func New(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	l := &Logger{
		Info:  printer(color.New(color.FgGreen), out),
		Warn:  printer(color.New(color.FgHiMagenta), out),
		Error: printer(color.New(color.FgRed), errOut),
		debug: opts.Debug,
		sink:  opts.Sink,
	}
	if opts.Debug {
		l.Debug = printer(color.New(color.FgCyan), out)
	} else {
		// No-op so callers never have to check the flag themselves.
		l.Debug = func(format string, a ...any) {}
	}
	return l
}

// Discard returns a Logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(Options{Out: io.Discard, Err: io.Discard})
}

// DebugEnabled reports whether debug output was requested.
func (l *Logger) DebugEnabled() bool {
	return l.debug
}

// Event records a structured entry in the event sink, if one is attached.
func (l *Logger) Event(e Entry) {
	if l.sink == nil {
		return
	}
	if err := l.sink.Write(e); err != nil {
		l.Debug("[DEBUG] Failed to write log event: %v\n", err)
	}
}

func printer(c *color.Color, w io.Writer) Printf {
	return func(format string, a ...any) {
		_, _ = c.Fprintf(w, format, a...)
	}
}
