// Package logger provides verbose logging for the groundwork CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace ingestion, ranking and feature recording.
//
// Pipeline stage events are written separately, one line per event,
// whenever an event writer is set, regardless of verbose mode.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	events  io.Writer
	clock   = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetEventOutput sets the writer for pipeline stage events.
// A nil writer disables events.
func SetEventOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	events = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
	}
}

// Event records a pipeline stage outcome as a single line:
//
//	2026-01-02T03:04:05Z stage=ingest status=success file=a.pdf rows=12
//
// Fields are alternating key/value pairs. A trailing key without a value is dropped.
func Event(stage, status string, fields ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if events == nil {
		return
	}

	var b strings.Builder
	b.WriteString(clock().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, " stage=%s status=%s", stage, status)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%s", fields[i], quote(fmt.Sprint(fields[i+1])))
	}
	b.WriteByte('\n')

	io.WriteString(events, b.String()) //nolint:errcheck
}

// quote wraps values containing spaces or quotes so lines stay parseable.
func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\"=") {
		return fmt.Sprintf("%q", v)
	}
	return v
}
