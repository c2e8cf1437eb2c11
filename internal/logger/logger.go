// Package logger provides verbose diagnostics for the kra CLI.
// Nothing is printed unless --verbose is set; results the user must see
// are written to the command output instead.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
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
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a per-notebook or per-cell detail.
func Debug(format string, args ...any) { logf("DEBUG", format, args...) }

// Info prints a batch-level progress message.
func Info(format string, args ...any) { logf("INFO", format, args...) }

// Warn prints a recoverable problem, such as a remote fetch falling back
// to sample data.
func Warn(format string, args ...any) { logf("WARN", format, args...) }

// Section prints a header separating the phases of a batch.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Elapsed prints how long label took since start, rounded to milliseconds.
func Elapsed(label string, start time.Time) {
	logf("TIME", "%s: %s", label, time.Since(start).Round(time.Millisecond))
}

func logf(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}
