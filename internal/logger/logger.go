// Package logger provides verbose logging for the conllu CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// and recovered diagnostics are printed to stderr so a fix or load can
// be audited line by line.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
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

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func printf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	printf("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	printf("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	printf("[WARN] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Diagnostic prints a recovered condition if verbose mode is enabled.
// File access failures are logged as errors, everything else as warnings.
func Diagnostic(d domain.Diagnostic) {
	prefix := "[WARN] "
	if d.Kind == domain.KindFileAccess {
		prefix = "[ERROR] "
	}
	printf(prefix, "%s: %s", d.Kind, d.Error())
}

// Diagnostics prints each diagnostic in order.
func Diagnostics(diags []domain.Diagnostic) {
	for _, d := range diags {
		Diagnostic(d)
	}
}
