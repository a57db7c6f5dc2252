// Package debug provides conditional debug logging for skare.
//
// Debug logging is enabled by setting the SKARE_DEBUG environment variable.
// The TUI owns the terminal, so messages go to the file named by
// SKARE_DEBUG_FILE when set and to stderr otherwise:
//
//	SKARE_DEBUG=1 SKARE_DEBUG_FILE=/tmp/skare.log skare
//
// When disabled (default), all functions are no-ops.
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("SKARE_DEBUG") == "" {
		return
	}
	var out io.Writer = os.Stderr
	if path := os.Getenv("SKARE_DEBUG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			out = f
		}
	}
	enabled = true
	logger = newLogger(out)
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[SKARE_DEBUG] ", log.Ltime|log.Lmicroseconds)
}

// SetOutput enables logging to w, or disables it when w is nil.
func SetOutput(w io.Writer) {
	if w == nil {
		enabled = false
		logger = nil
		return
	}
	enabled = true
	logger = newLogger(w)
}

// Log writes a printf-style debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}
