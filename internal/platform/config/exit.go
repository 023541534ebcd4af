package config

import (
	"fmt"
	"io"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	os.Exit(Fail(os.Stderr, format, args...))
}

// Fail writes a formatted error line to w and returns the exit code a CLI
// should terminate with.
func Fail(w io.Writer, format string, args ...any) int {
	fmt.Fprintf(w, format+"\n", args...)
	return 1
}
