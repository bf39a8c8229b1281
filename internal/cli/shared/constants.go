// Package shared provides constants and helpers used across CLI commands.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Command group IDs for organizing help output
const (
	GroupAnalysis = "analysis"
	GroupInfo     = "info"
)

// Exit codes for CLI commands
const (
	ExitSuccess          = 0
	ExitValidationFailed = 1
	ExitInvalidArguments = 3
	ExitMissingInput     = 4
	ExitInternal         = 6
)

// exitError carries an exit code and the error that caused it. The cause has
// already been reported to the user when an exitError is returned.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int, cause error) error {
	return &exitError{code: code, err: cause}
}

// IsExitError reports whether err was already reported by a command.
func IsExitError(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code from an error. Errors that did not come
// from a command are cobra usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitInvalidArguments
}

// NewLogger returns a text logger on w. Only warnings and errors are shown
// unless debug is set.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
