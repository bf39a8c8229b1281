package cli

import (
	"errors"
	"io/fs"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/cli/shared"
	clierrors "github.com/eventforge/asyncgen/internal/errors"
	"github.com/eventforge/asyncgen/internal/generate"
)

// Exit codes for the asyncgen CLI (re-exported from shared)
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = shared.ExitSuccess

	// ExitValidationFailed indicates the document is invalid or cannot be
	// resolved
	ExitValidationFailed = shared.ExitValidationFailed

	// ExitInvalidArguments indicates invalid command arguments or config
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitMissingInput indicates the document or a referenced file is missing
	ExitMissingInput = shared.ExitMissingInput

	// ExitInternal indicates a fault in asyncgen itself
	ExitInternal = shared.ExitInternal
)

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

// exitCodeFor classifies an error returned by the pipeline or by argument
// and config handling.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, fs.ErrNotExist):
		return ExitMissingInput
	case errors.Is(err, generate.ErrValidationFailed),
		errors.Is(err, asyncapi.ErrUnresolvedReference),
		errors.Is(err, asyncapi.ErrUnsupportedSchemaFormat),
		errors.Is(err, asyncapi.ErrUnexpectedValue),
		errors.Is(err, asyncapi.ErrNameCollision):
		return ExitValidationFailed
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingInput
		case clierrors.Validation:
			return ExitValidationFailed
		}
	}
	return ExitInternal
}
