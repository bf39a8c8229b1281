package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/discovery"
)

// MissingSpecFile reports a document path that does not exist.
func MissingSpecFile(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("AsyncAPI document not found: %s", path),
		"Check the path passed on the command line",
		"Relative $ref targets are resolved against the document's directory",
	)
}

// MissingDocumentArgument reports a command invoked without a document.
func MissingDocumentArgument(command string) *CLIError {
	return NewArgumentErrorWithUsage(
		"an AsyncAPI document path is required",
		fmt.Sprintf("asyncgen %s <document.yaml>", command),
		"Pass the root document of the API",
	)
}

// ConfigParseError reports a config file that could not be loaded.
func ConfigParseError(path string, err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("failed to load config %s: %v", path, err),
		Remediation: []string{
			"Check the file is valid JSON",
			"Run 'asyncgen version' to print the config paths in use",
		},
		Cause: err,
	}
}

// InvalidCollisionPolicy reports an unknown --collision value.
func InvalidCollisionPolicy(value string) *CLIError {
	names := make([]string, 0, len(discovery.CollisionPolicies))
	for _, p := range discovery.CollisionPolicies {
		names = append(names, string(p))
	}
	return NewArgumentError(
		fmt.Sprintf("invalid collision policy %q", value),
		fmt.Sprintf("Use one of: %s", strings.Join(names, ", ")),
	)
}

// UnresolvedReference reports a $ref with no target.
func UnresolvedReference(err *asyncapi.UnresolvedReferenceError) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  err.Error(),
		Remediation: []string{
			fmt.Sprintf("Check that %s exists", err.Location),
			"Pointers are case-sensitive; '~1' escapes '/' and '~0' escapes '~'",
		},
		Cause: err,
	}
}

// UnsupportedSchemaFormat reports a recognized but unimplemented dialect.
func UnsupportedSchemaFormat(err *asyncapi.UnsupportedSchemaFormatError) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  err.Error(),
		Remediation: []string{
			"Convert the payload to an AsyncAPI or JSON Schema schemaFormat",
		},
		Cause: err,
	}
}

// NameCollision reports two promoted schemas deriving the same name.
func NameCollision(err *asyncapi.CollisionError) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  err.Error(),
		Remediation: []string{
			"Give one of the inline schemas a distinct title",
			"Or rerun with --collision suffix or --collision first-wins",
		},
		Cause: err,
	}
}

// FromDomain maps pipeline errors to CLI errors with remediation. Errors
// that already are CLI errors are returned as is; anything unrecognized
// becomes a runtime error.
func FromDomain(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		unresolved  *asyncapi.UnresolvedReferenceError
		unsupported *asyncapi.UnsupportedSchemaFormatError
		collision   *asyncapi.CollisionError
		pathErr     *fs.PathError
	)
	switch {
	case stderrors.As(err, &unresolved):
		return UnresolvedReference(unresolved)
	case stderrors.As(err, &unsupported):
		return UnsupportedSchemaFormat(unsupported)
	case stderrors.As(err, &collision):
		return NameCollision(collision)
	case stderrors.As(err, &pathErr) && stderrors.Is(err, fs.ErrNotExist):
		return MissingSpecFile(pathErr.Path)
	default:
		return Wrap(err, Runtime)
	}
}
