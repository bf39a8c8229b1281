package asyncapi

import (
	"errors"
	"fmt"
)

// ErrUnresolvedReference is matched by every *UnresolvedReferenceError.
var ErrUnresolvedReference = errors.New("unresolved reference")

// ErrUnsupportedSchemaFormat is matched by every *UnsupportedSchemaFormatError.
var ErrUnsupportedSchemaFormat = errors.New("unsupported schema format")

// ErrUnexpectedValue is matched by every *UnexpectedValueError.
var ErrUnexpectedValue = errors.New("unexpected value")

// ErrNameCollision is matched by every *CollisionError.
var ErrNameCollision = errors.New("type name collision")

// UnresolvedReferenceError reports a pointer with no target in any loaded file.
type UnresolvedReferenceError struct {
	Pointer  string
	Location string
	Context  string
	Reason   string
}

func (e *UnresolvedReferenceError) Error() string {
	msg := fmt.Sprintf("unresolved reference %q", e.Pointer)
	if e.Context != "" {
		msg = e.Context + ": " + msg
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// UnsupportedSchemaFormatError reports a recognized schema format that the
// core does not interpret.
type UnsupportedSchemaFormatError struct {
	Format  string
	Context string
}

func (e *UnsupportedSchemaFormatError) Error() string {
	return fmt.Sprintf("%s: schema format %q is not supported", e.Context, e.Format)
}

func (e *UnsupportedSchemaFormatError) Is(target error) bool {
	return target == ErrUnsupportedSchemaFormat
}

// UnexpectedValueError reports a value outside the accepted vocabulary.
type UnexpectedValueError struct {
	Location string
	Field    string
	Value    any
	Detail   string
}

func (e *UnexpectedValueError) Error() string {
	msg := fmt.Sprintf("%s: unexpected value for %s: %v", e.Location, e.Field, e.Value)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *UnexpectedValueError) Is(target error) bool {
	return target == ErrUnexpectedValue
}

// CollisionError reports two distinct schemas deriving the same type name.
type CollisionError struct {
	Name    string
	Context string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("type name %q derived for %s is already taken by a different schema", e.Name, e.Context)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrNameCollision
}
