// Package chiselerr provides the structured error taxonomy used at the
// driver boundary and inside passes (spec §7).
package chiselerr

import (
	"errors"
	"fmt"
)

// DriverKind categorises a driver-level failure.
type DriverKind string

const (
	MissingRequiredField DriverKind = "missing_required_field"
	InvalidField         DriverKind = "invalid_field"
	ModuleNotFound       DriverKind = "module_not_found"
	PathResolution       DriverKind = "path_resolution"
	Internal             DriverKind = "internal"
)

// DriverError is the error type returned at the driver boundary.
type DriverError struct {
	Kind   DriverKind
	Object string
	Field  string
	Cause  error
}

func (e *DriverError) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("missing required field %q on %s", e.Field, e.Object)
	case InvalidField:
		return fmt.Sprintf("invalid field %q on %s", e.Field, e.Object)
	case ModuleNotFound:
		return fmt.Sprintf("pass %q not found", e.Object)
	case PathResolution:
		return fmt.Sprintf("could not resolve path %q for %s", e.Field, e.Object)
	case Internal:
		if e.Cause != nil {
			return fmt.Sprintf("internal error in %s: %s: %v", e.Object, e.Field, e.Cause)
		}
		return fmt.Sprintf("internal error in %s: %s", e.Object, e.Field)
	default:
		return fmt.Sprintf("driver error (%s)", e.Kind)
	}
}

func (e *DriverError) Unwrap() error { return e.Cause }

// NewMissingRequiredField reports that object lacks a required field.
func NewMissingRequiredField(object, field string) *DriverError {
	return &DriverError{Kind: MissingRequiredField, Object: object, Field: field}
}

// NewInvalidField reports that object's field holds a malformed or unknown value.
func NewInvalidField(object, field string) *DriverError {
	return &DriverError{Kind: InvalidField, Object: object, Field: field}
}

// NewModuleNotFound reports an unregistered pass identity.
func NewModuleNotFound(identity string) *DriverError {
	return &DriverError{Kind: ModuleNotFound, Object: identity}
}

// NewPathResolution reports that path could not be canonicalised for object.
func NewPathResolution(object, path string) *DriverError {
	return &DriverError{Kind: PathResolution, Object: object, Field: path}
}

// NewInternal wraps cause as an internal driver error, tagging it with the
// offending object (typically a ruleset or pass identity) and a short info
// string.
func NewInternal(object, info string, cause error) *DriverError {
	return &DriverError{Kind: Internal, Object: object, Field: info, Cause: cause}
}

// PassKind categorises a pass-level failure.
type PassKind string

const (
	NotSupported PassKind = "not_supported"
	NotFound     PassKind = "not_found"
	CustomKind   PassKind = "custom"
)

// PassError is the error type returned by passes.
type PassError struct {
	Kind    PassKind
	Message string
}

func (e *PassError) Error() string {
	switch e.Kind {
	case NotSupported:
		return "not supported"
	case NotFound:
		return "not found"
	case CustomKind:
		return e.Message
	default:
		return fmt.Sprintf("pass error (%s)", e.Kind)
	}
}

// ErrNotSupported is returned by a pass when the requested operation form
// (in-place vs functional) or configuration is unavailable.
var ErrNotSupported = &PassError{Kind: NotSupported}

// ErrNotFound is returned by a pass when a required section is absent.
var ErrNotFound = &PassError{Kind: NotFound}

// Custom wraps a back-end or format-level message as a pass error.
func Custom(format string, args ...any) *PassError {
	return &PassError{Kind: CustomKind, Message: fmt.Sprintf(format, args...)}
}

// IsNotSupported reports whether err is (or wraps) ErrNotSupported.
func IsNotSupported(err error) bool {
	var pe *PassError
	return errors.As(err, &pe) && pe.Kind == NotSupported
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	var pe *PassError
	return errors.As(err, &pe) && pe.Kind == NotFound
}
