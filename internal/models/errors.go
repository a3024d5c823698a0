package models

import (
	"errors"
	"fmt"
)

// ErrorKind represents different categories of configuration errors
type ErrorKind int

const (
	ErrNotFound ErrorKind = iota
	ErrPermissionDenied
	ErrParse
	ErrInvalidSection
	ErrInvalidOption
	ErrCompose
	ErrURL
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrNotFound:
		return "NotFound"
	case ErrPermissionDenied:
		return "PermissionDenied"
	case ErrParse:
		return "ParseError"
	case ErrInvalidSection:
		return "InvalidSection"
	case ErrInvalidOption:
		return "InvalidOption"
	case ErrCompose:
		return "ComposeError"
	case ErrURL:
		return "UrlError"
	default:
		return "Unknown"
	}
}

// ConfigError represents an error raised while reading or rewriting a
// configuration file.
type ConfigError struct {
	Kind ErrorKind
	Path string
	Err  error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
}

// Unwrap returns the wrapped error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewError builds a ConfigError of the given kind from a format string.
func NewError(kind ErrorKind, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WrapError builds a ConfigError of the given kind around an underlying
// error, recording the file or URL it relates to.
func WrapError(kind ErrorKind, path string, err error) *ConfigError {
	return &ConfigError{Kind: kind, Path: path, Err: err}
}

// IsKind reports whether err is (or wraps) a ConfigError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var cerr *ConfigError
	return errors.As(err, &cerr) && cerr.Kind == kind
}
