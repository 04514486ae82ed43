// Package errors provides custom error types for leasesync.
// These errors enable programmatic error checking and map cleanly onto
// the tool's exit behavior: configuration errors are detected before any
// network activity, everything else aborts the run in flight.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for leasesync
var (
	// ErrNotFound indicates that a requested remote resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthFailed indicates that authentication against a remote system failed
	ErrAuthFailed = errors.New("authentication failed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// ConfigError represents a configuration error detected at startup,
// before any network call is made.
type ConfigError struct {
	Setting string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Setting != "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Setting, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(setting, message string, err error) *ConfigError {
	return &ConfigError{
		Setting: setting,
		Message: message,
		Err:     err,
	}
}

// APIError represents an error response from one of the remote systems.
type APIError struct {
	System     string // "opnsense" or "phpipam"
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d) on %s: %s", e.System, e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error from %s on %s: %s", e.System, e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(system string, statusCode int, endpoint, message string) *APIError {
	return &APIError{
		System:     system,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// AuthenticationError represents an authentication failure against a
// remote system, including the "2xx response but no token" phpIPAM case.
type AuthenticationError struct {
	System  string
	Method  string // "basic", "app_code", "token"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.System != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.System, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthFailed
}

// ParseError represents an error when decoding a remote payload.
type ParseError struct {
	Format  string // "json"
	Source  string // what was being parsed, e.g. "arp response"
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthFailed checks if an error is an authentication failure
func IsAuthFailed(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// IsConfig checks if an error is a configuration error
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(system, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		System:   system,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}
