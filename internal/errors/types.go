// Package errors defines the structured error taxonomy used across routegen.
//
// Every failure the generator can raise is a *RouteError carrying a type, a
// stable code and the file or route path involved. All of them are fatal for
// the root being generated; nothing is retried and no partial artifact is
// written.
package errors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConvention ErrorType = "convention"
	ErrorTypeCollision  ErrorType = "collision"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeLazyLayout          = "ERR_LAZY_LAYOUT"
	ErrCodeLazyError           = "ERR_LAZY_ERROR"
	ErrCodeCatchAllLoader      = "ERR_CATCHALL_LOADER"
	ErrCodeIndexName           = "ERR_INDEX_NAME"
	ErrCodeDuplicateRoute      = "ERR_DUPLICATE_ROUTE"
	ErrCodeIdentifierCollision = "ERR_IDENTIFIER_COLLISION"
	ErrCodeMountCollision      = "ERR_MOUNT_COLLISION"
	ErrCodeDuplicateMount      = "ERR_DUPLICATE_MOUNT"
	ErrCodeDuplicateModule     = "ERR_DUPLICATE_MODULE"
	ErrCodeMountNoDefault      = "ERR_MOUNT_NO_DEFAULT"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeInvalidPath         = "ERR_INVALID_PATH"
	ErrCodeReadFailed          = "ERR_READ_FAILED"
	ErrCodeWriteFailed         = "ERR_WRITE_FAILED"
	ErrCodeInternalError       = "ERR_INTERNAL"
)

// RouteError is a structured error type with context.
type RouteError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	// File is the source file relative to the routes directory, if any.
	File string
	// Path is the logical route path involved, if any.
	Path string
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.File != "" {
		parts = append(parts, e.File+":")
	}

	parts = append(parts, e.Message)

	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("(route %s)", e.Path))
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *RouteError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *RouteError) Is(target error) bool {
	var t *RouteError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *RouteError) WithContext(key string, value interface{}) *RouteError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the offending source file.
func (e *RouteError) WithFile(file string) *RouteError {
	e.File = file

	return e
}

// WithPath records the logical route path.
func (e *RouteError) WithPath(path string) *RouteError {
	e.Path = path

	return e
}

// NewConventionError creates a file naming convention violation.
func NewConventionError(code, message string) *RouteError {
	return &RouteError{
		Type:    ErrorTypeConvention,
		Code:    code,
		Message: message,
	}
}

// NewCollisionError creates a path or identifier collision error.
func NewCollisionError(code, message string) *RouteError {
	return &RouteError{
		Type:    ErrorTypeCollision,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *RouteError {
	return &RouteError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *RouteError {
	return &RouteError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *RouteError {
	return &RouteError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is a RouteError with the given code.
func HasCode(err error, code string) bool {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Code == code
	}

	return false
}

// IsConvention checks if an error is a naming convention violation.
func IsConvention(err error) bool {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Type == ErrorTypeConvention
	}

	return false
}

// IsCollision checks if an error is a path or identifier collision.
func IsCollision(err error) bool {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Type == ErrorTypeCollision
	}

	return false
}

// IsConfig checks if an error is a configuration error.
func IsConfig(err error) bool {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Type == ErrorTypeConfig
	}

	return false
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error with fields matching its category.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var re *RouteError
	if !errors.As(err, &re) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	fields := []interface{}{"type", re.Type, "code", re.Code}
	if re.File != "" {
		fields = append(fields, "file", re.File)
	}
	if re.Path != "" {
		fields = append(fields, "route", re.Path)
	}
	keys := make([]string, 0, len(re.Context))
	for k := range re.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k, re.Context[k])
	}

	switch re.Type {
	case ErrorTypeConvention:
		h.logger.Error(ctx, err, "Route file violates naming convention", fields...)
	case ErrorTypeCollision:
		h.logger.Error(ctx, err, "Route collision detected", fields...)
	case ErrorTypeConfig:
		h.logger.Error(ctx, err, "Invalid configuration", fields...)
	default:
		h.logger.Error(ctx, err, "Route generation failed", fields...)
	}
}
