// Package errors provides centralized error definitions and error handling
// utilities for the termdock codebase. It defines the pool's error taxonomy,
// semantic error types, constructors with context wrapping, and
// classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Pool taxonomy errors represent contract violations of the terminal pool:
//   - CapacityError: admission denied, the pool is at its hard limit
//   - DuplicateOwnerError: an owner key is already registered
//   - NotFoundError: an operation referenced an unknown resource
//   - DisposedError: state was read from a disposed terminal handle
//   - RendererError: a renderer tier failed to initialize (internal only,
//     always swallowed by the fallback chain and surfaced as a log warning)
//
// Semantic errors represent common conditions shared by other subsystems:
//   - ValidationError: invalid input or configuration
//
// # Usage
//
// Creating errors:
//
//	// Pool taxonomy error
//	err := errors.NewCapacityError(maxSize)
//
//	// Semantic error
//	err := errors.NewNotFoundError("terminal", "project-alpha")
//
// Checking errors:
//
//	// Check for sentinel errors
//	if errors.Is(err, errors.ErrPoolFull) { ... }
//
//	// Check for error types
//	var notFound *errors.NotFoundError
//	if errors.As(err, &notFound) { ... }
//
//	// Use classification helpers
//	if errors.IsCapacity(err) { ... }
//	msg := errors.UserMessage(err)
//
// # Error Classification
//
// Errors carry a severity and a user-facing flag. UserMessage translates any
// error into a string safe to show in the workbench status bar; internal
// errors collapse to a generic message while taxonomy errors produce
// actionable text (for example directing the user to close a terminal when
// the pool is full).
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Pool-related sentinel errors
var (
	// ErrPoolFull indicates the pool is at capacity and admission was denied.
	ErrPoolFull = New("terminal pool is full")
	// ErrDuplicateOwner indicates an owner key already has a terminal.
	ErrDuplicateOwner = New("owner key already registered")
	// ErrNotFound indicates an operation referenced an unknown resource.
	ErrNotFound = New("not found")
)

// Handle-related sentinel errors
var (
	// ErrDisposed indicates state was read from a disposed terminal handle.
	ErrDisposed = New("terminal is disposed")
	// ErrNotAttached indicates an operation required a visual surface.
	ErrNotAttached = New("terminal is not attached")
)

// Renderer-related sentinel errors
var (
	// ErrRendererInit indicates a renderer tier failed to initialize.
	// Never propagated to pool callers; the fallback chain swallows it.
	ErrRendererInit = New("renderer initialization failed")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// TermdockError is the base interface for all termdock errors.
// It extends the standard error interface with methods for error
// handling and classification.
type TermdockError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Pool Taxonomy Errors
// -----------------------------------------------------------------------------

// CapacityError reports that the pool rejected a create because the hard
// admission limit was reached. The pool never evicts to make room; callers
// must destroy a terminal explicitly and retry.
//
// Example:
//
//	err := errors.NewCapacityError(10)
//	fmt.Println(err) // "pool capacity exceeded: 10 terminals already open"
type CapacityError struct {
	baseError
	Limit int
}

// NewCapacityError creates a new CapacityError for the given pool limit.
func NewCapacityError(limit int) *CapacityError {
	return &CapacityError{
		baseError: baseError{
			message:    fmt.Sprintf("pool capacity exceeded: %d terminals already open", limit),
			severity:   SeverityWarning,
			userFacing: true,
		},
		Limit: limit,
	}
}

// WithCause adds a cause to the error.
func (e *CapacityError) WithCause(cause error) *CapacityError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *CapacityError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Is checks if this error matches the target.
func (e *CapacityError) Is(target error) bool {
	if _, ok := target.(*CapacityError); ok {
		return true
	}
	if errors.Is(target, ErrPoolFull) {
		return true
	}
	return e.baseError.Is(target)
}

// DuplicateOwnerError reports a violation of the pool's 1:1 owner-to-handle
// policy: the owner key already has a live terminal.
//
// Example:
//
//	err := errors.NewDuplicateOwnerError("project-alpha")
//	fmt.Println(err) // "terminal for owner 'project-alpha' already exists"
type DuplicateOwnerError struct {
	baseError
	OwnerKey string
}

// NewDuplicateOwnerError creates a new DuplicateOwnerError.
func NewDuplicateOwnerError(ownerKey string) *DuplicateOwnerError {
	return &DuplicateOwnerError{
		baseError: baseError{
			message:    fmt.Sprintf("terminal for owner '%s' already exists", ownerKey),
			severity:   SeverityWarning,
			userFacing: true,
		},
		OwnerKey: ownerKey,
	}
}

// WithCause adds a cause to the error.
func (e *DuplicateOwnerError) WithCause(cause error) *DuplicateOwnerError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *DuplicateOwnerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Is checks if this error matches the target.
func (e *DuplicateOwnerError) Is(target error) bool {
	if _, ok := target.(*DuplicateOwnerError); ok {
		return true
	}
	if errors.Is(target, ErrDuplicateOwner) {
		return true
	}
	return e.baseError.Is(target)
}

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("terminal", "project-alpha")
//	fmt.Println(err) // "terminal 'project-alpha' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if errors.Is(target, ErrNotFound) {
		return true
	}
	return e.baseError.Is(target)
}

// DisposedError reports a read of state from a disposed terminal handle.
// Write-family operations on a disposed handle degrade to logged no-ops
// instead; only state reads produce this error, because returning stale or
// empty data to a caller persisting buffers would be worse than failing.
//
// Example:
//
//	err := errors.NewDisposedError("getBufferState")
//	fmt.Println(err) // "terminal disposed: cannot getBufferState"
type DisposedError struct {
	baseError
	Op string
}

// NewDisposedError creates a new DisposedError for the named operation.
func NewDisposedError(op string) *DisposedError {
	return &DisposedError{
		baseError: baseError{
			message:    fmt.Sprintf("terminal disposed: cannot %s", op),
			severity:   SeverityWarning,
			userFacing: true,
		},
		Op: op,
	}
}

// WithCause adds a cause to the error.
func (e *DisposedError) WithCause(cause error) *DisposedError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *DisposedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Is checks if this error matches the target.
func (e *DisposedError) Is(target error) bool {
	if _, ok := target.(*DisposedError); ok {
		return true
	}
	if errors.Is(target, ErrDisposed) {
		return true
	}
	return e.baseError.Is(target)
}

// RendererError reports that a renderer tier failed to initialize. The
// fallback chain logs it and tries the next tier; pool callers never see it.
type RendererError struct {
	baseError
	Tier string
}

// NewRendererError creates a new RendererError for the named tier.
func NewRendererError(tier string, cause error) *RendererError {
	return &RendererError{
		baseError: baseError{
			message:    fmt.Sprintf("renderer tier '%s' failed", tier),
			cause:      cause,
			severity:   SeverityInfo,
			userFacing: false,
		},
		Tier: tier,
	}
}

// Error returns the formatted error message.
func (e *RendererError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Is checks if this error matches the target.
func (e *RendererError) Is(target error) bool {
	if _, ok := target.(*RendererError); ok {
		return true
	}
	if errors.Is(target, ErrRendererInit) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or configuration.
//
// Example:
//
//	err := errors.NewValidationError("max pool size must be positive")
//	err = err.WithField("pool.max_size").WithValue(-1)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsCapacity returns true if the error reports pool admission denial.
func IsCapacity(err error) bool {
	return err != nil && Is(err, ErrPoolFull)
}

// IsDuplicateOwner returns true if the error reports an owner key collision.
func IsDuplicateOwner(err error) bool {
	return err != nil && Is(err, ErrDuplicateOwner)
}

// IsNotFound returns true if the error reports a missing resource.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDisposed returns true if the error reports a read from a disposed handle.
func IsDisposed(err error) bool {
	return err != nil && Is(err, ErrDisposed)
}

// IsUserFacing returns true if the error message is safe to display to end
// users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    displayToUser(err.Error())
//	} else {
//	    displayToUser("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var tdErr TermdockError
	if As(err, &tdErr) {
		return tdErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement TermdockError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var tdErr TermdockError
	if As(err, &tdErr) {
		return tdErr.Severity()
	}

	return SeverityError
}

// UserMessage translates an error into a short string fit for the workbench
// status bar. Taxonomy errors produce actionable text; anything not marked
// user-facing collapses to a generic message so internal details never
// reach the screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var capacity *CapacityError
	if As(err, &capacity) {
		return fmt.Sprintf("too many terminals open (limit %d) - close one and retry", capacity.Limit)
	}

	var duplicate *DuplicateOwnerError
	if As(err, &duplicate) {
		return fmt.Sprintf("a terminal for '%s' is already open", duplicate.OwnerKey)
	}

	var notFound *NotFoundError
	if As(err, &notFound) {
		return fmt.Sprintf("no %s for '%s'", notFound.ResourceType, notFound.ResourceID)
	}

	var disposed *DisposedError
	if As(err, &disposed) {
		return "that terminal has been closed"
	}

	if IsUserFacing(err) {
		return err.Error()
	}
	return "internal error - see log file"
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with an additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to construct engine")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to attach terminal %s", ownerKey)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
