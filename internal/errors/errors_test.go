package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// CapacityError Tests
// -----------------------------------------------------------------------------

func TestNewCapacityError(t *testing.T) {
	err := NewCapacityError(10)

	if err.Limit != 10 {
		t.Errorf("Limit = %d, want 10", err.Limit)
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
	if !strings.Contains(err.Error(), "10") {
		t.Errorf("Error() = %q, expected the limit to appear", err.Error())
	}
}

func TestCapacityError_Is(t *testing.T) {
	err := NewCapacityError(10)

	if !Is(err, ErrPoolFull) {
		t.Error("expected CapacityError to match ErrPoolFull")
	}
	if Is(err, ErrNotFound) {
		t.Error("CapacityError should not match ErrNotFound")
	}

	var capacity *CapacityError
	if !As(err, &capacity) {
		t.Error("expected As to extract *CapacityError")
	}
}

func TestCapacityError_WrappedThroughFmt(t *testing.T) {
	err := fmt.Errorf("create failed: %w", NewCapacityError(5))

	if !Is(err, ErrPoolFull) {
		t.Error("expected wrapped CapacityError to match ErrPoolFull")
	}
	var capacity *CapacityError
	if !As(err, &capacity) {
		t.Fatal("expected As to extract *CapacityError through wrapping")
	}
	if capacity.Limit != 5 {
		t.Errorf("Limit = %d, want 5", capacity.Limit)
	}
}

// -----------------------------------------------------------------------------
// DuplicateOwnerError Tests
// -----------------------------------------------------------------------------

func TestNewDuplicateOwnerError(t *testing.T) {
	err := NewDuplicateOwnerError("project-alpha")

	if err.OwnerKey != "project-alpha" {
		t.Errorf("OwnerKey = %q, want %q", err.OwnerKey, "project-alpha")
	}
	want := "terminal for owner 'project-alpha' already exists"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, ErrDuplicateOwner) {
		t.Error("expected DuplicateOwnerError to match ErrDuplicateOwner")
	}
}

// -----------------------------------------------------------------------------
// NotFoundError Tests
// -----------------------------------------------------------------------------

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("terminal", "project-beta")

	want := "terminal 'project-beta' not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, ErrNotFound) {
		t.Error("expected NotFoundError to match ErrNotFound")
	}
}

func TestNotFoundError_WithCause(t *testing.T) {
	cause := New("registry lookup failed")
	err := NewNotFoundError("snapshot", "abc").WithCause(cause)

	if !strings.Contains(err.Error(), "registry lookup failed") {
		t.Errorf("Error() = %q, expected cause to appear", err.Error())
	}
	if !Is(err, cause) {
		t.Error("expected NotFoundError to match its cause")
	}
}

// -----------------------------------------------------------------------------
// DisposedError Tests
// -----------------------------------------------------------------------------

func TestNewDisposedError(t *testing.T) {
	err := NewDisposedError("getBufferState")

	if err.Op != "getBufferState" {
		t.Errorf("Op = %q, want %q", err.Op, "getBufferState")
	}
	want := "terminal disposed: cannot getBufferState"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, ErrDisposed) {
		t.Error("expected DisposedError to match ErrDisposed")
	}
}

// -----------------------------------------------------------------------------
// RendererError Tests
// -----------------------------------------------------------------------------

func TestNewRendererError(t *testing.T) {
	cause := New("gpu context unavailable")
	err := NewRendererError("gpu", cause)

	if err.Tier != "gpu" {
		t.Errorf("Tier = %q, want %q", err.Tier, "gpu")
	}
	if !Is(err, ErrRendererInit) {
		t.Error("expected RendererError to match ErrRendererInit")
	}
	if !Is(err, cause) {
		t.Error("expected RendererError to match its cause")
	}
	if err.IsUserFacing() {
		t.Error("renderer failures are internal, IsUserFacing() should be false")
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError(t *testing.T) {
	err := NewValidationError("max pool size must be positive").
		WithField("pool.max_size").
		WithValue(-1)

	msg := err.Error()
	if !strings.Contains(msg, "field=pool.max_size") {
		t.Errorf("Error() = %q, expected field context", msg)
	}
	if !strings.Contains(msg, "value=-1") {
		t.Errorf("Error() = %q, expected value context", msg)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("expected ValidationError to match ErrInvalidInput")
	}
}

// -----------------------------------------------------------------------------
// Classification Helper Tests
// -----------------------------------------------------------------------------

func TestClassificationHelpers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		capacity  bool
		duplicate bool
		notFound  bool
		disposed  bool
	}{
		{"capacity", NewCapacityError(10), true, false, false, false},
		{"duplicate", NewDuplicateOwnerError("k"), false, true, false, false},
		{"not found", NewNotFoundError("terminal", "k"), false, false, true, false},
		{"disposed", NewDisposedError("write"), false, false, false, true},
		{"wrapped not found", Wrap(NewNotFoundError("terminal", "k"), "get failed"), false, false, true, false},
		{"plain error", New("boom"), false, false, false, false},
		{"nil", nil, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCapacity(tt.err); got != tt.capacity {
				t.Errorf("IsCapacity = %v, want %v", got, tt.capacity)
			}
			if got := IsDuplicateOwner(tt.err); got != tt.duplicate {
				t.Errorf("IsDuplicateOwner = %v, want %v", got, tt.duplicate)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tt.notFound)
			}
			if got := IsDisposed(tt.err); got != tt.disposed {
				t.Errorf("IsDisposed = %v, want %v", got, tt.disposed)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"capacity", NewCapacityError(10), SeverityWarning},
		{"renderer", NewRendererError("gpu", nil), SeverityInfo},
		{"plain", New("boom"), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"capacity", NewCapacityError(10), "limit 10"},
		{"duplicate", NewDuplicateOwnerError("alpha"), "'alpha' is already open"},
		{"not found", NewNotFoundError("terminal", "beta"), "no terminal for 'beta'"},
		{"disposed", NewDisposedError("search"), "has been closed"},
		{"internal", New("pty read failed"), "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("UserMessage = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("UserMessage = %q, expected to contain %q", got, tt.contains)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(NewCapacityError(10)) {
		t.Error("capacity errors should be user-facing")
	}
	if IsUserFacing(NewRendererError("gpu", nil)) {
		t.Error("renderer errors should not be user-facing")
	}
	if IsUserFacing(errors.New("raw")) {
		t.Error("plain errors should not be user-facing")
	}
	if IsUserFacing(nil) {
		t.Error("nil should not be user-facing")
	}
}

// -----------------------------------------------------------------------------
// Wrap Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := NewNotFoundError("terminal", "k")
	wrapped := Wrap(base, "destroy failed")

	if !strings.HasPrefix(wrapped.Error(), "destroy failed: ") {
		t.Errorf("Wrap message = %q", wrapped.Error())
	}
	if !Is(wrapped, ErrNotFound) {
		t.Error("wrapping should preserve sentinel matching")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := ErrPoolFull
	wrapped := Wrapf(base, "create %q failed", "t11")

	if !strings.Contains(wrapped.Error(), `create "t11" failed`) {
		t.Errorf("Wrapf message = %q", wrapped.Error())
	}
	if !Is(wrapped, ErrPoolFull) {
		t.Error("wrapping should preserve sentinel matching")
	}
}
