package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "terminal.scrollback_lines")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Pool config
	errors = append(errors, c.validatePool()...)

	// Validate Terminal config
	errors = append(errors, c.validateTerminal()...)

	// Validate TUI config
	errors = append(errors, c.validateTUI()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validatePool validates the PoolConfig
func (c *Config) validatePool() []ValidationError {
	var errors []ValidationError

	const minPoolSize = 1
	const maxPoolSize = 100

	if c.Pool.MaxSize < minPoolSize {
		errors = append(errors, ValidationError{
			Field:   "pool.max_size",
			Value:   c.Pool.MaxSize,
			Message: fmt.Sprintf("must be at least %d", minPoolSize),
		})
	}
	if c.Pool.MaxSize > maxPoolSize {
		errors = append(errors, ValidationError{
			Field:   "pool.max_size",
			Value:   c.Pool.MaxSize,
			Message: fmt.Sprintf("exceeds maximum of %d", maxPoolSize),
		})
	}

	return errors
}

// validateTerminal validates the TerminalConfig
func (c *Config) validateTerminal() []ValidationError {
	var errors []ValidationError

	// Geometry validation
	const minCols = 20
	const maxCols = 500
	const minRows = 5
	const maxRows = 200

	if c.Terminal.Cols < minCols {
		errors = append(errors, ValidationError{
			Field:   "terminal.cols",
			Value:   c.Terminal.Cols,
			Message: fmt.Sprintf("must be at least %d columns", minCols),
		})
	}
	if c.Terminal.Cols > maxCols {
		errors = append(errors, ValidationError{
			Field:   "terminal.cols",
			Value:   c.Terminal.Cols,
			Message: fmt.Sprintf("exceeds maximum of %d columns", maxCols),
		})
	}
	if c.Terminal.Rows < minRows {
		errors = append(errors, ValidationError{
			Field:   "terminal.rows",
			Value:   c.Terminal.Rows,
			Message: fmt.Sprintf("must be at least %d rows", minRows),
		})
	}
	if c.Terminal.Rows > maxRows {
		errors = append(errors, ValidationError{
			Field:   "terminal.rows",
			Value:   c.Terminal.Rows,
			Message: fmt.Sprintf("exceeds maximum of %d rows", maxRows),
		})
	}

	// Scrollback validation
	const minScrollback = 100
	const maxScrollback = 1_000_000

	if c.Terminal.ScrollbackLines < minScrollback {
		errors = append(errors, ValidationError{
			Field:   "terminal.scrollback_lines",
			Value:   c.Terminal.ScrollbackLines,
			Message: fmt.Sprintf("must be at least %d lines", minScrollback),
		})
	}
	if c.Terminal.ScrollbackLines > maxScrollback {
		errors = append(errors, ValidationError{
			Field:   "terminal.scrollback_lines",
			Value:   c.Terminal.ScrollbackLines,
			Message: fmt.Sprintf("exceeds maximum of %d lines", maxScrollback),
		})
	}

	// Shell path validation (empty means use $SHELL, which is valid)
	if c.Terminal.Shell != "" {
		if strings.ContainsRune(c.Terminal.Shell, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "terminal.shell",
				Value:   c.Terminal.Shell,
				Message: "path contains invalid null character",
			})
		}

		const maxPathLength = 4096
		if len(c.Terminal.Shell) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "terminal.shell",
				Value:   c.Terminal.Shell,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	// Capture interval validation
	const minCaptureInterval = 10   // 10ms minimum
	const maxCaptureInterval = 5000 // 5 seconds maximum

	if c.TUI.CaptureIntervalMs < minCaptureInterval {
		errors = append(errors, ValidationError{
			Field:   "tui.capture_interval_ms",
			Value:   c.TUI.CaptureIntervalMs,
			Message: fmt.Sprintf("must be at least %dms", minCaptureInterval),
		})
	}
	if c.TUI.CaptureIntervalMs > maxCaptureInterval {
		errors = append(errors, ValidationError{
			Field:   "tui.capture_interval_ms",
			Value:   c.TUI.CaptureIntervalMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxCaptureInterval),
		})
	}

	// Sidebar width validation (0 means use default, which is valid)
	const minSidebarWidth = 20
	const maxSidebarWidth = 60
	if c.TUI.SidebarWidth != 0 {
		if c.TUI.SidebarWidth < minSidebarWidth {
			errors = append(errors, ValidationError{
				Field:   "tui.sidebar_width",
				Value:   c.TUI.SidebarWidth,
				Message: fmt.Sprintf("must be at least %d columns", minSidebarWidth),
			})
		}
		if c.TUI.SidebarWidth > maxSidebarWidth {
			errors = append(errors, ValidationError{
				Field:   "tui.sidebar_width",
				Value:   c.TUI.SidebarWidth,
				Message: fmt.Sprintf("exceeds maximum of %d columns", maxSidebarWidth),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Log file path validation (empty means use default, which is valid)
	if c.Logging.File != "" {
		if strings.ContainsRune(c.Logging.File, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "logging.file",
				Value:   c.Logging.File,
				Message: "path contains invalid null character",
			})
		}

		const maxPathLength = 4096
		if len(c.Logging.File) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "logging.file",
				Value:   c.Logging.File,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}
