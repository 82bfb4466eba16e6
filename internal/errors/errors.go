// Package errors provides structured error handling for the rtk CLI.
//
// It defines UserError, a type that carries structured error information
// including what went wrong, why it happened, and how to fix it, plus a set
// of exit codes matching the error-kind table in spec.md §7.
//
// # Usage
//
//	err := errors.NewDatabaseError(
//	    "Cannot open the memory store",
//	    "database is locked by another rtk process",
//	    "wait for the other command to finish or retry",
//	    underlyingErr,
//	)
//	errors.FatalError(err, jsonOutput)
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitConfig indicates configuration errors (missing/invalid TOML config).
	ExitConfig = 1

	// ExitDatabase indicates artifact-store errors (locked, corrupted, etc.).
	ExitDatabase = 2

	// ExitNetwork indicates subprocess/transport errors (git, rg, delegate binary).
	ExitNetwork = 3

	// ExitInput indicates invalid user input (bad arguments, empty parameters).
	ExitInput = 4

	// ExitPermission indicates permission denied errors (file access, etc.).
	ExitPermission = 5

	// ExitNotFound indicates resource not found errors (project, file, etc.).
	ExitNotFound = 6

	// ExitStale indicates a strict-mode freshness violation (spec.md §4.7).
	ExitStale = 7

	// ExitNoMatch indicates a write command found nothing to change
	// (NO_MATCH / EMPTY_PATTERN from spec.md §4.12/§7).
	ExitNoMatch = 8

	// ExitInternal indicates internal errors (bugs, unexpected panics).
	ExitInternal = 10
)

// UserError represents an error with structured context for end users.
//
// It provides three levels of information: Message (what went wrong),
// Cause (why it happened), and Fix (how to resolve it), plus an exit code
// and an optional wrapped error for errors.Is/errors.As compatibility.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error

	// Code is a terse machine error code (e.g. "NO_MATCH", "EMPTY_PATTERN"),
	// echoed verbatim in write-command response envelopes (spec.md §4.12).
	Code string
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration error with exit code ExitConfig.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitConfig, Err: err}
}

// NewDatabaseError creates an artifact-store error with exit code ExitDatabase.
func NewDatabaseError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitDatabase, Err: err}
}

// NewNetworkError creates a subprocess/transport error with exit code ExitNetwork.
func NewNetworkError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNetwork, Err: err}
}

// NewInputError creates an input validation error with exit code ExitInput.
func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInput}
}

// NewPermissionError creates a permission denied error with exit code ExitPermission.
func NewPermissionError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitPermission, Err: err}
}

// NewNotFoundError creates a resource-not-found error with exit code ExitNotFound.
func NewNotFoundError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNotFound}
}

// NewStaleError creates a strict-mode freshness-violation error (spec.md §4.7).
func NewStaleError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitStale}
}

// NewNoMatchError creates a write-command no-op error carrying a terse code
// (e.g. "NO_MATCH", "EMPTY_PATTERN") for the response envelope.
func NewNoMatchError(code, msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNoMatch, Code: code}
}

// NewInternalError creates an internal error with exit code ExitInternal.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInternal, Err: err}
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display, honoring
// NO_COLOR and the explicit noColor flag. Empty Cause/Fix are omitted.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON is the JSON-serializable form of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError into its JSON-serializable form.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:    e.Message,
		Code:     e.Code,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// FatalError prints err and exits with the appropriate code. It never
// returns. Non-UserError values print a bare message and exit ExitInternal.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
