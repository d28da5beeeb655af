// Package errors provides the categorized errors reported by the
// changelog-notify CLI. Each error carries remediation steps and, for
// argument errors, the correct usage line.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory groups errors by who has to act on them.
type ErrorCategory int

const (
	// Argument errors come from flags, positional arguments or input text.
	Argument ErrorCategory = iota
	// Configuration errors come from config files and environment variables.
	Configuration
	// Prerequisite errors mean a file, URL or repository is unavailable.
	Prerequisite
	// Runtime errors happen while extracting or delivering entries.
	Runtime
)

// String returns the label printed in front of an error message.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error with a category and remediation steps.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	// Usage is the correct command line, shown for argument errors.
	Usage string
	Err   error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WithUsage sets the usage line and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	if e == nil {
		return nil
	}
	e.Usage = usage
	return e
}

// New returns a CLIError without an underlying cause.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError returns an Argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return New(Argument, message, remediation...)
}

// NewArgumentErrorWithUsage returns an Argument error showing usage.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return New(Argument, message, remediation...).WithUsage(usage)
}

// Wrap categorizes err, keeping its message. Returns nil for a nil err.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Err: err}
}

// WrapWithMessage categorizes err under "message: err". Returns nil for a
// nil err.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// AsCLIError finds the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
