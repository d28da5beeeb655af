package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
)

// Exit codes for the changelog-notify CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or input
	ExitInvalidArguments = 3

	// ExitMissingConfiguration indicates required configuration is missing or invalid
	ExitMissingConfiguration = 4
)

// ExitError carries an exit code. Err, if set, is reported by Execute.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError returns an ExitError with no further message.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Configuration:
			return ExitMissingConfiguration
		}
	}
	return ExitFailure
}
