package cmd

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// Exit codes for hitfetch CLI
const (
	// ExitSuccess indicates the request succeeded
	ExitSuccess = 0

	// ExitHTTPError indicates the server answered with a status >= 400
	ExitHTTPError = 1

	// ExitCheckFailure indicates a schema or bench threshold check failed
	ExitCheckFailure = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitDecodeError indicates a response body that could not be decoded
	ExitDecodeError = 5

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError pins an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func usageError(err error) error  { return withExitCode(ExitUsageError, err) }
func configError(err error) error { return withExitCode(ExitConfigError, err) }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	switch {
	case http.IsHTTPError(err):
		return ExitHTTPError
	case http.IsDecodeError(err):
		return ExitDecodeError
	case http.IsMissingParameter(err), errors.Is(err, http.ErrInvalidURL):
		return ExitUsageError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitNetworkError
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return ExitNetworkError
	}

	return ExitHTTPError
}
