package http

import (
	"errors"
	"fmt"
)

// ErrInvalidURL is returned when a call is made with an empty URL.
var ErrInvalidURL = errors.New("invalid URL")

// MissingParameterError reports a path placeholder with no parameter value.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("unknown parameter %s", e.Name)
}

// HTTPError is returned for responses with status >= 400. It carries the
// same decoded result a successful call would have produced.
type HTTPError struct {
	Result *Result
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.Status())
}

// Status returns the response status code.
func (e *HTTPError) Status() int {
	if e.Result == nil {
		return 0
	}
	return e.Result.Status
}

// Data returns the decoded error body.
func (e *HTTPError) Data() any {
	if e.Result == nil {
		return nil
	}
	return e.Result.Data
}

// DecodeError reports a body that could not be decoded under the codec its
// content type implies.
type DecodeError struct {
	Status      int
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %q response (status %d): %v", e.ContentType, e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsHTTPError checks if err is, or wraps, an *HTTPError.
func IsHTTPError(err error) bool {
	var e *HTTPError
	return errors.As(err, &e)
}

// IsMissingParameter checks if err is, or wraps, a *MissingParameterError.
func IsMissingParameter(err error) bool {
	var e *MissingParameterError
	return errors.As(err, &e)
}

// IsDecodeError checks if err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

var errInvalidJSON = errors.New("invalid JSON")
