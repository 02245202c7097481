package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// Exchange is one request and what came back.
type Exchange struct {
	Request *http.PreparedRequest
	// Result is set on success, and on HTTP errors from the error's result.
	Result *http.Result
	Err    error
	// Data is what gets printed as the body; it defaults to Result.Data.
	Data     any
	HasData  bool
	Captures map[string]any
}

// NewExchange fills Result and Data from a client call.
func NewExchange(req *http.PreparedRequest, result *http.Result, err error) *Exchange {
	ex := &Exchange{Request: req, Result: result, Err: err}
	var httpErr *http.HTTPError
	if ex.Result == nil && errors.As(err, &httpErr) {
		ex.Result = httpErr.Result
	}
	if ex.Result != nil {
		ex.Data = ex.Result.Data
		ex.HasData = ex.Result.HasData
	}
	return ex
}

// Formatter renders exchanges.
type Formatter interface {
	FormatPrepared(req *http.PreparedRequest)
	FormatExchange(ex *Exchange)
	FormatError(err error)
}

// New returns the formatter for format ("console" or "json").
func New(format string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(WithJSONWriter(w)), nil
	}
	return nil, fmt.Errorf("unknown output format %q (expected console or json)", format)
}
