package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// JSONOutput is the document written for one exchange
type JSONOutput struct {
	Request  *JSONRequest   `json:"request,omitempty"`
	Response *JSONResponse  `json:"response,omitempty"`
	Data     any            `json:"data,omitempty"`
	Captures map[string]any `json:"captures,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// JSONRequest represents request details
type JSONRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// JSONResponse represents response details
type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Duration   float64           `json:"duration"`
}

// JSONFormatter writes exchanges as indented JSON
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatPrepared(req *http.PreparedRequest) {
	f.write(&JSONOutput{Request: jsonRequest(req)})
}

func (f *JSONFormatter) FormatExchange(ex *Exchange) {
	out := &JSONOutput{
		Request:  jsonRequest(ex.Request),
		Captures: ex.Captures,
	}
	if ex.HasData {
		out.Data = ex.Data
	}
	if ex.Result != nil {
		out.Response = &JSONResponse{StatusCode: ex.Result.Status}
		if resp := ex.Result.Response; resp != nil {
			out.Response.Status = resp.Status
			out.Response.Duration = float64(resp.Duration.Microseconds()) / 1000
			if len(resp.Header) > 0 {
				out.Response.Headers = make(map[string]string, len(resp.Header))
				for k := range resp.Header {
					out.Response.Headers[k] = resp.Header.Get(k)
				}
			}
		}
	}
	if ex.Err != nil {
		out.Error = ex.Err.Error()
	}
	f.write(out)
}

func (f *JSONFormatter) FormatError(err error) {
	f.write(&JSONOutput{Error: err.Error()})
}

func (f *JSONFormatter) write(out *JSONOutput) {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(out)
}

func jsonRequest(req *http.PreparedRequest) *JSONRequest {
	if req == nil {
		return nil
	}
	return &JSONRequest{
		Method:  req.Method(),
		URL:     req.URL,
		Headers: req.Headers,
		Body:    req.Body,
	}
}
