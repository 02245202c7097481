package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Response is the raw response handed back by a Transport.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// HeaderValue returns the named header, matched case-insensitively.
func (r *Response) HeaderValue(key string) string {
	if r.Header == nil {
		return ""
	}
	if v := r.Header.Get(key); v != "" {
		return v
	}
	// Header maps filled by hand may hold non-canonical keys.
	for k, vs := range r.Header {
		if len(vs) > 0 && strings.EqualFold(k, key) {
			return vs[0]
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.HeaderValue("Content-Type")
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// Result is the normalized outcome of a call.
type Result struct {
	// Data is the decoded body: parsed JSON for JSON content types, the body
	// text otherwise. It is unset for 204 responses.
	Data     any
	HasData  bool
	Status   int
	Response *Response
}

// Get evaluates a gjson path against the JSON body. It returns an empty
// gjson.Result when the body was not decoded as JSON.
func (r *Result) Get(path string) gjson.Result {
	if r == nil || r.Response == nil || !r.HasData {
		return gjson.Result{}
	}
	if CodecFor(r.Response.ContentType()) != CodecJSON {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Response.Body, path)
}

// Normalize turns a raw response into a Result or an error. It first stores
// any ntag header in session, then decodes the body and classifies the
// status: 204 carries no data, >= 400 becomes an *HTTPError.
func Normalize(resp *Response, session *Session) (*Result, error) {
	if session != nil {
		session.Observe(resp.HeaderValue(HeaderSessionTag))
	}

	if resp.StatusCode == http.StatusNoContent {
		return &Result{Status: resp.StatusCode, Response: resp}, nil
	}

	data, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Data:     data,
		HasData:  true,
		Status:   resp.StatusCode,
		Response: resp,
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{Result: result}
	}
	return result, nil
}

func decodeBody(resp *Response) (any, error) {
	contentType := resp.ContentType()
	if CodecFor(contentType) != CodecJSON {
		return resp.BodyString(), nil
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, &DecodeError{
			Status:      resp.StatusCode,
			ContentType: contentType,
			Err:         errInvalidJSON,
		}
	}
	return gjson.ParseBytes(resp.Body).Value(), nil
}
