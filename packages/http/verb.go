package http

import (
	"fmt"
	"net/http"
	"strings"
)

// Verb is one of the four request methods the client issues.
type Verb int

const (
	Get Verb = iota
	Post
	Put
	Delete
)

// Policy describes how a verb builds its request.
type Policy struct {
	// Method is the HTTP method sent on the wire.
	Method string
	// Query routes the remaining parameters into the query string.
	Query bool
	// Body routes the remaining parameters into the request body.
	Body bool
	// SessionTag attaches the session's ntag header.
	SessionTag bool
	// Defaults are the verb's default headers.
	Defaults map[string]string
	// CallerOverridesDefaults lets caller headers win over Defaults. GET keeps
	// its defaults on top so callers cannot replace accept there.
	CallerOverridesDefaults bool
}

const (
	HeaderAccept      = "accept"
	HeaderContentType = "content-type"
	HeaderSessionTag  = "ntag"

	MIMEJSON = "application/json"
	MIMEForm = "application/x-www-form-urlencoded"
)

var policies = [...]Policy{
	Get: {
		Method:   http.MethodGet,
		Query:    true,
		Defaults: map[string]string{HeaderAccept: MIMEJSON},
	},
	Post: {
		Method:                  http.MethodPost,
		Body:                    true,
		SessionTag:              true,
		Defaults:                map[string]string{HeaderAccept: MIMEJSON, HeaderContentType: MIMEForm},
		CallerOverridesDefaults: true,
	},
	Put: {
		Method:                  http.MethodPut,
		Body:                    true,
		SessionTag:              true,
		Defaults:                map[string]string{HeaderAccept: MIMEJSON, HeaderContentType: MIMEForm},
		CallerOverridesDefaults: true,
	},
	Delete: {
		Method:                  http.MethodDelete,
		Query:                   true,
		SessionTag:              true,
		Defaults:                map[string]string{HeaderAccept: MIMEJSON},
		CallerOverridesDefaults: true,
	},
}

// Policy returns the request policy for v.
func (v Verb) Policy() Policy {
	if v < Get || v > Delete {
		return Policy{}
	}
	return policies[v]
}

func (v Verb) String() string {
	if p := v.Policy(); p.Method != "" {
		return p.Method
	}
	return fmt.Sprintf("Verb(%d)", int(v))
}

// ParseVerb maps a method name to its Verb. "del" is accepted as an alias
// for DELETE.
func ParseVerb(s string) (Verb, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case http.MethodGet:
		return Get, nil
	case http.MethodPost:
		return Post, nil
	case http.MethodPut:
		return Put, nil
	case http.MethodDelete, "DEL":
		return Delete, nil
	}
	return 0, fmt.Errorf("unsupported method %q (expected get, post, put or delete)", s)
}
