package http

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Client issues requests built from URL templates and normalizes their
// responses. A Client is safe for concurrent use.
//
// Each Client owns a Session unless one is shared in with WithSession.
type Client struct {
	transport Transport
	session   *Session
	logger    *slog.Logger
	baseURL   string
}

type ClientOption func(*Client)

// NewClient creates a client. Without WithTransport it uses NewTransport().
func NewClient(opts ...ClientOption) *Client {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = NewTransport()
	}
	if c.session == nil {
		c.session = NewSession()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithSession shares s with the client. Clients holding the same Session see
// each other's ntag updates.
func WithSession(s *Session) ClientOption {
	return func(c *Client) {
		c.session = s
	}
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithBaseURL prefixes every resolved URL that does not already carry a
// scheme.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

// PreparedRequest is a fully built request that has not been sent.
type PreparedRequest struct {
	Verb        Verb
	URL         string
	Headers     map[string]string
	Body        string
	Credentials string
}

// Method returns the HTTP method.
func (r *PreparedRequest) Method() string {
	return r.Verb.String()
}

// Prepare builds the request for v without sending it. It fails with
// ErrInvalidURL for an empty url and with *MissingParameterError when a
// placeholder has no value.
func (c *Client) Prepare(v Verb, url string, params *Params, headers map[string]string) (*PreparedRequest, error) {
	if url == "" {
		return nil, ErrInvalidURL
	}

	policy := v.Policy()
	if policy.Method == "" {
		return nil, fmt.Errorf("unsupported verb %v", v)
	}

	remaining := params.Without(Placeholders(url)...)

	// path substitution runs against the full parameter set
	path, err := ResolvePath(url, params)
	if err != nil {
		return nil, err
	}

	var query []string
	if policy.Query {
		query = BuildQuery(remaining)
	}

	composed := ComposeHeaders(v, c.session.Tag(), headers)

	var body string
	if policy.Body {
		body, err = EncodeBody(composed[HeaderContentType], remaining)
		if err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}
	}

	return &PreparedRequest{
		Verb:        v,
		URL:         c.absolute(BuildURL(path, query)),
		Headers:     composed,
		Body:        body,
		Credentials: CredentialsInclude,
	}, nil
}

// Do builds and sends a request for v. Construction errors are returned
// before the transport is called. Responses with status >= 400 come back as
// *HTTPError, undecodable bodies as *DecodeError.
func (c *Client) Do(ctx context.Context, v Verb, url string, params *Params, headers map[string]string) (*Result, error) {
	req, err := c.Prepare(v, url, params, headers)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, req)
}

// Send hands a prepared request to the transport and normalizes the response.
func (c *Client) Send(ctx context.Context, req *PreparedRequest) (*Result, error) {
	method := req.Method()
	c.logger.Debug("request dispatch", "method", method, "url", req.URL)

	start := time.Now()
	resp, err := c.transport.Fetch(ctx, req.URL, FetchOptions{
		Method:      method,
		Headers:     req.Headers,
		Body:        req.Body,
		Credentials: req.Credentials,
	})
	if err != nil {
		c.logger.Debug("request failed", "method", method, "url", req.URL, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}

	before := c.session.Tag()
	result, err := Normalize(resp, c.session)
	if c.session.Tag() != before {
		c.logger.Debug("session tag updated", "method", method, "url", req.URL)
	}
	c.logger.Debug("request complete", "method", method, "url", req.URL, "status", resp.StatusCode, "duration", time.Since(start))
	return result, err
}

func (c *Client) Get(url string, params *Params, headers map[string]string) (*Result, error) {
	return c.Do(context.Background(), Get, url, params, headers)
}

func (c *Client) Post(url string, params *Params, headers map[string]string) (*Result, error) {
	return c.Do(context.Background(), Post, url, params, headers)
}

func (c *Client) Put(url string, params *Params, headers map[string]string) (*Result, error) {
	return c.Do(context.Background(), Put, url, params, headers)
}

func (c *Client) Delete(url string, params *Params, headers map[string]string) (*Result, error) {
	return c.Do(context.Background(), Delete, url, params, headers)
}

// Del is an alias for Delete.
func (c *Client) Del(url string, params *Params, headers map[string]string) (*Result, error) {
	return c.Delete(url, params, headers)
}

func (c *Client) absolute(u string) string {
	if c.baseURL == "" || strings.Contains(u, "://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return c.baseURL + u
}
