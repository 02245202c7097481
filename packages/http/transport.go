package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// CredentialsInclude asks the transport to send and store cookies.
const CredentialsInclude = "include"

// FetchOptions is everything the transport needs besides the URL.
type FetchOptions struct {
	Method      string
	Headers     map[string]string
	Body        string
	Credentials string
}

// Transport performs a single HTTP exchange and returns the raw response.
// Implementations must not interpret the status code.
type Transport interface {
	Fetch(ctx context.Context, url string, opts FetchOptions) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, url string, opts FetchOptions) (*Response, error)

func (f TransportFunc) Fetch(ctx context.Context, url string, opts FetchOptions) (*Response, error) {
	return f(ctx, url, opts)
}

// NetTransport is the net/http backed Transport.
type NetTransport struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
}

type TransportOption func(*NetTransport)

// NewTransport creates a net/http transport with a cookie jar. No timeout is
// applied unless WithTimeout is given.
func NewTransport(opts ...TransportOption) *NetTransport {
	t := &NetTransport{
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
	}

	for _, opt := range opts {
		opt(t)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !t.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if t.proxyURL != "" {
		proxyURL, err := neturl.Parse(t.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !t.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= t.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	// cookiejar.New never returns a non-nil error
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	t.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       t.timeout,
		CheckRedirect: redirectPolicy,
		Jar:           jar,
	}

	return t
}

func WithTimeout(d time.Duration) TransportOption {
	return func(t *NetTransport) {
		t.timeout = d
	}
}

func WithFollowRedirects(follow bool) TransportOption {
	return func(t *NetTransport) {
		t.followRedirect = follow
	}
}

func WithMaxRedirects(max int) TransportOption {
	return func(t *NetTransport) {
		t.maxRedirects = max
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) TransportOption {
	return func(t *NetTransport) {
		t.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) TransportOption {
	return func(t *NetTransport) {
		t.proxyURL = proxyURL
	}
}

// Fetch sends the request and reads the whole body.
func (t *NetTransport) Fetch(ctx context.Context, url string, opts FetchOptions) (*Response, error) {
	var body io.Reader
	if opts.Body != "" {
		body = strings.NewReader(opts.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, opts.Method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range opts.Headers {
		httpReq.Header.Set(k, v)
	}

	client := t.httpClient
	if opts.Credentials != CredentialsInclude {
		omit := *t.httpClient
		omit.Jar = nil
		client = &omit
	}

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	duration := time.Since(start)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       respBody,
		Duration:   duration,
	}, nil
}
