package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// networkFlags are the connection flags shared by request and bench commands.
type networkFlags struct {
	BaseURL  string
	Headers  []string
	NTag     string
	JSON     bool
	Timeout  string
	Proxy    string
	Insecure bool
}

func addNetworkFlags(cmd *cobra.Command, f *networkFlags) {
	cmd.Flags().StringVar(&f.BaseURL, "base-url", "", "Base URL prefixed to relative templates (env: HITFETCH_BASE_URL)")
	cmd.Flags().StringArrayVarP(&f.Headers, "header", "H", nil, "Request header 'Name: value' (repeatable)")
	cmd.Flags().StringVar(&f.NTag, "ntag", "", "Seed the session tag sent on POST, PUT and DELETE")
	cmd.Flags().BoolVar(&f.JSON, "json", false, "Send the body as JSON (content-type: application/json)")
	cmd.Flags().StringVar(&f.Timeout, "timeout", "", "Request timeout, e.g. 30s or 500ms (env: HITFETCH_TIMEOUT)")
	cmd.Flags().StringVar(&f.Proxy, "proxy", "", "Proxy URL for HTTP requests (env: HITFETCH_PROXY)")
	cmd.Flags().BoolVarP(&f.Insecure, "insecure", "k", getEnvBool("HITFETCH_INSECURE", false), "Disable SSL certificate validation (env: HITFETCH_INSECURE)")
}

// headers merges config headers, -H headers and --json, lower-casing names
// so later sources replace earlier ones regardless of case.
func (a *app) headers(f *networkFlags) (map[string]string, error) {
	parsed, err := parseHeaders(f.Headers)
	if err != nil {
		return nil, usageError(err)
	}

	headers := make(map[string]string, len(a.cfg.Headers)+len(parsed)+1)
	for k, v := range a.cfg.Headers {
		headers[strings.ToLower(k)] = v
	}
	for k, v := range parsed {
		headers[strings.ToLower(k)] = v
	}
	if f.JSON {
		headers[http.HeaderContentType] = http.MIMEJSON
	}
	return headers, nil
}

// newClient builds a client from the merged config and flags. session may be
// nil for a fresh one.
func (a *app) newClient(f *networkFlags, session *http.Session) *http.Client {
	opts := []http.TransportOption{
		http.WithFollowRedirects(a.cfg.GetFollowRedirects()),
		http.WithValidateSSL(a.cfg.GetValidateSSL() && !f.Insecure),
	}
	if a.cfg.MaxRedirects > 0 {
		opts = append(opts, http.WithMaxRedirects(a.cfg.MaxRedirects))
	}
	proxy := a.cfg.Proxy
	if f.Proxy != "" {
		proxy = f.Proxy
	}
	if proxy != "" {
		opts = append(opts, http.WithProxy(proxy))
	}

	baseURL := a.cfg.BaseURL
	if f.BaseURL != "" {
		baseURL = f.BaseURL
	}

	if session == nil {
		session = http.NewSession()
	}
	if f.NTag != "" {
		session.SetTag(f.NTag)
	}

	return http.NewClient(
		http.WithTransport(http.NewTransport(opts...)),
		http.WithSession(session),
		http.WithLogger(a.logger),
		http.WithBaseURL(baseURL),
	)
}
