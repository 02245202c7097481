// Package curl translates curl command lines into hitfetch invocations.
package curl

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// Header is one -H value, kept in command-line order.
type Header struct {
	Name  string
	Value string
}

// Command is a parsed curl command.
type Command struct {
	Method   string
	URL      string
	Headers  []Header
	Data     []string
	User     string
	Insecure bool
	Proxy    string
	// DataAsQuery is set by -G: data goes to the query string of a GET.
	DataAsQuery bool
}

// Body joins the -d values the way curl does.
func (c *Command) Body() string {
	return strings.Join(c.Data, "&")
}

func (c *Command) header(name string) (string, bool) {
	for _, h := range c.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Parse parses a single curl command line. Backslash-newline continuations
// are accepted.
func Parse(curlCmd string) (*Command, error) {
	tokens, err := tokenize(strings.ReplaceAll(curlCmd, "\\\n", " "))
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 || tokens[0] != "curl" {
		return nil, fmt.Errorf("not a curl command")
	}

	cmd := &Command{}
	next := func(i int, flag string) (string, error) {
		if i+1 >= len(tokens) {
			return "", fmt.Errorf("missing value for %s", flag)
		}
		return tokens[i+1], nil
	}

	for i := 1; i < len(tokens); i++ {
		token := tokens[i]

		switch token {
		case "-X", "--request":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			cmd.Method = strings.ToUpper(v)
			i++

		case "-H", "--header":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			name, value, ok := strings.Cut(v, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q", v)
			}
			cmd.Headers = append(cmd.Headers, Header{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
			i++

		case "-d", "--data", "--data-raw", "--data-binary", "--data-urlencode":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			if token == "--data-urlencode" {
				v = urlencodeData(v)
			}
			cmd.Data = append(cmd.Data, v)
			i++

		case "--json":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			cmd.Data = append(cmd.Data, v)
			cmd.Headers = append(cmd.Headers,
				Header{Name: "Content-Type", Value: http.MIMEJSON},
				Header{Name: "Accept", Value: http.MIMEJSON})
			i++

		case "-u", "--user":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			cmd.User = v
			i++

		case "-A", "--user-agent", "-e", "--referer", "-b", "--cookie":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			cmd.Headers = append(cmd.Headers, Header{Name: headerForFlag(token), Value: v})
			i++

		case "-x", "--proxy":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			cmd.Proxy = v
			i++

		case "--url":
			v, err := next(i, token)
			if err != nil {
				return nil, err
			}
			cmd.URL = v
			i++

		case "-G", "--get":
			cmd.DataAsQuery = true

		case "-k", "--insecure":
			cmd.Insecure = true

		case "-L", "--location", "-s", "--silent", "-S", "--show-error", "-i", "--include", "-v", "--verbose", "--compressed", "-f", "--fail":
			// no hitfetch equivalent, or already the default

		default:
			if strings.HasPrefix(token, "-") {
				return nil, fmt.Errorf("unsupported curl option %s", token)
			}
			if cmd.URL != "" {
				return nil, fmt.Errorf("more than one URL: %s and %s", cmd.URL, token)
			}
			cmd.URL = token
		}
	}

	if cmd.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	switch {
	case cmd.Method != "":
	case cmd.DataAsQuery:
		cmd.Method = "GET"
	case len(cmd.Data) > 0:
		cmd.Method = "POST"
	default:
		cmd.Method = "GET"
	}

	return cmd, nil
}

func headerForFlag(flag string) string {
	switch flag {
	case "-A", "--user-agent":
		return "User-Agent"
	case "-e", "--referer":
		return "Referer"
	}
	return "Cookie"
}

// urlencodeData applies --data-urlencode's name=content rule.
func urlencodeData(v string) string {
	if name, content, ok := strings.Cut(v, "="); ok {
		return name + "=" + url.QueryEscape(content)
	}
	return url.QueryEscape(v)
}

// ParseAll reads curl commands from r, one per line, joining lines that end
// in a backslash. Blank lines and # comments are skipped.
func ParseAll(r io.Reader) ([]*Command, error) {
	var (
		commands []*Command
		current  strings.Builder
		lineNo   int
		startNo  int
	)

	flush := func() error {
		if current.Len() == 0 {
			return nil
		}
		cmd, err := Parse(current.String())
		if err != nil {
			return fmt.Errorf("line %d: %w", startNo, err)
		}
		commands = append(commands, cmd)
		current.Reset()
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if current.Len() == 0 {
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			startNo = lineNo
		}

		if strings.HasSuffix(line, "\\") {
			current.WriteString(strings.TrimSuffix(line, "\\"))
			current.WriteString(" ")
			continue
		}
		current.WriteString(line)
		if err := flush(); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return commands, nil
}

// Args returns the hitfetch arguments that send the same request: the verb,
// the URL, one key=value or key:=json per body field, then flags.
func (c *Command) Args() ([]string, error) {
	verb, err := http.ParseVerb(c.Method)
	if err != nil {
		return nil, err
	}
	if len(c.Data) > 0 && !c.DataAsQuery && verb == http.Get {
		return nil, fmt.Errorf("%s with a request body is not supported", verb)
	}

	args := []string{verbCommand(verb), c.URL}

	contentType, _ := c.header("Content-Type")
	params, isJSON, err := bodyParams(c.Body(), contentType)
	if err != nil {
		return nil, err
	}
	args = append(args, params...)

	for _, h := range c.Headers {
		lower := strings.ToLower(h.Name)
		if lower == http.HeaderContentType && (isJSON || strings.HasPrefix(h.Value, http.MIMEForm)) {
			continue
		}
		args = append(args, "-H", h.Name+": "+h.Value)
	}
	if c.User != "" {
		args = append(args, "-H", "Authorization: Basic "+base64.StdEncoding.EncodeToString([]byte(c.User)))
	}
	if isJSON {
		args = append(args, "--json")
	}
	if c.Insecure {
		args = append(args, "--insecure")
	}
	if c.Proxy != "" {
		args = append(args, "--proxy", c.Proxy)
	}
	return args, nil
}

func verbCommand(v http.Verb) string {
	if v == http.Delete {
		return "del"
	}
	return strings.ToLower(v.String())
}

// bodyParams splits a request body into parameters. A JSON object maps its
// top-level fields, strings as key=value and everything else as key:=json.
// Anything else is read as a urlencoded form.
func bodyParams(body, contentType string) ([]string, bool, error) {
	if body == "" {
		return nil, false, nil
	}

	trimmed := strings.TrimSpace(body)
	looksJSON := strings.Contains(contentType, "json") || strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
	if looksJSON {
		if !gjson.Valid(trimmed) {
			return nil, false, fmt.Errorf("body is not valid JSON")
		}
		parsed := gjson.Parse(trimmed)
		if !parsed.IsObject() {
			return nil, false, fmt.Errorf("only JSON object bodies can be expressed as parameters")
		}
		var params []string
		parsed.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String {
				params = append(params, key.String()+"="+value.String())
			} else {
				params = append(params, key.String()+":="+value.Raw)
			}
			return true
		})
		return params, true, nil
	}

	var params []string
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(name)
		if err != nil {
			return nil, false, fmt.Errorf("form field %q: %w", name, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, false, fmt.Errorf("form field %q: %w", name, err)
		}
		params = append(params, k+"="+v)
	}
	return params, false, nil
}

// ShellJoin quotes args for a POSIX shell.
func ShellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=@%+,", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// tokenize splits a command line the way a POSIX shell would for the
// subset curl snippets use: single quotes, double quotes and backslash
// escapes.
func tokenize(cmd string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && !inSingleQuote:
			escaped = true
			inToken = true
		case r == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			inToken = true
		case r == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			inToken = true
		case (r == ' ' || r == '\t' || r == '\n') && !inSingleQuote && !inDoubleQuote:
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if inSingleQuote || inDoubleQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
