package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abdul-hamid-achik/hitfetch/packages/http"
	"github.com/fatih/color"
	"github.com/tidwall/pretty"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatPrepared(req *http.PreparedRequest) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold(req.Method()), req.URL)
	f.writeHeaders(req.Headers, cyan)
	if req.Body != "" {
		fmt.Fprintf(f.writer, "\n%s\n", req.Body)
	}
}

func (f *ConsoleFormatter) FormatExchange(ex *Exchange) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if ex.Result == nil {
		if ex.Err != nil {
			f.FormatError(ex.Err)
		}
		return
	}

	resp := ex.Result.Response
	statusText := fmt.Sprintf("%d", ex.Result.Status)
	if resp != nil && resp.Status != "" {
		statusText = resp.Status
	}
	switch {
	case ex.Result.Status >= 400:
		statusText = red(statusText)
	case ex.Result.Status >= 300:
		statusText = yellow(statusText)
	default:
		statusText = green(statusText)
	}

	if ex.Request != nil {
		fmt.Fprintf(f.writer, "%s %s → %s", ex.Request.Method(), ex.Request.URL, statusText)
	} else {
		fmt.Fprintf(f.writer, "%s", statusText)
	}
	if resp != nil {
		fmt.Fprintf(f.writer, " %s", cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))
	}
	fmt.Fprintln(f.writer)

	if f.verbose && resp != nil {
		headers := make(map[string]string, len(resp.Header))
		for k := range resp.Header {
			headers[k] = resp.Header.Get(k)
		}
		f.writeHeaders(headers, cyan)
	}

	if ex.HasData {
		fmt.Fprintln(f.writer)
		f.writeData(ex.Data)
	}

	if len(ex.Captures) > 0 {
		fmt.Fprintln(f.writer)
		names := make([]string, 0, len(ex.Captures))
		for name := range ex.Captures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(f.writer, "%s = %s\n", cyan(name), formatValue(ex.Captures[name], 200))
		}
	}

	if ex.Err != nil && !http.IsHTTPError(ex.Err) {
		f.FormatError(ex.Err)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) writeHeaders(headers map[string]string, paint func(a ...any) string) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(f.writer, "%s: %s\n", paint(k), headers[k])
	}
}

func (f *ConsoleFormatter) writeData(data any) {
	if text, ok := data.(string); ok {
		fmt.Fprintln(f.writer, text)
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(f.writer, "%v\n", data)
		return
	}
	formatted := pretty.Pretty(raw)
	if !f.noColor && !color.NoColor {
		formatted = pretty.Color(formatted, nil)
	}
	_, _ = f.writer.Write(formatted)
}
