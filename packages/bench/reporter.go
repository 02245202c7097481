package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Reporter handles output for bench runs
type Reporter struct {
	writer  io.Writer
	noColor bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	bold   *color.Color
}

// ReporterOption configures the reporter
type ReporterOption func(*Reporter)

// WithWriter sets the output writer
func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.writer = w
	}
}

// WithNoColor disables colored output
func WithNoColor(noColor bool) ReporterOption {
	return func(r *Reporter) {
		r.noColor = noColor
	}
}

// NewReporter creates a new reporter
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		writer: os.Stdout,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.green = r.color(color.FgGreen)
	r.red = r.color(color.FgRed)
	r.yellow = r.color(color.FgYellow)
	r.cyan = r.color(color.FgCyan)
	r.bold = r.color(color.Bold)

	return r
}

func (r *Reporter) color(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if r.noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// Header prints the run header
func (r *Reporter) Header(method, url string, config *Config) {
	fmt.Fprintln(r.writer)
	r.cyan.Fprintf(r.writer, "Benchmarking: %s %s\n", method, url)

	rateStr := "unlimited"
	if config.Rate > 0 {
		rateStr = fmt.Sprintf("%s req/s", formatFloat(config.Rate))
	}
	fmt.Fprintf(r.writer, "Requests: %d | Rate: %s | Concurrency: %d\n", config.Total, rateStr, config.Concurrency)
	fmt.Fprintln(r.writer)
}

// Summary prints the final summary
func (r *Reporter) Summary(summary *Summary, thresholdResults []ThresholdResult) {
	r.bold.Fprintln(r.writer, "BENCH SUMMARY")
	fmt.Fprintln(r.writer, strings.Repeat("─", 40))

	fmt.Fprintf(r.writer, "Duration:   %s\n", formatDuration(summary.Duration))
	fmt.Fprintf(r.writer, "Total:      ")
	r.bold.Fprintf(r.writer, "%s", formatNumber(summary.TotalRequests))
	fmt.Fprintf(r.writer, " requests (%.1f req/s)\n", summary.RPS)

	fmt.Fprintf(r.writer, "Success:    ")
	r.green.Fprintf(r.writer, "%s", formatNumber(summary.SuccessCount))
	fmt.Fprintf(r.writer, " (%.1f%%)\n", summary.SuccessRate*100)

	fmt.Fprintf(r.writer, "Failed:     ")
	if summary.ErrorCount > 0 {
		r.red.Fprintf(r.writer, "%s", formatNumber(summary.ErrorCount))
	} else {
		fmt.Fprintf(r.writer, "%s", formatNumber(summary.ErrorCount))
	}
	fmt.Fprintf(r.writer, " (%.1f%%)\n", summary.ErrorRate*100)

	if len(summary.StatusCodes) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "STATUS CODES")
		for _, sc := range summary.StatusCodes {
			c := r.green
			switch {
			case sc.Status >= 500:
				c = r.red
			case sc.Status >= 400:
				c = r.yellow
			}
			fmt.Fprint(r.writer, "  ")
			c.Fprintf(r.writer, "%d", sc.Status)
			fmt.Fprintf(r.writer, ": %s\n", formatNumber(sc.Count))
		}
	}

	fmt.Fprintln(r.writer)
	r.bold.Fprintln(r.writer, "LATENCY (ms)")
	fmt.Fprintf(r.writer, "  p50: %-6s | p90: %-6s | p95: %-6s | p99: %s\n",
		formatLatencyMs(summary.P50),
		formatLatencyMs(summary.P90),
		formatLatencyMs(summary.P95),
		formatLatencyMs(summary.P99))
	fmt.Fprintf(r.writer, "  min: %-6s | max: %-6s | mean: %-5s | stddev: %s\n",
		formatLatencyMs(summary.Min),
		formatLatencyMs(summary.Max),
		formatLatencyMs(summary.Mean),
		formatLatencyMs(summary.StdDev))

	if len(thresholdResults) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "THRESHOLDS")
		for _, tr := range thresholdResults {
			if tr.Passed {
				r.green.Fprintf(r.writer, "  ✓ ")
			} else {
				r.red.Fprintf(r.writer, "  ✗ ")
			}
			fmt.Fprintf(r.writer, "%s %s    (actual: %s)\n", tr.Name, tr.Expected, tr.Actual)
		}

		fmt.Fprintln(r.writer)
		if AllPassed(thresholdResults) {
			r.green.Fprintln(r.writer, "All thresholds passed!")
		} else {
			r.red.Fprintln(r.writer, "Some thresholds failed!")
		}
	}

	fmt.Fprintln(r.writer)
}

type jsonSummary struct {
	Duration   string            `json:"duration"`
	Requests   jsonRequests      `json:"requests"`
	RPS        float64           `json:"rps"`
	ErrorRate  float64           `json:"errorRate"`
	LatencyMs  map[string]int64  `json:"latencyMs"`
	Status     map[string]int64  `json:"status,omitempty"`
	Thresholds []ThresholdResult `json:"thresholds,omitempty"`
}

type jsonRequests struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
}

// JSONSummary outputs the summary as JSON
func (r *Reporter) JSONSummary(summary *Summary, thresholdResults []ThresholdResult) error {
	out := jsonSummary{
		Duration: summary.Duration.String(),
		Requests: jsonRequests{
			Total:   summary.TotalRequests,
			Success: summary.SuccessCount,
			Failed:  summary.ErrorCount,
		},
		RPS:       summary.RPS,
		ErrorRate: summary.ErrorRate,
		LatencyMs: map[string]int64{
			"p50":  summary.P50.Milliseconds(),
			"p90":  summary.P90.Milliseconds(),
			"p95":  summary.P95.Milliseconds(),
			"p99":  summary.P99.Milliseconds(),
			"min":  summary.Min.Milliseconds(),
			"max":  summary.Max.Milliseconds(),
			"mean": summary.Mean.Milliseconds(),
		},
		Thresholds: thresholdResults,
	}
	if len(summary.StatusCodes) > 0 {
		out.Status = make(map[string]int64, len(summary.StatusCodes))
		for _, sc := range summary.StatusCodes {
			out.Status[fmt.Sprint(sc.Status)] = sc.Count
		}
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}

// formatLatencyMs formats latency in milliseconds
func formatLatencyMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000
	if ms < 1 {
		return fmt.Sprintf("%.2f", ms)
	}
	if ms < 10 {
		return fmt.Sprintf("%.1f", ms)
	}
	return fmt.Sprintf("%.0f", ms)
}

// formatNumber formats a number with commas
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}

	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	start := len(s) % 3
	if start == 0 {
		start = 3
	}

	result = append(result, s[:start]...)
	for i := start; i < len(s); i += 3 {
		result = append(result, ',')
		result = append(result, s[i:i+3]...)
	}

	return string(result)
}
