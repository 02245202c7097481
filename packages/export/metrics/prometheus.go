// Package metrics exports bench results for monitoring systems.
package metrics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitfetch/packages/bench"
)

// Prefix starts every exported metric name.
const Prefix = "hitfetch_bench_"

// Labels are attached to every sample.
type Labels map[string]string

// WritePrometheus writes s in the Prometheus text exposition format.
func WritePrometheus(w io.Writer, s *bench.Summary, labels Labels) error {
	bw := bufio.NewWriter(w)
	base := formatLabels(labels, nil)

	writeFamily(bw, "requests_total", "counter", "Requests sent.")
	fmt.Fprintf(bw, "%srequests_total%s %d\n", Prefix, base, s.TotalRequests)

	writeFamily(bw, "requests_failed_total", "counter", "Requests that failed or returned an error status.")
	fmt.Fprintf(bw, "%srequests_failed_total%s %d\n", Prefix, base, s.ErrorCount)

	writeFamily(bw, "responses_total", "counter", "Responses by status code; 0 means no response.")
	for _, sc := range s.StatusCodes {
		fmt.Fprintf(bw, "%sresponses_total%s %d\n", Prefix, formatLabels(labels, Labels{"status": strconv.Itoa(sc.Status)}), sc.Count)
	}

	writeFamily(bw, "duration_seconds", "gauge", "Wall time of the run.")
	fmt.Fprintf(bw, "%sduration_seconds%s %s\n", Prefix, base, formatFloat(s.Duration.Seconds()))

	writeFamily(bw, "requests_per_second", "gauge", "Achieved request rate.")
	fmt.Fprintf(bw, "%srequests_per_second%s %s\n", Prefix, base, formatFloat(s.RPS))

	writeFamily(bw, "latency_seconds", "summary", "Request latency.")
	for _, q := range []struct {
		quantile string
		seconds  float64
	}{
		{"0.5", s.P50.Seconds()},
		{"0.9", s.P90.Seconds()},
		{"0.95", s.P95.Seconds()},
		{"0.99", s.P99.Seconds()},
	} {
		fmt.Fprintf(bw, "%slatency_seconds%s %s\n", Prefix, formatLabels(labels, Labels{"quantile": q.quantile}), formatFloat(q.seconds))
	}
	fmt.Fprintf(bw, "%slatency_seconds_sum%s %s\n", Prefix, base, formatFloat(s.Mean.Seconds()*float64(s.TotalRequests)))
	fmt.Fprintf(bw, "%slatency_seconds_count%s %d\n", Prefix, base, s.TotalRequests)

	writeFamily(bw, "latency_max_seconds", "gauge", "Slowest request.")
	fmt.Fprintf(bw, "%slatency_max_seconds%s %s\n", Prefix, base, formatFloat(s.Max.Seconds()))

	return bw.Flush()
}

// WritePrometheusFile writes the exposition to path through a temporary
// file and a rename, so a textfile collector never reads a partial file.
func WritePrometheusFile(path string, s *bench.Summary, labels Labels) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hitfetch-*.prom")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WritePrometheus(tmp, s, labels); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeFamily(w io.Writer, name, kind, help string) {
	fmt.Fprintf(w, "# HELP %s%s %s\n", Prefix, name, help)
	fmt.Fprintf(w, "# TYPE %s%s %s\n", Prefix, name, kind)
}

// formatLabels renders base and extra labels sorted by name, or "" when
// there are none.
func formatLabels(base, extra Labels) string {
	merged := make(Labels, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	if len(merged) == 0 {
		return ""
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=\"%s\"", sanitizeName(k), escapeLabelValue(merged[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escapeLabelValue(v string) string {
	return labelEscaper.Replace(v)
}

// sanitizeName maps a label name onto [a-zA-Z_][a-zA-Z0-9_]*.
func sanitizeName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
