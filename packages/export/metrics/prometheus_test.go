package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitfetch/packages/bench"
)

func sampleSummary() *bench.Summary {
	return &bench.Summary{
		Duration:      2 * time.Second,
		TotalRequests: 4,
		SuccessCount:  3,
		ErrorCount:    1,
		RPS:           2,
		P50:           10 * time.Millisecond,
		P90:           20 * time.Millisecond,
		P95:           25 * time.Millisecond,
		P99:           30 * time.Millisecond,
		Max:           40 * time.Millisecond,
		Mean:          15 * time.Millisecond,
		StatusCodes: []bench.StatusCount{
			{Status: 200, Count: 3},
			{Status: 500, Count: 1},
		},
	}
}

func TestWritePrometheus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrometheus(&buf, sampleSummary(), Labels{"method": "GET", "url": "/users/{id}"}))
	out := buf.String()

	assert.Contains(t, out, "# TYPE hitfetch_bench_requests_total counter\n")
	assert.Contains(t, out, `hitfetch_bench_requests_total{method="GET",url="/users/{id}"} 4`)
	assert.Contains(t, out, `hitfetch_bench_requests_failed_total{method="GET",url="/users/{id}"} 1`)
	assert.Contains(t, out, `hitfetch_bench_responses_total{method="GET",status="500",url="/users/{id}"} 1`)
	assert.Contains(t, out, `hitfetch_bench_latency_seconds{method="GET",quantile="0.95",url="/users/{id}"} 0.025`)
	assert.Contains(t, out, `hitfetch_bench_latency_seconds_sum{method="GET",url="/users/{id}"} 0.06`)
	assert.Contains(t, out, `hitfetch_bench_latency_seconds_count{method="GET",url="/users/{id}"} 4`)
	assert.Contains(t, out, `hitfetch_bench_duration_seconds{method="GET",url="/users/{id}"} 2`)
	assert.Contains(t, out, `hitfetch_bench_latency_max_seconds{method="GET",url="/users/{id}"} 0.04`)
}

func TestWritePrometheus_NoLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrometheus(&buf, sampleSummary(), nil))
	assert.Contains(t, buf.String(), "hitfetch_bench_requests_total 4\n")
	assert.Contains(t, buf.String(), `hitfetch_bench_responses_total{status="200"} 3`)
}

func TestFormatLabels(t *testing.T) {
	assert.Equal(t, "", formatLabels(nil, nil))
	assert.Equal(t, `{a_b="x\"y\\z\n"}`, formatLabels(Labels{"a-b": "x\"y\\z\n"}, nil))
	assert.Equal(t, `{_1x="v"}`, formatLabels(Labels{"1x": "v"}, nil))
}

func TestWritePrometheusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.prom")
	require.NoError(t, WritePrometheusFile(path, sampleSummary(), Labels{"method": "POST"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hitfetch_bench_requests_total{method="POST"} 4`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
