package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/bench"
	"github.com/abdul-hamid-achik/hitfetch/packages/export/metrics"
	"github.com/abdul-hamid-achik/hitfetch/packages/http"
)

type benchFlags struct {
	networkFlags
	Total       int
	Rate        float64
	Concurrency int
	Threshold   string
	Prometheus  string
}

func newBenchCmd(a *app) *cobra.Command {
	f := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "bench <get|post|put|del> <url-template> [key=value ...]",
		Short: "Repeat a request and report latency percentiles",
		Long: `Send the same request many times at a fixed rate and concurrency, then
report latency percentiles and status codes.

All requests share one session, so an ntag returned by any response is sent
by the requests that follow it.

Examples:
  hitfetch bench get /users/{id} id=1 -n 500 --rate 100 --concurrency 20
  hitfetch bench post /orders item=42 --threshold "p95<200ms,errors<1%"
  hitfetch bench get /health -n 100 --rate 0 -o json
  hitfetch bench get /health --prometheus /var/lib/node_exporter/hitfetch.prom`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBench(cmd, f, args)
		},
	}

	addNetworkFlags(cmd, &f.networkFlags)
	cmd.Flags().IntVarP(&f.Total, "requests", "n", getEnvInt("HITFETCH_BENCH_REQUESTS", 100), "Number of requests to send (env: HITFETCH_BENCH_REQUESTS)")
	cmd.Flags().Float64VarP(&f.Rate, "rate", "r", getEnvFloat("HITFETCH_BENCH_RATE", 10), "Target requests per second, 0 for unlimited (env: HITFETCH_BENCH_RATE)")
	cmd.Flags().IntVarP(&f.Concurrency, "concurrency", "c", getEnvInt("HITFETCH_BENCH_CONCURRENCY", 10), "Maximum requests in flight (env: HITFETCH_BENCH_CONCURRENCY)")
	cmd.Flags().StringVar(&f.Threshold, "threshold", "", "Pass/fail thresholds (e.g., \"p95<200ms,errors<0.1%\")")
	cmd.Flags().StringVar(&f.Prometheus, "prometheus", "", "Also write the summary in Prometheus text format to this file")

	return cmd
}

func (a *app) runBench(cmd *cobra.Command, f *benchFlags, args []string) error {
	verb, err := http.ParseVerb(args[0])
	if err != nil {
		return usageError(err)
	}

	params, err := parseParams(args[2:])
	if err != nil {
		return usageError(err)
	}

	headers, err := a.headers(&f.networkFlags)
	if err != nil {
		return err
	}

	timeout, err := a.timeout(&f.networkFlags)
	if err != nil {
		return err
	}

	thresholds, err := bench.ParseThresholds(f.Threshold)
	if err != nil {
		return usageError(fmt.Errorf("invalid threshold: %w", err))
	}

	cfg := &bench.Config{
		Total:       f.Total,
		Rate:        f.Rate,
		Concurrency: f.Concurrency,
		Thresholds:  thresholds,
	}
	runner, err := bench.NewRunner(cfg, bench.WithLogger(a.logger))
	if err != nil {
		return usageError(err)
	}

	client := a.newClient(&f.networkFlags, nil)

	// fail fast on template errors instead of counting them n times
	prepared, err := client.Prepare(verb, args[1], params, headers)
	if err != nil {
		return usageError(err)
	}

	jsonOut := strings.EqualFold(a.cfg.Output, "json")
	reporter := bench.NewReporter(
		bench.WithWriter(cmd.OutOrStdout()),
		bench.WithNoColor(a.cfg.GetNoColor()),
	)
	if !jsonOut {
		reporter.Header(prepared.Method(), prepared.URL, cfg)
	}

	summary := runner.Run(cmd.Context(), func(ctx context.Context) (int, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		result, err := client.Do(ctx, verb, args[1], params, headers)
		return statusOf(result, err), err
	})

	results := thresholds.Evaluate(summary)
	if jsonOut {
		if err := reporter.JSONSummary(summary, results); err != nil {
			return err
		}
	} else {
		reporter.Summary(summary, results)
	}

	if f.Prometheus != "" {
		labels := metrics.Labels{"method": verb.String(), "url": args[1]}
		if err := metrics.WritePrometheusFile(f.Prometheus, summary, labels); err != nil {
			return configError(fmt.Errorf("writing prometheus metrics: %w", err))
		}
	}

	if !bench.AllPassed(results) {
		return withExitCode(ExitCheckFailure, errors.New("bench thresholds failed"))
	}
	return nil
}

// statusOf returns the response status of a client call, including calls
// that failed with an HTTP or decode error, or 0 when nothing came back.
func statusOf(result *http.Result, err error) int {
	if result != nil {
		return result.Status
	}
	var httpErr *http.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status()
	}
	var decodeErr *http.DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Status
	}
	return 0
}
