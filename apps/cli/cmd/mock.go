package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/mock"
)

type mockFlags struct {
	Port  int
	Delay string
	Watch bool
}

func newMockCmd(a *app) *cobra.Command {
	f := &mockFlags{}
	cmd := &cobra.Command{
		Use:   "mock <routes.yaml>",
		Short: "Start a mock server from a routes file",
		Long: `Start an HTTP mock server that answers with the responses described in a
YAML routes file.

Each route has a method, a path template such as /users/{id}, and an optional
status, contentType, headers, body and ntag. Placeholder values are
substituted into the body, headers and ntag as {name}. Unknown routes answer
404 with suggestions for similar paths.

Examples:
  hitfetch mock routes.yaml
  hitfetch mock routes.yaml --port 3000 --delay 100ms
  hitfetch mock routes.yaml --watch`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMock(cmd, f, args[0])
		},
	}

	cmd.Flags().IntVarP(&f.Port, "port", "p", getEnvInt("HITFETCH_MOCK_PORT", 3000), "Port to run the mock server on (env: HITFETCH_MOCK_PORT)")
	cmd.Flags().StringVarP(&f.Delay, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	cmd.Flags().BoolVarP(&f.Watch, "watch", "w", false, "Reload routes when the file changes")

	return cmd
}

func (a *app) runMock(cmd *cobra.Command, f *mockFlags, path string) error {
	var delay time.Duration
	if f.Delay != "0" {
		var err error
		delay, err = time.ParseDuration(f.Delay)
		if err != nil {
			return usageError(fmt.Errorf("invalid delay value %q: %w", f.Delay, err))
		}
	}

	server := mock.NewServer(
		mock.WithPort(f.Port),
		mock.WithDelay(delay),
		mock.WithLogger(a.logger),
	)
	if err := server.LoadFile(path); err != nil {
		return configError(err)
	}
	if len(server.Routes()) == 0 {
		return configError(fmt.Errorf("no routes found in %s", path))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if f.Watch {
		go func() {
			if err := server.Watch(ctx); err != nil {
				a.logger.Error("watch stopped", "error", err)
			}
		}()
	}

	return server.Start(ctx, func(addr string) {
		fmt.Fprintf(out, "Mock server listening on %s with %d routes from %s\n", addr, len(server.Routes()), path)
		if a.cfg.GetVerbose() {
			for _, route := range server.Routes() {
				fmt.Fprintf(out, "  %s %s -> %d\n", route.Method, route.PathPattern, route.Response.StatusCode)
			}
		}
	})
}

