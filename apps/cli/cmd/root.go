package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/core/config"
	"github.com/abdul-hamid-achik/hitfetch/packages/core/env"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build metadata reported by the version command.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// rootFlags holds global CLI flags
type rootFlags struct {
	ConfigPath string
	EnvFile    string
	Output     string
	NoColor    bool
	Verbose    bool
	Debug      bool
}

// app is the state shared by every command of one invocation.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	logger *slog.Logger
	stderr io.Writer
}

// Execute runs the CLI with args and returns the first error. Use ExitCode
// to turn it into a process status.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "hitfetch",
		Short: "Template-driven HTTP requests from the command line.",
		Long: `hitfetch sends GET, POST, PUT and DELETE requests built from URL
templates like /users/{id}. Parameters fill the template first; the rest go
to the query string or the body depending on the method. A session tag
returned in the ntag response header is echoed back on every mutating
request.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", getEnvString("HITFETCH_CONFIG", ""), "Path to config file (env: HITFETCH_CONFIG)")
	pf.StringVar(&a.flags.EnvFile, "env-file", getEnvString("HITFETCH_ENV_FILE", ""), "Path to .env file exported before config loading (env: HITFETCH_ENV_FILE)")
	pf.StringVarP(&a.flags.Output, "output", "o", "", "Output format: console, json (env: HITFETCH_OUTPUT)")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "Disable colored output (env: HITFETCH_NO_COLOR)")
	pf.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "Show request and response headers (env: HITFETCH_VERBOSE)")
	pf.BoolVar(&a.flags.Debug, "debug", getEnvBool("HITFETCH_DEBUG", false), "Log debug details to stderr (env: HITFETCH_DEBUG)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		newVerbCmd(a, "get"),
		newVerbCmd(a, "post"),
		newVerbCmd(a, "put"),
		newVerbCmd(a, "del"),
		newMockCmd(a),
		newBenchCmd(a),
		newHistoryCmd(a),
		newFromCurlCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads the env file and configuration and installs the logger.
// Precedence, later winning: defaults, config file, HITFETCH_* variables,
// flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = newLogger(a.stderr, a.flags.Debug)
	slog.SetDefault(a.logger)

	if a.flags.EnvFile != "" {
		if _, err := env.LoadAndExportDotEnv(a.flags.EnvFile); err != nil {
			return configError(fmt.Errorf("loading env file: %w", err))
		}
	}

	cfg, err := config.LoadConfig(a.flags.ConfigPath)
	if err != nil {
		return configError(fmt.Errorf("loading config: %w", err))
	}

	envCfg, err := config.FromEnv(env.LoadPrefixed("HITFETCH_"))
	if err != nil {
		return configError(err)
	}
	cfg = cfg.Merge(envCfg)

	flagCfg := &config.Config{Output: a.flags.Output}
	if cmd.Flags().Changed("no-color") {
		flagCfg.NoColor = config.BoolPtr(a.flags.NoColor)
	}
	if cmd.Flags().Changed("verbose") {
		flagCfg.Verbose = config.BoolPtr(a.flags.Verbose)
	}
	a.cfg = cfg.Merge(flagCfg)

	a.logger.Debug("config loaded", "baseURL", a.cfg.BaseURL, "timeout", a.cfg.TimeoutDuration(), "output", a.cfg.Output)
	return nil
}
