package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/capture"
	"github.com/abdul-hamid-achik/hitfetch/packages/history"
	"github.com/abdul-hamid-achik/hitfetch/packages/http"
	"github.com/abdul-hamid-achik/hitfetch/packages/output"
	"github.com/abdul-hamid-achik/hitfetch/packages/schema"
	"github.com/abdul-hamid-achik/hitfetch/packages/snapshot"
)

// HeaderRequestID carries the id added by --request-id.
const HeaderRequestID = "x-request-id"

type requestFlags struct {
	networkFlags
	DryRun    bool
	JQ        string
	Captures  []string
	Schema    string
	RequestID bool
	History   string

	Snapshot       string
	SnapshotName   string
	UpdateSnapshot bool
}

func newVerbCmd(a *app, name string) *cobra.Command {
	verb, err := http.ParseVerb(name)
	if err != nil {
		panic(err)
	}

	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   name + " <url-template> [key=value | key:=json ...]",
		Short: fmt.Sprintf("Send a %s request", verb),
		Long: fmt.Sprintf(`Send a %s request built from a URL template.

Parameters named by {placeholders} in the template fill the path. %s

Examples:
  hitfetch %s /users/{id} id=42
  hitfetch %s /users name=Ada tags:='["a","b"]' --json
  hitfetch %s /users/{id} id=42 --capture etag=header:etag --jq .name`,
			verb, remainingParamsHelp(verb), name, name, name),
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRequest(cmd, verb, f, args)
		},
	}

	addNetworkFlags(cmd, &f.networkFlags)
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false, "Print the prepared request without sending it")
	cmd.Flags().StringVar(&f.JQ, "jq", "", "jq expression applied to the response data before printing")
	cmd.Flags().StringArrayVar(&f.Captures, "capture", nil, "Capture name=body:path, name=header:name, name=status or name=duration (repeatable)")
	cmd.Flags().StringVar(&f.Schema, "schema", "", "Validate the response data against a JSON Schema file")
	cmd.Flags().BoolVar(&f.RequestID, "request-id", false, "Add an x-request-id header with a random UUID")
	cmd.Flags().StringVar(&f.History, "history", "", "Record the exchange in a SQLite database (env: HITFETCH_HISTORY)")
	cmd.Flags().StringVar(&f.Snapshot, "snapshot", "", "Compare the response data with a snapshot stored in this JSON file")
	cmd.Flags().StringVar(&f.SnapshotName, "snapshot-name", "", "Snapshot key (default: method and URL template)")
	cmd.Flags().BoolVar(&f.UpdateSnapshot, "update-snapshot", false, "Create or replace the snapshot instead of failing")

	return cmd
}

func remainingParamsHelp(v http.Verb) string {
	if v.Policy().Body {
		return "The remaining parameters form the request body."
	}
	return "The remaining parameters form the query string."
}

func (a *app) timeout(f *networkFlags) (time.Duration, error) {
	if f.Timeout == "" {
		return a.cfg.TimeoutDuration(), nil
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0, usageError(fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", f.Timeout, err))
	}
	return d, nil
}

func (a *app) runRequest(cmd *cobra.Command, verb http.Verb, f *requestFlags, args []string) error {
	params, err := parseParams(args[1:])
	if err != nil {
		return usageError(err)
	}

	headers, err := a.headers(&f.networkFlags)
	if err != nil {
		return err
	}
	if f.RequestID {
		headers[HeaderRequestID] = uuid.New().String()
	}

	specs := make([]*capture.Spec, 0, len(f.Captures))
	for _, raw := range f.Captures {
		spec, err := capture.ParseSpec(raw)
		if err != nil {
			return usageError(err)
		}
		specs = append(specs, spec)
	}

	timeout, err := a.timeout(&f.networkFlags)
	if err != nil {
		return err
	}

	formatter, err := output.New(a.cfg.Output, cmd.OutOrStdout(), a.cfg.GetVerbose(), a.cfg.GetNoColor())
	if err != nil {
		return usageError(err)
	}

	client := a.newClient(&f.networkFlags, nil)
	req, err := client.Prepare(verb, args[0], params, headers)
	if err != nil {
		return usageError(err)
	}

	if f.DryRun {
		formatter.FormatPrepared(req)
		return nil
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, sendErr := client.Send(ctx, req)
	ex := output.NewExchange(req, result, sendErr)

	if ex.Result != nil && len(specs) > 0 {
		ex.Captures = capture.ExtractAll(ex.Result, specs)
	}

	var checkErr error
	if f.Schema != "" && sendErr == nil && ex.HasData {
		if err := schema.ValidateFile(f.Schema, ex.Data); err != nil {
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				checkErr = withExitCode(ExitCheckFailure, err)
			} else {
				checkErr = usageError(err)
			}
		}
	}

	if f.Snapshot != "" && sendErr == nil && ex.HasData {
		name := f.SnapshotName
		if name == "" {
			name = verb.String() + " " + args[0]
		}
		if err := a.checkSnapshot(f.Snapshot, name, ex.Data, f.UpdateSnapshot); err != nil && checkErr == nil {
			checkErr = err
		}
	}

	if f.JQ != "" && ex.HasData {
		filtered, err := output.ApplyQuery(ex.Data, f.JQ)
		if err != nil {
			return usageError(err)
		}
		ex.Data = filtered
	}

	formatter.FormatExchange(ex)

	historyPath := a.cfg.History
	if f.History != "" {
		historyPath = f.History
	}
	if historyPath != "" {
		a.record(ctx, historyPath, ex)
	}

	if sendErr != nil {
		return sendErr
	}
	return checkErr
}

// checkSnapshot compares data with the named snapshot and reports the
// outcome on stderr.
func (a *app) checkSnapshot(path, name string, data any, update bool) error {
	store, err := snapshot.Load(path)
	if err != nil {
		return configError(err)
	}

	result, err := store.Compare(name, data, update)
	if err != nil {
		return usageError(err)
	}
	if err := store.Save(); err != nil {
		return configError(fmt.Errorf("saving snapshot: %w", err))
	}

	a.logger.Debug("snapshot compared", "path", path, "name", name, "outcome", result.Outcome)
	if result.Outcome == snapshot.Matched {
		return nil
	}

	fmt.Fprintln(a.stderr, result.String())
	for _, d := range result.Diffs {
		fmt.Fprintf(a.stderr, "  %s\n", d)
	}
	if !result.Passed() {
		return withExitCode(ExitCheckFailure, errors.New(result.String()))
	}
	return nil
}

// record stores ex in the history database. Failures are logged, never
// returned, so a broken history file cannot fail a request.
func (a *app) record(ctx context.Context, path string, ex *output.Exchange) {
	store, err := history.Open(path)
	if err != nil {
		a.logger.Warn("history unavailable", "path", path, "error", err)
		return
	}
	defer store.Close()

	entry := history.Entry{
		Method: ex.Request.Method(),
		URL:    ex.Request.URL,
	}
	if ex.Result != nil {
		entry.Status = ex.Result.Status
		if resp := ex.Result.Response; resp != nil {
			entry.DurationMs = resp.DurationMs()
			entry.NTag = resp.HeaderValue(http.HeaderSessionTag)
		}
	}
	if ex.Err != nil {
		entry.Error = ex.Err.Error()
	}

	// the request context may already be past its deadline
	if _, err := store.Record(context.WithoutCancel(ctx), entry); err != nil {
		a.logger.Warn("history record failed", "path", path, "error", err)
	}
}
