package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		path  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exchanges, newest first",
		Long: `List exchanges recorded with --history (or the history config key).

Examples:
  hitfetch history --history hitfetch.db
  hitfetch history --limit 5 -o json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = a.cfg.History
			}
			if path == "" {
				return usageError(fmt.Errorf("no history database: pass --history or set history in the config"))
			}

			store, err := history.Open(path)
			if err != nil {
				return configError(err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if strings.EqualFold(a.cfg.Output, "json") {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return a.printHistory(cmd, entries)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of entries, 0 for all")
	cmd.Flags().StringVar(&path, "history", "", "SQLite database to read (env: HITFETCH_HISTORY)")

	return cmd
}

func (a *app) printHistory(cmd *cobra.Command, entries []history.Entry) error {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No recorded exchanges.")
		return nil
	}

	paint := func(c *color.Color) *color.Color {
		if a.cfg.GetNoColor() {
			c.DisableColor()
		}
		return c
	}
	green := paint(color.New(color.FgGreen)).SprintFunc()
	red := paint(color.New(color.FgRed)).SprintFunc()
	dim := paint(color.New(color.Faint)).SprintFunc()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		status := fmt.Sprintf("%d", e.Status)
		switch {
		case e.Status == 0 || e.Status >= 400:
			status = red(status)
		default:
			status = green(status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dms\t%s\n",
			dim(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			e.Method, e.URL, status, e.DurationMs, e.Error)
	}
	return tw.Flush()
}
