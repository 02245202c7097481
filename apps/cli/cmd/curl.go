package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/import/curl"
)

func newFromCurlCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "from-curl [curl command]",
		Short: "Translate curl commands into hitfetch commands",
		Long: `Translate a curl command line into the equivalent hitfetch invocation.

JSON object bodies become key=value and key:=json parameters with --json;
urlencoded bodies become key=value parameters. Only GET, POST, PUT and
DELETE requests can be translated.

Examples:
  hitfetch from-curl "curl -X POST https://api.example.com/users -d name=Ada"
  hitfetch from-curl -f requests.sh
  pbpaste | hitfetch from-curl -f -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := readCurlCommands(cmd, file, args)
			if err != nil {
				return usageError(err)
			}

			lines := make([][]string, 0, len(commands))
			for i, c := range commands {
				converted, err := c.Args()
				if err != nil {
					return usageError(fmt.Errorf("command %d: %w", i+1, err))
				}
				lines = append(lines, append([]string{"hitfetch"}, converted...))
			}

			out := cmd.OutOrStdout()
			if strings.EqualFold(a.cfg.Output, "json") {
				return writeJSON(out, lines)
			}
			for _, l := range lines {
				fmt.Fprintln(out, curl.ShellJoin(l))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read curl commands from a file, - for stdin")
	return cmd
}

func readCurlCommands(cmd *cobra.Command, file string, args []string) ([]*curl.Command, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either a curl command or --file, not both")
	case file == "" && len(args) == 0:
		return nil, fmt.Errorf("no curl command given")
	case file != "":
		var r io.Reader = cmd.InOrStdin()
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		return curl.ParseAll(r)
	}

	line := strings.Join(args, " ")
	if !strings.HasPrefix(strings.TrimSpace(line), "curl") {
		line = "curl " + line
	}
	c, err := curl.Parse(line)
	if err != nil {
		return nil, err
	}
	return []*curl.Command{c}, nil
}
