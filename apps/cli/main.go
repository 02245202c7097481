package main

import (
	"context"
	"os"

	"github.com/abdul-hamid-achik/hitfetch/apps/cli/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version, buildTime)
	if err := cmd.Execute(context.Background(), os.Args[1:]); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
