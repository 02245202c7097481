package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitfetch/packages/core/config"
)

const exampleRoutes = `# Routes for "hitfetch mock routes.yaml".
routes:
  - method: GET
    path: /health
    contentType: text/plain
    body: ok

  - method: GET
    path: /users/{id}
    body:
      id: "{id}"
      name: Ada Lovelace

  - method: POST
    path: /users
    status: 201
    ntag: session-1
    body:
      id: 1
      created: true

  - method: DELETE
    path: /users/{id}
    status: 204
`

func newInitCmd(a *app) *cobra.Command {
	var (
		force bool
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config and mock routes file",
		Long: `Initialize a hitfetch project.

This creates:
  - .hitfetch.yaml - Configuration file pointing at the local mock server
  - routes.yaml    - Example routes for the mock command

Examples:
  hitfetch init
  hitfetch init --dir ./api --force`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := filepath.Join(dir, ".hitfetch.yaml")
			routesFile := filepath.Join(dir, "routes.yaml")

			if !force {
				for _, f := range []string{configFile, routesFile} {
					if _, err := os.Stat(f); err == nil {
						return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
					}
				}
			}

			cfg := config.DefaultConfig()
			cfg.BaseURL = "http://localhost:3000"
			cfg.Headers = map[string]string{"User-Agent": "hitfetch/" + version}
			if err := cfg.SaveConfig(configFile); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

			if err := os.WriteFile(routesFile, []byte(exampleRoutes), 0644); err != nil {
				return fmt.Errorf("failed to create routes file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", routesFile)

			fmt.Fprintf(cmd.OutOrStdout(), "\nStart the mock server with 'hitfetch mock %s',\n", routesFile)
			fmt.Fprintf(cmd.OutOrStdout(), "then try 'hitfetch get /users/{id} id=7'.\n")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the files to")

	return cmd
}
