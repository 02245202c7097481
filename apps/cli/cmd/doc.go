// Package cmd implements the hitfetch CLI commands using Cobra.
//
// Available commands:
//   - get, post, put, del: Send a request built from a URL template
//   - mock: Serve canned responses from a YAML routes file
//   - bench: Repeat a request and report latency percentiles
//   - history: List exchanges recorded with --history
//   - init: Create a starter config and routes file
//   - version: Show hitfetch version information
//
// Configuration is layered: defaults, then .hitfetch.yaml (or --config),
// then HITFETCH_* environment variables, then flags.
package cmd
