// Package output renders exchanges for the terminal.
//
// Supported formats:
//   - console: colored status line, optional headers, pretty-printed body
//   - json: one machine-readable JSON document per exchange
//
// Body data can be narrowed with a jq expression before it is rendered.
package output
