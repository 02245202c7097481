// Package env reads variables from .env files and the process environment.
//
// It provides:
//   - .env parsing (KEY=value, quoted values, comments, export prefix)
//   - Prefixed lookups such as HITFETCH_* with the prefix stripped
//   - ${NAME} and ${NAME:-default} expansion for config values
package env
