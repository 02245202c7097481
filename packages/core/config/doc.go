// Package config handles configuration loading and management for hitfetch.
//
// It provides functionality for:
//   - Loading configuration from .hitfetch.yaml or .hitfetch.json files
//   - Default configuration values
//   - HITFETCH_* environment overrides and ${VAR} expansion
package config
