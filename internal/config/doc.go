// Package config loads, normalizes, and validates reel's TOML configuration.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/reel/config.toml, then a project-local reel.toml, falling back to
// built-in defaults when no file exists. All path values support ~ expansion
// and are normalized to absolute paths during Load.
package config
