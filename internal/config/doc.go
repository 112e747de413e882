// Package config loads and validates the volmigrate configuration file.
//
// Configuration lives in a TOML file, by default ~/.config/volmigrate/config.toml,
// and carries the CloudStack endpoint credentials, the receipt ledger location,
// and logging preferences. Loading expands home-relative paths, applies
// defaults, and validates eagerly so every command fails fast on a broken
// setup before it touches the remote API.
package config
