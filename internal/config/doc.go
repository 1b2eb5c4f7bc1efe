// Package config loads, normalizes, and validates notemill configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and the migration pipeline need: vault layout, frontmatter field
// toggles, collision policy, and sync behavior.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical mode strings, and clear validation errors.
package config
