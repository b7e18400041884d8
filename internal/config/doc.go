// Package config loads, normalizes, and validates recipebook configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours environment fallbacks such as
// NEOCITIES_API_KEY. Commands obtain every directory, URL and credential
// through this package.
package config
