// Package config loads, normalizes, and validates sublens configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: playback timing, persistence thresholds, the
// analysis retry budget, translation batching, and vocabulary storage.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical language codes, and clear validation errors.
package config
