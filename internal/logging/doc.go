// Package logging assembles the structured slog loggers used across
// sublens.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so session code automatically tags
// log lines with session, video, and request identifiers. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
