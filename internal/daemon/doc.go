// Package daemon coordinates the long-running sublens process.
//
// It wires configuration, the session manager, and the vocabulary store
// into a single lifecycle with flock-based locking to prevent multiple
// instances. Each session gets its own scripted playback adapter, an
// in-memory rendering surface, and a loopback analysis dispatcher; the
// daemon routes IPC requests to the right session and persists analyzed
// phrases when the vocab store is enabled.
//
// Keep orchestration logic here: subtitle scheduling, selection, and
// modal behavior live in their own packages while the daemon focuses on
// startup, shutdown, and session routing.
package daemon
