// Package store provides the observable state container UI renderers
// subscribe to.
//
// Writes are synchronous snapshots: Set serializes the candidate state and
// skips notification entirely when nothing changed, so downstream renderers
// never see no-op updates. A panicking listener is recovered per-listener so
// one failing subscriber cannot block the rest. The store is the single
// source of truth for modal presentation; the core writes to it and never
// reads UI state back as input.
package store
