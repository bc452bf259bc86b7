// Package analysis defines the boundary to the contextual-analysis backend.
//
// Dispatch is fire-and-forget: the core never awaits a return value, it
// listens for a correlated response event instead. Cancellation is advisory;
// correctness rests entirely on the caller ignoring responses whose request
// id no longer matches its outstanding token.
package analysis
