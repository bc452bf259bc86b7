// Package persist snapshots a non-empty word selection and restores it when
// the same subtitle content is rendered again.
//
// Subtitle nodes are destroyed on every render, so "the same content came
// back" is detected by a content signature over the visible text, never by
// node identity or raw markup equality. A signature mismatch is an expected
// transient (the player may still be mid-refresh) handled by one debounced
// retry; a snapshot past its age threshold is stale and simply rejected.
// Restoration re-applies highlights in two passes: semantic key matching
// against the fresh nodes first, then plain word-text matching for whatever
// the first pass could not resolve.
package persist
