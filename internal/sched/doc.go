// Package sched drives subtitle display against the moving playback clock.
//
// The scheduler resolves the active cue pair on every time tick, writes to
// the rendering surface only when the resolved text actually changed, and
// coalesces content-change notifications through a debounced single-timer
// signal. Two competing time sources exist because some platforms' visual
// progress bar is more precise and less throttled than the media element's
// reported time; the scheduler prefers whichever is live, never both, so the
// clock cannot oscillate between sources within one tick.
//
// The translation fill queue runs at most one batch of outstanding cue
// translations at a time and reschedules itself on a fixed delay while
// untranslated cues for the active video remain.
package sched
