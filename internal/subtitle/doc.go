// Package subtitle parses WebVTT payloads into timed cues and resolves which
// cues are active at a playback instant.
//
// Two merge policies exist. When the platform ships both language tracks with
// independent timing (native target mode), original and target cues stay
// separate records and are paired at render time by exact timing, then by
// maximum temporal overlap. When the target text comes from the translation
// pipeline instead, cues merge into dual records at parse time and untranslated
// text holds a pending placeholder until the fill queue replaces it.
//
// Malformed blocks never fail a parse: a cue with an unparseable timestamp,
// inverted timing, or empty text is dropped and the rest of the payload
// survives.
package subtitle
