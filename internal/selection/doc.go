// Package selection maintains the keyed set of selected word positions and
// the position-key addressing scheme that survives subtitle re-renders.
//
// Word nodes are destroyed and rebuilt on every cue change, so selection
// state is keyed by semantic position (word, subtitle type, word index)
// rather than node identity. A structural path key exists as a last-resort
// fallback for nodes that carry no index metadata. Selected text is assembled
// in subtitle reading order, not click order: users select words out of
// sequence but the phrase must read naturally.
package selection
