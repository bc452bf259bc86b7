// Package render defines the rendering-surface boundary the reconciliation
// core writes subtitle content to and reads word nodes back from.
//
// The core never keys state on node identity: surfaces destroy and rebuild
// every word node on each content change, so nodes only matter for the
// duration of one render pass. The in-memory surface implements the same
// contract a browser content script would (word/subtitle-type/word-index
// data attributes, deterministic node ids, a highlight class), which keeps
// the core testable without a DOM.
package render
