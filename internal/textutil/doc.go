// Package textutil provides text normalization and content-signature
// computation for rendered subtitle text.
//
// Signatures answer one question: has the same subtitle content reappeared?
// Rendered markup carries volatile attribute noise (generated ids, render
// counters), so comparison goes through a normalized token fingerprint of the
// visible text instead of raw markup or node identity. Tokenization lowercases
// and splits on non-alphanumeric runes, keeping even one-letter tokens since
// short function words are significant in subtitle text.
package textutil
