package textutil

import (
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase tokens on non-alphanumeric runes.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Normalize returns the canonical single-space form of text used for
// signature computation.
func Normalize(text string) string {
	return strings.Join(Tokenize(text), " ")
}

// Signature returns the content fingerprint of rendered subtitle text.
// Identical visible content always yields an identical signature regardless
// of markup or attribute noise; the empty string means no content.
func Signature(text string) string {
	normalized := Normalize(text)
	if normalized == "" {
		return ""
	}
	h := fnv.New64a()
	h.Write([]byte(normalized))
	return strconv.FormatUint(h.Sum64(), 16)
}
