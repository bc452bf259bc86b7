package selection

import (
	"strconv"
	"strings"

	"sublens/internal/render"
)

// Key builds the fast-path position key from a word, subtitle type tag, and
// word index. Identical inputs always yield the identical key.
func Key(word, subtitleType string, wordIndex int) string {
	return word + ":" + subtitleType + ":" + strconv.Itoa(wordIndex)
}

// NodeKey derives the position key for a rendered word node, in preference
// order: the fast-path key when type and index are known, the node's own
// dataset attributes, a structural path key as last resort. Stability across
// re-renders is best-effort only.
func NodeKey(node *render.Node, word, subtitleType string, wordIndex int) string {
	if subtitleType != "" && wordIndex >= 0 {
		return Key(word, subtitleType, wordIndex)
	}
	if node != nil {
		dsType := node.Data(render.AttrSubtitleType)
		dsIndex := node.Data(render.AttrWordIndex)
		if dsType != "" && dsIndex != "" {
			return word + ":" + dsType + ":" + dsIndex
		}
	}
	return word + ":" + domPath(node) + ":" + subtitleType + ":" + strconv.Itoa(wordIndex)
}

// WordIndexOf reads a node's stamped word index, falling back to counting
// preceding interactive-word siblings. Returns -1 when neither is available.
func WordIndexOf(node *render.Node) int {
	if node == nil {
		return -1
	}
	if raw := node.Data(render.AttrWordIndex); raw != "" {
		if idx, err := strconv.Atoi(raw); err == nil {
			return idx
		}
	}
	parent := node.Parent()
	if parent == nil {
		return -1
	}
	idx := 0
	for _, sibling := range parent.Children() {
		if sibling == node {
			return idx
		}
		if sibling.HasClass(render.WordClass) {
			idx++
		}
	}
	return -1
}

// SyncKey resolves the model entry for a freshly rendered word occurrence.
// An exact key hit is returned as-is. Otherwise entries are scanned for a
// semantic (word, subtitle type, word index) match; on a hit the stored key
// is normalized to the fresh one so future lookups stay direct.
func SyncKey(m *Model, word, subtitleType string, wordIndex int, node *render.Node) (string, bool) {
	key := Key(word, subtitleType, wordIndex)
	if m.Has(key) {
		return key, true
	}
	for _, stored := range m.PositionKeyOrder() {
		entry, ok := m.Entry(stored)
		if !ok {
			continue
		}
		if entry.Word != word {
			continue
		}
		if !strings.EqualFold(entry.Position.SubtitleType, subtitleType) {
			continue
		}
		if entry.Position.WordIndex != wordIndex {
			continue
		}
		pos := entry.Position
		pos.SubtitleType = subtitleType
		pos.Node = node
		m.ReplacePositionKey(stored, key, word, pos)
		return key, true
	}
	return key, false
}

// domPath builds a structural path from the node up to (not including) the
// tree root: tag name, id (terminates the path), class list, and nth-child
// position per step.
func domPath(node *render.Node) string {
	var steps []string
	for n := node; n != nil && n.Parent() != nil; n = n.Parent() {
		step := n.Tag
		if n.ID != "" {
			steps = append(steps, step+"#"+n.ID)
			break
		}
		if len(n.Classes) > 0 {
			step += "." + strings.Join(n.Classes, ".")
		}
		step += ":nth-child(" + strconv.Itoa(n.NthChild()) + ")"
		steps = append(steps, step)
	}
	// Steps were collected leaf-to-root; the path reads root-to-leaf.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return strings.Join(steps, ">")
}
