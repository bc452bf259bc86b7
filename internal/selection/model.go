package selection

import (
	"sort"
	"strings"

	"sublens/internal/render"
)

// Position locates one occurrence of a word in the rendered subtitle stream.
type Position struct {
	SubtitleType string
	WordIndex    int
	// Index is the fallback ordinal used when WordIndex is unknown (-1).
	Index int
	// Node is the live rendered node, nil once its render is replaced.
	Node *render.Node
}

// sortIndex is the ordinal used to assemble selected text in reading order.
func (p Position) sortIndex() int {
	if p.WordIndex >= 0 {
		return p.WordIndex
	}
	if p.Index >= 0 {
		return p.Index
	}
	return 0
}

// Entry is one selected word occurrence.
type Entry struct {
	Word     string
	Position Position
}

// ToggleResult reports the outcome of Model.Toggle.
type ToggleResult string

const (
	ToggleAdded   ToggleResult = "added"
	ToggleRemoved ToggleResult = "removed"
	ToggleNoop    ToggleResult = "noop"
)

// Model is the insertion-ordered set of selected word positions, keyed by
// position key. It is owned by exactly one session and is not safe for
// concurrent use.
type Model struct {
	entries map[string]Entry
	order   []string
	text    string
}

// NewModel returns an empty selection model.
func NewModel() *Model {
	return &Model{entries: map[string]Entry{}}
}

// Len returns the number of selected occurrences.
func (m *Model) Len() int {
	return len(m.entries)
}

// Has reports whether a position key is selected.
func (m *Model) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Add inserts a new occurrence. It returns false without mutating when the
// key is empty or already present.
func (m *Model) Add(word string, pos Position, key string) bool {
	if key == "" {
		return false
	}
	if _, ok := m.entries[key]; ok {
		return false
	}
	m.entries[key] = Entry{Word: word, Position: pos}
	m.order = append(m.order, key)
	m.recomputeText()
	return true
}

// Remove deletes the entry under key when key is non-empty, otherwise every
// entry whose word matches. It reports whether anything was removed.
func (m *Model) Remove(word, key string) bool {
	if key != "" {
		if _, ok := m.entries[key]; !ok {
			return false
		}
		delete(m.entries, key)
		m.dropFromOrder(key)
		m.recomputeText()
		return true
	}

	removed := false
	kept := m.order[:0]
	for _, k := range m.order {
		if m.entries[k].Word == word {
			delete(m.entries, k)
			removed = true
			continue
		}
		kept = append(kept, k)
	}
	m.order = kept
	if removed {
		m.recomputeText()
	}
	return removed
}

// Toggle adds the occurrence if absent and removes it if present.
func (m *Model) Toggle(word string, pos Position, key string) ToggleResult {
	if key == "" {
		return ToggleNoop
	}
	if m.Has(key) {
		m.Remove(word, key)
		return ToggleRemoved
	}
	m.Add(word, pos, key)
	return ToggleAdded
}

// ReplacePositionKey atomically moves an entry to a new key, preserving its
// slot in the order sequence. Used when addressing re-derives a more specific
// key for an entry matched by fallback heuristics. No-op when either key is
// empty or both are equal.
func (m *Model) ReplacePositionKey(oldKey, newKey, word string, pos Position) {
	if oldKey == "" || newKey == "" || oldKey == newKey {
		return
	}
	if _, ok := m.entries[oldKey]; !ok {
		return
	}
	delete(m.entries, oldKey)
	m.entries[newKey] = Entry{Word: word, Position: pos}
	for i, k := range m.order {
		if k == oldKey {
			m.order[i] = newKey
			break
		}
	}
	m.recomputeText()
}

// RemoveDuplicatesPreferOriginal collapses entries sharing a word down to a
// single occurrence and returns how many entries were removed. The survivor
// is, in preference order: an entry with a live node stamped as the original
// subtitle line, any entry with a live node, the earliest-inserted entry.
func (m *Model) RemoveDuplicatesPreferOriginal() int {
	byWord := map[string][]string{}
	for _, k := range m.order {
		word := m.entries[k].Word
		byWord[word] = append(byWord[word], k)
	}

	removed := 0
	for _, keys := range byWord {
		if len(keys) < 2 {
			continue
		}
		keep := keys[0]
		keepRank := m.dedupRank(keys[0])
		for _, k := range keys[1:] {
			if rank := m.dedupRank(k); rank < keepRank {
				keep, keepRank = k, rank
			}
		}
		for _, k := range keys {
			if k == keep {
				continue
			}
			delete(m.entries, k)
			m.dropFromOrder(k)
			removed++
		}
	}
	if removed > 0 {
		m.recomputeText()
	}
	return removed
}

// dedupRank orders duplicate candidates; lower wins.
func (m *Model) dedupRank(key string) int {
	entry := m.entries[key]
	live := entry.Position.Node.Live()
	switch {
	case live && strings.EqualFold(entry.Position.SubtitleType, render.SubtitleTypeOriginal):
		return 0
	case live:
		return 1
	default:
		return 2
	}
}

// SelectedWords returns the distinct selected words in insertion order.
func (m *Model) SelectedWords() []string {
	seen := map[string]struct{}{}
	var words []string
	for _, k := range m.order {
		word := m.entries[k].Word
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

// PositionKeyOrder returns a copy of the key sequence in user action order.
func (m *Model) PositionKeyOrder() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Positions returns a shallow copy of the key to entry mapping.
func (m *Model) Positions() map[string]Entry {
	out := make(map[string]Entry, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// UpdateNode refreshes the live node attached to an entry after a re-render.
func (m *Model) UpdateNode(key string, node *render.Node) {
	entry, ok := m.entries[key]
	if !ok {
		return
	}
	entry.Position.Node = node
	m.entries[key] = entry
}

// Entry returns the entry stored under key.
func (m *Model) Entry(key string) (Entry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// SelectedText returns the selection joined in subtitle reading order.
func (m *Model) SelectedText() string {
	return m.text
}

// UpdateSelectedText forces a recompute after external bulk mutation and
// returns the result.
func (m *Model) UpdateSelectedText() string {
	m.recomputeText()
	return m.text
}

// Clear empties the model.
func (m *Model) Clear() {
	m.entries = map[string]Entry{}
	m.order = nil
	m.text = ""
}

func (m *Model) dropFromOrder(key string) {
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// recomputeText rebuilds the selected phrase: keys sorted by word index
// ascending, insertion order breaking ties, empty words skipped.
func (m *Model) recomputeText() {
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return m.entries[keys[i]].Position.sortIndex() < m.entries[keys[j]].Position.sortIndex()
	})
	var words []string
	for _, k := range keys {
		if word := m.entries[k].Word; word != "" {
			words = append(words, word)
		}
	}
	m.text = strings.Join(words, " ")
}
