package persist

import (
	"strconv"

	"sublens/internal/render"
	"sublens/internal/selection"
)

// SyncHighlights re-applies highlight classes to freshly rendered word nodes.
//
// Pass one matches each node semantically: the (word, subtitle type, word
// index) triple is resolved against the model, normalizing stored keys that
// were derived by fallback heuristics in earlier renders. Pass two covers
// words the first pass could not place (tokenization boundaries may have
// shifted): any still-unhighlighted node whose word text matches a selected
// word is highlighted, first occurrence per word only.
func SyncHighlights(m *selection.Model, surface render.Surface) {
	if m == nil || surface == nil || m.Len() == 0 {
		return
	}

	matched := map[string]bool{}
	for _, node := range surface.WordNodes() {
		word := node.Data(render.AttrWord)
		if word == "" {
			continue
		}
		subtitleType := node.Data(render.AttrSubtitleType)
		index := -1
		if raw := node.Data(render.AttrWordIndex); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				index = parsed
			}
		}

		key, ok := selection.SyncKey(m, word, subtitleType, index, node)
		if !ok {
			surface.SetHighlight(node, false)
			continue
		}
		m.UpdateNode(key, node)
		surface.SetHighlight(node, true)
		matched[word] = true
	}

	// Word-text fallback for selections the semantic pass missed.
	for _, word := range m.SelectedWords() {
		if matched[word] {
			continue
		}
		for _, node := range surface.WordNodes() {
			if node.HasClass(render.HighlightClass) {
				continue
			}
			if node.Data(render.AttrWord) != word {
				continue
			}
			surface.SetHighlight(node, true)
			break
		}
	}
}

// ClearHighlights removes the highlight class from every word node.
func ClearHighlights(surface render.Surface) {
	if surface == nil {
		return
	}
	for _, node := range surface.WordNodes() {
		surface.SetHighlight(node, false)
	}
}
