package render

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MemorySurface renders subtitle pairs into an in-memory node tree honoring
// the word-node contract. It stamps a fresh volatile container id on every
// render, mimicking the attribute noise real players inject, so content
// comparison has to go through signatures rather than raw markup.
type MemorySurface struct {
	container   *Node
	words       []*Node
	byID        map[string]*Node
	interactive bool
}

// NewMemorySurface returns an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{byID: map[string]*Node{}}
}

// SetContent rebuilds the node tree for the given subtitle pair.
func (s *MemorySurface) SetContent(original, translated string) {
	if s.container != nil {
		s.container.detach()
	}
	s.words = nil
	s.byID = map[string]*Node{}

	container := NewNode("div")
	container.ID = "sublens-container-" + uuid.NewString()
	container.Classes = []string{"sublens-subtitles"}

	s.appendLine(container, SubtitleTypeOriginal, original)
	s.appendLine(container, SubtitleTypeTarget, translated)
	s.container = container
}

func (s *MemorySurface) appendLine(container *Node, subtitleType, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	line := NewNode("div")
	line.Classes = []string{"sublens-line", "sublens-line-" + subtitleType}
	container.AppendChild(line)

	for i, token := range strings.Fields(text) {
		word := NewNode("span")
		word.ID = WordNodeID(subtitleType, i)
		word.Classes = []string{WordClass}
		word.Text = token
		word.Dataset[AttrWord] = TrimWord(token)
		word.Dataset[AttrSubtitleType] = subtitleType
		word.Dataset[AttrWordIndex] = strconv.Itoa(i)
		line.AppendChild(word)
		s.words = append(s.words, word)
		s.byID[word.ID] = word
	}
}

// Container returns the current root node.
func (s *MemorySurface) Container() *Node {
	return s.container
}

// WordNodes returns interactive word nodes in document order.
func (s *MemorySurface) WordNodes() []*Node {
	out := make([]*Node, len(s.words))
	copy(out, s.words)
	return out
}

// NodeByID resolves a word node by id within the current render.
func (s *MemorySurface) NodeByID(id string) *Node {
	return s.byID[id]
}

// ContainerText returns the visible text of the current render.
func (s *MemorySurface) ContainerText() string {
	if s.container == nil {
		return ""
	}
	var parts []string
	for _, line := range s.container.Children() {
		var words []string
		for _, word := range line.Children() {
			if word.Text != "" {
				words = append(words, word.Text)
			}
		}
		if len(words) > 0 {
			parts = append(parts, strings.Join(words, " "))
		}
	}
	return strings.Join(parts, "\n")
}

// SetHighlight toggles the selected class on a word node.
func (s *MemorySurface) SetHighlight(node *Node, on bool) {
	if node == nil {
		return
	}
	if on {
		node.AddClass(HighlightClass)
		return
	}
	node.RemoveClass(HighlightClass)
}

// SetInteractive enables or disables word-click affordances.
func (s *MemorySurface) SetInteractive(on bool) {
	s.interactive = on
}

// Interactive reports whether word clicks are currently enabled.
func (s *MemorySurface) Interactive() bool {
	return s.interactive
}
