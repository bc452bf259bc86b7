package render

import (
	"fmt"
	"strings"
)

// Dataset attribute names word nodes expose (the data-* contract without the
// "data-" prefix).
const (
	AttrWord         = "word"
	AttrSubtitleType = "subtitle-type"
	AttrWordIndex    = "word-index"
)

// Subtitle type tags stamped on word nodes.
const (
	SubtitleTypeOriginal = "original"
	SubtitleTypeTarget   = "target"
)

// HighlightClass marks a word node as selected.
const HighlightClass = "sublens-word--selected"

// WordClass marks an interactive word node.
const WordClass = "sublens-word"

// Node is one element in a rendered subtitle tree. Nodes are throwaway:
// a surface detaches the whole tree on every content change.
type Node struct {
	Tag     string
	ID      string
	Classes []string
	Dataset map[string]string
	Text    string

	parent   *Node
	children []*Node
	detached bool
}

// NewNode constructs a detached-from-nothing node.
func NewNode(tag string) *Node {
	return &Node{Tag: tag, Dataset: map[string]string{}}
}

// AppendChild links child under n.
func (n *Node) AppendChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Parent returns the parent node, nil at the tree root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns the child list.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}

// NthChild returns the 1-based position of n among its siblings, 1 when
// the node has no parent.
func (n *Node) NthChild() int {
	if n == nil || n.parent == nil {
		return 1
	}
	for i, sibling := range n.parent.children {
		if sibling == n {
			return i + 1
		}
	}
	return 1
}

// Live reports whether the node still belongs to the current render.
func (n *Node) Live() bool {
	return n != nil && !n.detached
}

// Data returns a dataset attribute value, empty when absent.
func (n *Node) Data(name string) string {
	if n == nil || n.Dataset == nil {
		return ""
	}
	return n.Dataset[name]
}

// HasClass reports whether the node carries the given class.
func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends a class if not already present.
func (n *Node) AddClass(class string) {
	if n == nil || n.HasClass(class) {
		return
	}
	n.Classes = append(n.Classes, class)
}

// RemoveClass drops a class if present.
func (n *Node) RemoveClass(class string) {
	if n == nil {
		return
	}
	kept := n.Classes[:0]
	for _, c := range n.Classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	n.Classes = kept
}

// detach marks n and its subtree as no longer rendered.
func (n *Node) detach() {
	if n == nil {
		return
	}
	n.detached = true
	for _, child := range n.children {
		child.detach()
	}
}

// WordNodeID returns the deterministic id stamped on an interactive word
// node, e.g. "word-original-3".
func WordNodeID(subtitleType string, index int) string {
	return fmt.Sprintf("word-%s-%d", subtitleType, index)
}

// TrimWord strips surrounding punctuation from a display token, yielding the
// selectable word. Interior punctuation (apostrophes, hyphens) survives.
func TrimWord(token string) string {
	return strings.Trim(token, `.,!?;:"'()[]{}¿¡«»…-—`)
}
