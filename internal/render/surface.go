package render

// Surface is the rendering layer the core drives. Implementations own the
// subtitle container; the core only writes text pairs and toggles highlight
// state on the word nodes the surface produced.
type Surface interface {
	// SetContent replaces the rendered subtitle pair. Either string may be
	// empty. All previously returned nodes become dead after this call.
	SetContent(original, translated string)

	// Container returns the root node of the current render, nil before the
	// first SetContent.
	Container() *Node

	// WordNodes returns the interactive word nodes of the current render in
	// document order.
	WordNodes() []*Node

	// NodeByID resolves a node by its deterministic id within the current
	// render.
	NodeByID(id string) *Node

	// ContainerText returns the visible text of the current render.
	ContainerText() string

	// SetHighlight toggles the selected class on a word node.
	SetHighlight(node *Node, on bool)

	// SetInteractive enables or disables word-click affordances.
	SetInteractive(on bool)
}
