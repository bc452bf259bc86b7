package modal

// State is the modal lifecycle phase.
type State string

const (
	StateHidden     State = "hidden"
	StateSelection  State = "selection"
	StateProcessing State = "processing"
	StateDisplay    State = "display"
	StateError      State = "error"
)

// ViewState is the presentation snapshot UI renderers consume. Every field
// is derived from the controller's models on write; nothing here is mutated
// independently.
type ViewState struct {
	State        State          `json:"state"`
	SelectedText string         `json:"selectedText"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Interactive  bool           `json:"interactive"`
}

// CSSClass projects the state onto the modal's presentation class.
func (s State) CSSClass() string {
	return "sublens-modal--" + string(s)
}
