package analysis

import "context"

// Selection is the phrase payload of an analysis request.
type Selection struct {
	Text  string   `json:"text"`
	Words []string `json:"words"`
}

// Request asks the backend to analyze a selected phrase in context.
type Request struct {
	RequestID      string    `json:"requestId"`
	Text           string    `json:"text"`
	ContextTypes   []string  `json:"contextTypes"`
	Language       string    `json:"language"`
	TargetLanguage string    `json:"targetLanguage"`
	Selection      Selection `json:"selection"`
}

// Response is the correlated backend result event.
type Response struct {
	RequestID   string         `json:"requestId"`
	Success     bool           `json:"success"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	ShouldRetry bool           `json:"shouldRetry,omitempty"`
}

// Dispatcher carries requests to the backend.
type Dispatcher interface {
	// Dispatch sends a request without awaiting its result.
	Dispatch(ctx context.Context, req Request) error

	// Cancel signals best-effort cancellation of an in-flight request.
	// The call may be ignored upstream.
	Cancel(requestID string)
}
