package modal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"sublens/internal/analysis"
	"sublens/internal/persist"
	"sublens/internal/render"
	"sublens/internal/selection"
	"sublens/internal/store"
)

// Options carries controller policy.
type Options struct {
	// MaxAttempts bounds analysis requests per StartAnalysis, retries
	// included.
	MaxAttempts int
	// ContextTypes is forwarded on every analysis request.
	ContextTypes []string
}

// Controller owns one modal's state machine.
type Controller struct {
	mu         sync.Mutex
	model      *selection.Model
	restorer   *persist.Restorer
	surface    render.Surface
	dispatcher analysis.Dispatcher
	view       *store.Store[ViewState]
	logger     *slog.Logger
	opts       Options

	language       string
	targetLanguage string

	currentRequestID string
	attempts         int
	rawResult        map[string]any

	// onResult fires after a successful analysis (vocab capture hook).
	onResult func(analysis.Request, analysis.Response)
}

// NewController wires a controller over its collaborators.
func NewController(model *selection.Model, restorer *persist.Restorer, surface render.Surface, dispatcher analysis.Dispatcher, logger *slog.Logger, opts Options) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if len(opts.ContextTypes) == 0 {
		opts.ContextTypes = []string{"definition", "usage"}
	}
	return &Controller{
		model:      model,
		restorer:   restorer,
		surface:    surface,
		dispatcher: dispatcher,
		view:       store.New(ViewState{State: StateHidden, Interactive: true}),
		logger:     logger,
		opts:       opts,
	}
}

// View returns the observable presentation store.
func (c *Controller) View() *store.Store[ViewState] {
	return c.view
}

// SetLanguages records the language pair forwarded on analysis requests.
func (c *Controller) SetLanguages(language, targetLanguage string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = language
	c.targetLanguage = targetLanguage
}

// OnResult registers a hook fired after each successful analysis.
func (c *Controller) OnResult(fn func(analysis.Request, analysis.Response)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResult = fn
}

// ToggleWord flips the selection state of a rendered word node and keeps
// highlights, the persistence snapshot, and the view in sync.
func (c *Controller) ToggleWord(node *render.Node) selection.ToggleResult {
	word := node.Data(render.AttrWord)
	if word == "" {
		return selection.ToggleNoop
	}
	subtitleType := node.Data(render.AttrSubtitleType)
	wordIndex := selection.WordIndexOf(node)
	key := selection.NodeKey(node, word, subtitleType, wordIndex)

	c.mu.Lock()
	result := c.model.Toggle(word, selection.Position{
		SubtitleType: subtitleType,
		WordIndex:    wordIndex,
		Index:        -1,
		Node:         node,
	}, key)
	c.mu.Unlock()

	switch result {
	case selection.ToggleAdded:
		c.surface.SetHighlight(node, true)
	case selection.ToggleRemoved:
		c.surface.SetHighlight(node, false)
	default:
		return result
	}

	if c.model.Len() > 0 {
		c.restorer.Capture()
		c.view.Update(func(v ViewState) ViewState {
			v.State = StateSelection
			v.SelectedText = c.model.SelectedText()
			return v
		})
	} else {
		c.restorer.Clear()
		c.view.Update(func(v ViewState) ViewState {
			if v.State == StateSelection {
				v.SelectedText = ""
			}
			return v
		})
	}
	return result
}

// StartAnalysis deduplicates the selection and dispatches a fresh analysis
// request. Empty selections are a no-op.
func (c *Controller) StartAnalysis(ctx context.Context) bool {
	if c.model.Len() == 0 {
		return false
	}

	c.pause()

	c.mu.Lock()
	c.model.RemoveDuplicatesPreferOriginal()
	c.attempts = 0
	c.mu.Unlock()

	c.surface.SetInteractive(false)
	c.view.Update(func(v ViewState) ViewState {
		v.State = StateProcessing
		v.SelectedText = c.model.SelectedText()
		v.ErrorMessage = ""
		v.Interactive = false
		return v
	})

	return c.dispatch(ctx)
}

// dispatch issues one attempt under a fresh correlation token.
func (c *Controller) dispatch(ctx context.Context) bool {
	c.mu.Lock()
	id := uuid.NewString()
	c.currentRequestID = id
	c.attempts++
	req := analysis.Request{
		RequestID:      id,
		Text:           c.model.SelectedText(),
		ContextTypes:   c.opts.ContextTypes,
		Language:       c.language,
		TargetLanguage: c.targetLanguage,
		Selection: analysis.Selection{
			Text:  c.model.SelectedText(),
			Words: c.model.SelectedWords(),
		},
	}
	attempt := c.attempts
	c.mu.Unlock()

	c.logger.Debug("analysis dispatched",
		slog.String("request_id", id),
		slog.Int("attempt", attempt),
		slog.String("text", req.Text))

	if err := c.dispatcher.Dispatch(ctx, req); err != nil {
		c.mu.Lock()
		c.currentRequestID = ""
		c.mu.Unlock()
		c.fail(fmt.Sprintf("analysis dispatch failed: %v", err))
		return false
	}
	return true
}

// PauseAnalysis cancels the outstanding request and returns to selection.
func (c *Controller) PauseAnalysis() {
	c.pause()
	c.surface.SetInteractive(true)
	c.view.Update(func(v ViewState) ViewState {
		v.State = StateSelection
		v.Interactive = true
		return v
	})
}

// pause invalidates the correlation token and signals best-effort upstream
// cancellation.
func (c *Controller) pause() {
	c.mu.Lock()
	id := c.currentRequestID
	c.currentRequestID = ""
	c.mu.Unlock()
	if id != "" && c.dispatcher != nil {
		c.dispatcher.Cancel(id)
	}
}

// HandleResponse processes a correlated backend response. Responses without
// a matching outstanding token are silently discarded.
func (c *Controller) HandleResponse(ctx context.Context, resp analysis.Response) {
	c.mu.Lock()
	if c.currentRequestID == "" {
		c.mu.Unlock()
		return
	}
	if resp.RequestID != "" && resp.RequestID != c.currentRequestID {
		c.mu.Unlock()
		c.logger.Debug("stale analysis response discarded", slog.String("request_id", resp.RequestID))
		return
	}

	switch {
	case resp.Success:
		c.currentRequestID = ""
		c.rawResult = resp.Result
		onResult := c.onResult
		req := analysis.Request{
			RequestID:      resp.RequestID,
			Text:           c.model.SelectedText(),
			Language:       c.language,
			TargetLanguage: c.targetLanguage,
			Selection: analysis.Selection{
				Text:  c.model.SelectedText(),
				Words: c.model.SelectedWords(),
			},
		}
		c.mu.Unlock()

		c.surface.SetInteractive(true)
		c.view.Update(func(v ViewState) ViewState {
			v.State = StateDisplay
			v.Result = resp.Result
			v.ErrorMessage = ""
			v.Interactive = true
			return v
		})
		if onResult != nil {
			onResult(req, resp)
		}

	case resp.ShouldRetry:
		if c.attempts < c.opts.MaxAttempts {
			c.currentRequestID = ""
			c.mu.Unlock()
			c.logger.Debug("analysis retry", slog.Int("attempt", c.attempts+1))
			c.dispatch(ctx)
			return
		}
		c.currentRequestID = ""
		attempts := c.attempts
		c.mu.Unlock()
		c.fail(fmt.Sprintf("analysis failed after %d attempts", attempts))

	default:
		c.currentRequestID = ""
		c.mu.Unlock()
		message := resp.Error
		if message == "" {
			message = "analysis failed"
		}
		c.fail(message)
	}
}

// fail surfaces a terminal error without clearing the selection.
func (c *Controller) fail(message string) {
	c.surface.SetInteractive(true)
	c.view.Update(func(v ViewState) ViewState {
		v.State = StateError
		v.ErrorMessage = message
		v.Interactive = true
		return v
	})
}

// ReturnToSelection reopens the selection phase from display or error.
func (c *Controller) ReturnToSelection() {
	c.view.Update(func(v ViewState) ViewState {
		v.State = StateSelection
		v.SelectedText = c.model.SelectedText()
		v.ErrorMessage = ""
		v.Interactive = true
		return v
	})
}

// CloseModal pauses any analysis, clears the selection with its snapshot and
// highlights, and hides the modal.
func (c *Controller) CloseModal() {
	c.pause()

	c.mu.Lock()
	c.model.Clear()
	c.rawResult = nil
	c.mu.Unlock()

	c.restorer.Clear()
	persist.ClearHighlights(c.surface)
	c.surface.SetInteractive(true)

	c.view.Set(ViewState{State: StateHidden, Interactive: true})
}

// RawResult returns the last successful analysis result.
func (c *Controller) RawResult() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rawResult
}

// Outstanding reports whether an analysis request token is live.
func (c *Controller) Outstanding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRequestID != ""
}
