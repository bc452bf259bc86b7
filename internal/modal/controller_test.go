package modal_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"sublens/internal/analysis"
	"sublens/internal/modal"
	"sublens/internal/persist"
	"sublens/internal/render"
	"sublens/internal/selection"
)

type recordingDispatcher struct {
	mu        sync.Mutex
	requests  []analysis.Request
	cancelled []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, req analysis.Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	return nil
}

func (d *recordingDispatcher) Cancel(requestID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelled = append(d.cancelled, requestID)
}

func (d *recordingDispatcher) last() analysis.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[len(d.requests)-1]
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

type fixture struct {
	model      *selection.Model
	surface    *render.MemorySurface
	dispatcher *recordingDispatcher
	controller *modal.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	model := selection.NewModel()
	surface := render.NewMemorySurface()
	restorer := persist.NewRestorer(model, surface, nil, persist.Config{})
	t.Cleanup(restorer.Stop)
	dispatcher := &recordingDispatcher{}
	controller := modal.NewController(model, restorer, surface, dispatcher, nil, modal.Options{MaxAttempts: 3})
	controller.SetLanguages("fr", "en")
	return &fixture{model: model, surface: surface, dispatcher: dispatcher, controller: controller}
}

func (f *fixture) selectWords(t *testing.T, indices ...int) {
	t.Helper()
	nodes := f.surface.WordNodes()
	for _, i := range indices {
		if res := f.controller.ToggleWord(nodes[i]); res != selection.ToggleAdded {
			t.Fatalf("expected word %d added, got %q", i, res)
		}
	}
}

func TestStartAnalysisNoOpOnEmptySelection(t *testing.T) {
	f := newFixture(t)
	if f.controller.StartAnalysis(context.Background()) {
		t.Fatal("expected no-op with empty selection")
	}
	if f.dispatcher.count() != 0 {
		t.Fatal("expected no request dispatched")
	}
}

func TestAnalysisLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("bonjour monde", "")
	f.selectWords(t, 1, 0) // clicked out of order

	if got := f.controller.View().Get(); got.State != modal.StateSelection || got.SelectedText != "bonjour monde" {
		t.Fatalf("unexpected selection view %+v", got)
	}

	if !f.controller.StartAnalysis(context.Background()) {
		t.Fatal("expected analysis to start")
	}
	view := f.controller.View().Get()
	if view.State != modal.StateProcessing || view.Interactive {
		t.Fatalf("expected processing view, got %+v", view)
	}

	req := f.dispatcher.last()
	if req.Text != "bonjour monde" {
		t.Fatalf("unexpected request text %q", req.Text)
	}
	if req.Language != "fr" || req.TargetLanguage != "en" {
		t.Fatalf("unexpected language pair %q -> %q", req.Language, req.TargetLanguage)
	}

	f.controller.HandleResponse(context.Background(), analysis.Response{
		RequestID: req.RequestID,
		Success:   true,
		Result:    map[string]any{"summary": "greeting"},
	})

	view = f.controller.View().Get()
	if view.State != modal.StateDisplay || view.Result["summary"] != "greeting" {
		t.Fatalf("expected display view, got %+v", view)
	}

	f.controller.CloseModal()
	view = f.controller.View().Get()
	if view.State != modal.StateHidden || view.SelectedText != "" {
		t.Fatalf("expected hidden view, got %+v", view)
	}
	if f.model.Len() != 0 {
		t.Fatal("expected selection cleared")
	}
	for _, node := range f.surface.WordNodes() {
		if node.HasClass(render.HighlightClass) {
			t.Fatal("expected highlights cleared")
		}
	}
}

func TestMismatchedResponseIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("bonjour monde", "")
	f.selectWords(t, 0)
	f.controller.StartAnalysis(context.Background())

	f.controller.HandleResponse(context.Background(), analysis.Response{
		RequestID: "some-other-request",
		Success:   true,
		Result:    map[string]any{"summary": "stale"},
	})

	if got := f.controller.View().Get().State; got != modal.StateProcessing {
		t.Fatalf("expected state unchanged, got %q", got)
	}
	if !f.controller.Outstanding() {
		t.Fatal("expected token still live")
	}
}

func TestResponseAfterPauseIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("bonjour monde", "")
	f.selectWords(t, 0)
	f.controller.StartAnalysis(context.Background())
	req := f.dispatcher.last()

	f.controller.PauseAnalysis()
	if len(f.dispatcher.cancelled) != 1 || f.dispatcher.cancelled[0] != req.RequestID {
		t.Fatalf("expected cancellation intent for %q, got %v", req.RequestID, f.dispatcher.cancelled)
	}

	f.controller.HandleResponse(context.Background(), analysis.Response{RequestID: req.RequestID, Success: true})
	if got := f.controller.View().Get().State; got != modal.StateSelection {
		t.Fatalf("expected selection state after pause, got %q", got)
	}
}

func TestRetryBudgetExhaustionBecomesError(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("bonjour monde", "")
	f.selectWords(t, 0)
	f.controller.StartAnalysis(context.Background())

	for i := 0; i < 2; i++ {
		req := f.dispatcher.last()
		f.controller.HandleResponse(context.Background(), analysis.Response{RequestID: req.RequestID, ShouldRetry: true})
		if got := f.controller.View().Get().State; got != modal.StateProcessing {
			t.Fatalf("expected processing during retries, got %q", got)
		}
	}
	if f.dispatcher.count() != 3 {
		t.Fatalf("expected three attempts, got %d", f.dispatcher.count())
	}

	req := f.dispatcher.last()
	f.controller.HandleResponse(context.Background(), analysis.Response{RequestID: req.RequestID, ShouldRetry: true})

	view := f.controller.View().Get()
	if view.State != modal.StateError {
		t.Fatalf("expected error after budget exhaustion, got %q", view.State)
	}
	if f.dispatcher.count() != 3 {
		t.Fatalf("expected no further dispatch, got %d", f.dispatcher.count())
	}
	if f.model.Len() == 0 {
		t.Fatal("expected selection preserved on terminal error")
	}
}

func TestRetriesUseFreshRequestIDs(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("bonjour monde", "")
	f.selectWords(t, 0)
	f.controller.StartAnalysis(context.Background())

	first := f.dispatcher.last()
	f.controller.HandleResponse(context.Background(), analysis.Response{RequestID: first.RequestID, ShouldRetry: true})
	second := f.dispatcher.last()
	if first.RequestID == second.RequestID {
		t.Fatal("expected a fresh correlation token per attempt")
	}

	// The superseded token no longer gates anything.
	f.controller.HandleResponse(context.Background(), analysis.Response{RequestID: first.RequestID, Success: true})
	if got := f.controller.View().Get().State; got != modal.StateProcessing {
		t.Fatalf("expected stale token ignored, got %q", got)
	}
}

func TestTerminalErrorSurfacesMessage(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("bonjour monde", "")
	f.selectWords(t, 0)
	f.controller.StartAnalysis(context.Background())
	req := f.dispatcher.last()

	f.controller.HandleResponse(context.Background(), analysis.Response{
		RequestID: req.RequestID,
		Error:     "backend unavailable",
	})

	view := f.controller.View().Get()
	if view.State != modal.StateError || view.ErrorMessage != "backend unavailable" {
		t.Fatalf("unexpected error view %+v", view)
	}
}

func TestStartAnalysisDeduplicatesSelection(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("eco", "eco")
	f.selectWords(t, 0, 1) // same word on both subtitle lines

	f.controller.StartAnalysis(context.Background())
	req := f.dispatcher.last()
	if req.Text != "eco" {
		t.Fatalf("expected deduplicated text, got %q", req.Text)
	}
	if len(req.Selection.Words) != 1 {
		t.Fatalf("expected one word, got %v", req.Selection.Words)
	}
}

func TestOnResultHookFires(t *testing.T) {
	f := newFixture(t)
	f.surface.SetContent("bonjour monde", "")
	f.selectWords(t, 0)

	var hooked analysis.Response
	done := make(chan struct{})
	f.controller.OnResult(func(_ analysis.Request, resp analysis.Response) {
		hooked = resp
		close(done)
	})

	f.controller.StartAnalysis(context.Background())
	req := f.dispatcher.last()
	f.controller.HandleResponse(context.Background(), analysis.Response{RequestID: req.RequestID, Success: true})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected result hook to fire")
	}
	if hooked.RequestID != req.RequestID {
		t.Fatalf("unexpected hooked response %+v", hooked)
	}
}
