package session_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"sublens/internal/analysis"
	"sublens/internal/modal"
	"sublens/internal/platform"
	"sublens/internal/render"
	"sublens/internal/sched"
	"sublens/internal/selection"
	"sublens/internal/session"
	"sublens/internal/subtitle"
)

const sampleVTT = `WEBVTT

00:00:01.000 --> 00:00:03.000
bonjour monde

00:00:04.000 --> 00:00:06.000
au revoir
`

type recordingDispatcher struct {
	mu       sync.Mutex
	requests []analysis.Request
}

func (d *recordingDispatcher) Dispatch(_ context.Context, req analysis.Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	return nil
}

func (d *recordingDispatcher) Cancel(string) {}

func (d *recordingDispatcher) last() analysis.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[len(d.requests)-1]
}

type staticTranslator struct {
	byText map[string]string
}

func (t *staticTranslator) Translate(_ context.Context, texts []string, _, _ string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = t.byText[text]
	}
	return out, nil
}

type harness struct {
	adapter    *platform.Scripted
	surface    *render.MemorySurface
	dispatcher *recordingDispatcher
	session    *session.Session
}

func newHarness(t *testing.T, translator *staticTranslator) *harness {
	t.Helper()
	adapter := platform.NewScripted("vid-1", 600)
	surface := render.NewMemorySurface()
	dispatcher := &recordingDispatcher{}
	var tr sched.Translator
	if translator != nil {
		tr = translator
	}
	s := session.New("vid-1", adapter, surface, dispatcher, tr, nil, session.Options{
		Placeholder: "Translating…",
	})
	t.Cleanup(s.Close)
	return &harness{adapter: adapter, surface: surface, dispatcher: dispatcher, session: s}
}

func (h *harness) loadSample(t *testing.T) {
	t.Helper()
	n, err := h.session.HandleSubtitlePayload(subtitle.Payload{
		VideoID:        "vid-1",
		VTTText:        sampleVTT,
		SourceLanguage: "fr",
		TargetLanguage: "en",
	})
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 cues, got %d", n)
	}
}

func TestEndToEndSelectionAnalysis(t *testing.T) {
	h := newHarness(t, nil)
	h.loadSample(t)

	h.adapter.Seek(2)
	h.adapter.SetPaused(false)
	if !h.session.HandleTimeUpdate() {
		t.Fatal("expected display update at t=2")
	}
	if text := h.surface.ContainerText(); !strings.Contains(text, "bonjour monde") {
		t.Fatalf("unexpected render %q", text)
	}

	// Clicks during playback are ignored.
	if res := h.session.HandleWordClick(render.WordNodeID(render.SubtitleTypeOriginal, 0)); res != selection.ToggleNoop {
		t.Fatalf("expected playing click to be a no-op, got %q", res)
	}

	h.adapter.SetPaused(true)
	if res := h.session.HandleWordClick(render.WordNodeID(render.SubtitleTypeOriginal, 0)); res != selection.ToggleAdded {
		t.Fatalf("expected first word added, got %q", res)
	}
	if res := h.session.HandleWordClick(render.WordNodeID(render.SubtitleTypeOriginal, 1)); res != selection.ToggleAdded {
		t.Fatalf("expected second word added, got %q", res)
	}

	view := h.session.Controller().View()
	if got := view.Get(); got.State != modal.StateSelection || got.SelectedText != "bonjour monde" {
		t.Fatalf("unexpected selection view %+v", got)
	}

	if !h.session.StartAnalysis(context.Background()) {
		t.Fatal("expected analysis to start")
	}
	if got := view.Get().State; got != modal.StateProcessing {
		t.Fatalf("expected processing, got %q", got)
	}

	req := h.dispatcher.last()
	if req.Text != "bonjour monde" || req.Language != "fr" || req.TargetLanguage != "en" {
		t.Fatalf("unexpected request %+v", req)
	}

	h.session.HandleAnalysisResponse(context.Background(), analysis.Response{
		RequestID: req.RequestID,
		Success:   true,
		Result:    map[string]any{"summary": "a greeting"},
	})
	if got := view.Get(); got.State != modal.StateDisplay || got.Result["summary"] != "a greeting" {
		t.Fatalf("unexpected display view %+v", got)
	}

	h.session.CloseModal()
	if got := view.Get().State; got != modal.StateHidden {
		t.Fatalf("expected hidden after close, got %q", got)
	}
	for _, node := range h.surface.WordNodes() {
		if node.HasClass(render.HighlightClass) {
			t.Fatal("expected highlights cleared after close")
		}
	}
}

func TestSelectionRestoredAfterCueRoundTrip(t *testing.T) {
	h := newHarness(t, nil)
	h.loadSample(t)

	h.adapter.Seek(2)
	h.session.HandleTimeUpdate()
	h.session.HandleWordClick(render.WordNodeID(render.SubtitleTypeOriginal, 0))
	h.session.HandleWordClick(render.WordNodeID(render.SubtitleTypeOriginal, 1))

	// Leaving the cue rebuilds the render; the selection must not restore
	// against the wrong content.
	h.adapter.Seek(5)
	if !h.session.HandleTimeUpdate() {
		t.Fatal("expected display update at t=5")
	}
	for _, node := range h.surface.WordNodes() {
		if node.HasClass(render.HighlightClass) {
			t.Fatalf("word %q should not be highlighted on the wrong cue", node.Text)
		}
	}

	h.adapter.Seek(2)
	if !h.session.HandleTimeUpdate() {
		t.Fatal("expected display update back at t=2")
	}

	highlighted := 0
	for _, node := range h.surface.WordNodes() {
		if node.HasClass(render.HighlightClass) {
			highlighted++
		}
	}
	if highlighted != 2 {
		t.Fatalf("expected both words re-highlighted, got %d", highlighted)
	}

	// The restored selection drives analysis exactly as the original did.
	if !h.session.StartAnalysis(context.Background()) {
		t.Fatal("expected analysis to start from restored selection")
	}
	if req := h.dispatcher.last(); req.Text != "bonjour monde" {
		t.Fatalf("unexpected analysis text %q after restore", req.Text)
	}
}

func TestFillQueueTranslatesPlaceholders(t *testing.T) {
	translator := &staticTranslator{byText: map[string]string{
		"bonjour monde": "hello world",
		"au revoir":     "goodbye",
	}}
	h := newHarness(t, translator)
	h.loadSample(t)

	h.adapter.Seek(2)
	h.session.HandleTimeUpdate()

	deadline := time.Now().Add(2 * time.Second)
	for {
		h.session.HandleTimeUpdate()
		if h.session.Scheduler().CurrentDisplay().Translated == "hello world" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("translation never arrived, display %+v", h.session.Scheduler().CurrentDisplay())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := session.NewManager(func(id string) (*session.Session, error) {
		adapter := platform.NewScripted(id, 600)
		surface := render.NewMemorySurface()
		return session.New(id, adapter, surface, &recordingDispatcher{}, nil, nil, session.Options{}), nil
	}, nil)

	a, err := m.Open("vid-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	again, err := m.Open("vid-a")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if a != again {
		t.Fatal("expected Open to return the existing session")
	}

	if _, err := m.Open("vid-b"); err != nil {
		t.Fatalf("open second: %v", err)
	}
	if ids := m.IDs(); len(ids) != 2 || ids[0] != "vid-a" || ids[1] != "vid-b" {
		t.Fatalf("unexpected ids %v", ids)
	}

	if !m.Close("vid-a") {
		t.Fatal("expected close to report a live session")
	}
	if _, ok := m.Get("vid-a"); ok {
		t.Fatal("expected vid-a removed")
	}
	m.CloseAll()
	if ids := m.IDs(); len(ids) != 0 {
		t.Fatalf("expected empty registry, got %v", ids)
	}
}
