package daemon_test

import (
	"context"
	"testing"
	"time"

	"sublens/internal/daemon"
	"sublens/internal/modal"
	"sublens/internal/selection"
	"sublens/internal/subtitle"
	"sublens/internal/testsupport"
)

const sampleVTT = `WEBVTT

00:00:01.000 --> 00:00:03.000
bonjour monde

00:00:04.000 --> 00:00:06.000
au revoir
`

func newRunningDaemon(t *testing.T) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, nil, daemon.Options{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := d.Start(testContext(t)); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	return d
}

func TestStartRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVocabDisabled())
	first, err := daemon.New(cfg, nil, daemon.Options{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })
	if err := first.Start(testContext(t)); err != nil {
		t.Fatalf("first start: %v", err)
	}

	second, err := daemon.New(cfg, nil, daemon.Options{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	if err := second.Start(testContext(t)); err == nil {
		t.Fatal("expected second start to fail while lock is held")
	}

	first.Stop()
	if err := second.Start(testContext(t)); err != nil {
		t.Fatalf("start after release: %v", err)
	}
}

func TestSessionLifecycleThroughDaemon(t *testing.T) {
	d := newRunningDaemon(t)

	id, err := d.OpenSession("")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated session id")
	}

	n, err := d.LoadSubtitles(id, subtitle.Payload{
		VideoID:        "vid-1",
		VTTText:        sampleVTT,
		SourceLanguage: "fr",
		TargetLanguage: "en",
	})
	if err != nil {
		t.Fatalf("load subtitles: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 cues, got %d", n)
	}

	display, err := d.UpdateTime(id, 1.5, true)
	if err != nil {
		t.Fatalf("update time: %v", err)
	}
	if display.Original != "bonjour monde" {
		t.Fatalf("unexpected display: %#v", display)
	}

	nodes, err := d.WordNodes(id)
	if err != nil {
		t.Fatalf("word nodes: %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("expected word nodes for current display")
	}

	result, view, err := d.WordClick(id, nodes[0].ID)
	if err != nil {
		t.Fatalf("word click: %v", err)
	}
	if result != selection.ToggleAdded {
		t.Fatalf("expected toggle add, got %q", result)
	}
	if view.State != modal.StateSelection || view.SelectedText != "bonjour" {
		t.Fatalf("unexpected view after click: %#v", view)
	}

	started, err := d.StartAnalysis(testContext(t), id)
	if err != nil {
		t.Fatalf("start analysis: %v", err)
	}
	if !started {
		t.Fatal("expected analysis to start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		view, err = d.ModalView(id)
		if err != nil {
			t.Fatalf("modal view: %v", err)
		}
		if view.State == modal.StateDisplay {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("analysis never completed, state %q", view.State)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if view.Result == nil {
		t.Fatal("expected analysis result in view")
	}

	phrases, err := d.VocabList(testContext(t), "vid-1", 0)
	if err != nil {
		t.Fatalf("vocab list: %v", err)
	}
	if len(phrases) != 1 || phrases[0].Text != "bonjour" {
		t.Fatalf("unexpected saved phrases: %#v", phrases)
	}

	st := d.Status(testContext(t))
	if !st.Running || st.VocabCount != 1 || len(st.Sessions) != 1 {
		t.Fatalf("unexpected status: %#v", st)
	}

	if !d.CloseSession(id) {
		t.Fatal("expected close to find session")
	}
	if _, err := d.ModalView(id); err == nil {
		t.Fatal("expected lookup failure after close")
	}
}

func TestVocabDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVocabDisabled())
	d, err := daemon.New(cfg, nil, daemon.Options{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.VocabList(testContext(t), "", 0); err == nil {
		t.Fatal("expected error when vocab store disabled")
	}
	st := d.Status(testContext(t))
	if st.VocabPath != "" || st.VocabCount != 0 {
		t.Fatalf("unexpected vocab status: %#v", st)
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
