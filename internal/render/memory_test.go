package render_test

import (
	"strings"
	"testing"

	"sublens/internal/render"
)

func TestSetContentBuildsWordNodes(t *testing.T) {
	s := render.NewMemorySurface()
	s.SetContent("Bonjour, le monde!", "Hello world")

	nodes := s.WordNodes()
	if len(nodes) != 5 {
		t.Fatalf("expected 5 word nodes, got %d", len(nodes))
	}

	first := nodes[0]
	if first.ID != render.WordNodeID(render.SubtitleTypeOriginal, 0) {
		t.Fatalf("unexpected first node id %q", first.ID)
	}
	if first.Text != "Bonjour," {
		t.Fatalf("expected display token to keep punctuation, got %q", first.Text)
	}
	if got := first.Data(render.AttrWord); got != "Bonjour" {
		t.Fatalf("expected trimmed word attribute, got %q", got)
	}
	if got := first.Data(render.AttrSubtitleType); got != render.SubtitleTypeOriginal {
		t.Fatalf("unexpected subtitle type %q", got)
	}
	if !first.HasClass(render.WordClass) {
		t.Fatal("expected word class on interactive node")
	}

	last := nodes[4]
	if last.ID != render.WordNodeID(render.SubtitleTypeTarget, 1) {
		t.Fatalf("unexpected target node id %q", last.ID)
	}
	if got := last.Data(render.AttrWordIndex); got != "1" {
		t.Fatalf("unexpected word index %q", got)
	}
}

func TestSetContentDetachesPreviousRender(t *testing.T) {
	s := render.NewMemorySurface()
	s.SetContent("premier", "")
	stale := s.NodeByID(render.WordNodeID(render.SubtitleTypeOriginal, 0))
	if !stale.Live() {
		t.Fatal("expected freshly rendered node to be live")
	}

	s.SetContent("second", "")
	if stale.Live() {
		t.Fatal("expected node from previous render to be detached")
	}
	if s.NodeByID(stale.ID) == stale {
		t.Fatal("expected id lookup to resolve to the new render")
	}
}

func TestContainerIDChangesPerRender(t *testing.T) {
	s := render.NewMemorySurface()
	s.SetContent("bonjour", "hello")
	firstID := s.Container().ID
	s.SetContent("bonjour", "hello")
	if s.Container().ID == firstID {
		t.Fatal("expected a fresh volatile container id on re-render")
	}
	if !strings.HasPrefix(firstID, "sublens-container-") {
		t.Fatalf("unexpected container id %q", firstID)
	}
}

func TestContainerTextAndEmptyLines(t *testing.T) {
	s := render.NewMemorySurface()
	s.SetContent("bonjour le monde", "")
	if len(s.Container().Children()) != 1 {
		t.Fatalf("expected a single line for an empty translation, got %d", len(s.Container().Children()))
	}
	if got := s.ContainerText(); got != "bonjour le monde" {
		t.Fatalf("unexpected container text %q", got)
	}

	s.SetContent("bonjour", "hello")
	if got := s.ContainerText(); got != "bonjour\nhello" {
		t.Fatalf("unexpected container text %q", got)
	}
}

func TestHighlightToggle(t *testing.T) {
	s := render.NewMemorySurface()
	s.SetContent("bonjour", "")
	node := s.NodeByID(render.WordNodeID(render.SubtitleTypeOriginal, 0))

	s.SetHighlight(node, true)
	if !node.HasClass(render.HighlightClass) {
		t.Fatal("expected highlight class after SetHighlight(true)")
	}
	s.SetHighlight(node, true)
	if got := len(node.Classes); got != 2 {
		t.Fatalf("expected highlight class to be added once, got %d classes", got)
	}
	s.SetHighlight(node, false)
	if node.HasClass(render.HighlightClass) {
		t.Fatal("expected highlight class removed after SetHighlight(false)")
	}
}

func TestTrimWordKeepsInteriorPunctuation(t *testing.T) {
	cases := map[string]string{
		"«bonjour»":   "bonjour",
		"aujourd'hui": "aujourd'hui",
		"peut-être":   "peut-être",
		"monde!":      "monde",
		"...":         "",
	}
	for token, want := range cases {
		if got := render.TrimWord(token); got != want {
			t.Fatalf("TrimWord(%q) = %q, want %q", token, got, want)
		}
	}
}
