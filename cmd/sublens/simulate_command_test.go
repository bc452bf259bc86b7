package main

import "testing"

func TestSimulatePlayback(t *testing.T) {
	env := setupCLITestEnv(t)
	vttPath := writeTestVTT(t, t.TempDir())

	out, _, err := runCLI(t, []string{"simulate", vttPath}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	requireContains(t, out, "Loaded 2 cues")
	requireContains(t, out, "[00:01.000] bonjour monde")
	requireContains(t, out, "[00:04.000] au revoir")
}

func TestSimulateSelection(t *testing.T) {
	env := setupCLITestEnv(t)
	vttPath := writeTestVTT(t, t.TempDir())

	out, _, err := runCLI(t, []string{"simulate", vttPath, "--select", "bonjour"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("simulate --select: %v", err)
	}
	requireContains(t, out, "Selected: bonjour")
	requireContains(t, out, "Analysis result:")
	requireContains(t, out, `"text": "bonjour"`)
}

func TestSimulateSelectionMissingWord(t *testing.T) {
	env := setupCLITestEnv(t)
	vttPath := writeTestVTT(t, t.TempDir())

	if _, _, err := runCLI(t, []string{"simulate", vttPath, "--select", "zebra"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for a word absent from every cue")
	}
}
