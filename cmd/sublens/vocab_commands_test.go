package main

import "testing"

func TestVocabListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"vocab", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("vocab list: %v", err)
	}
	requireContains(t, out, "No saved phrases")
}

func TestVocabDeleteMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"vocab", "delete", "99"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("vocab delete: %v", err)
	}
	requireContains(t, out, "Phrase 99 not found")

	if _, _, err := runCLI(t, []string{"vocab", "delete", "abc"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for non-numeric phrase id")
	}
}
