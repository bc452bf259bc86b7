package main

import "testing"

func TestStatusRunningDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Running (pid")
	requireContains(t, out, "Vocabulary")
	requireContains(t, out, "No open sessions")
}

func TestStatusUnreachableDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.socketPath+".missing", env.configPath)
	if err != nil {
		t.Fatalf("status against missing socket: %v", err)
	}
	requireContains(t, out, "Not running")
}
