package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sublens/internal/config"
	"sublens/internal/daemon"
	"sublens/internal/ipc"
	"sublens/internal/logging"
	"sublens/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	logPath    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)

	configPath := filepath.Join(homeDir, ".config", "sublens", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	logger := logging.NewNop()
	d, err := daemon.New(cfg, logger, daemon.Options{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	srv, err := ipc.NewServer(testContext(t), cfg.Paths.SocketPath, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	if err := d.Start(testContext(t)); err != nil {
		t.Fatalf("daemon start: %v", err)
	}

	env := &cliTestEnv{
		cfg:        cfg,
		daemon:     d,
		server:     srv,
		socketPath: cfg.Paths.SocketPath,
		configPath: configPath,
		logPath:    d.LogPath(),
	}

	t.Cleanup(func() {
		srv.Close()
		_ = d.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\nsocket_path = %q\n\n"+
			"[subtitles]\nsource_language = %q\ntarget_language = %q\n\n"+
			"[vocab]\nenabled = %t\npath = %q\n",
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Paths.SocketPath,
		cfg.Subtitles.SourceLanguage,
		cfg.Subtitles.TargetLanguage,
		cfg.Vocab.Enabled,
		cfg.Vocab.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeTestVTT(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.vtt")
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:03.000\nbonjour monde\n\n00:00:04.000 --> 00:00:06.000\nau revoir\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write vtt: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
