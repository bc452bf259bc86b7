package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sublens/internal/logging"
)

func TestNewConsoleWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "sublens.log")

	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	componentLogger := logging.NewComponentLogger(logger, "scheduler")
	componentLogger.Info("display updated", logging.String("video_id", "vid-1"), logging.Int("cues", 2))

	contents, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(contents)
	if !strings.Contains(line, "INFO scheduler: display updated") {
		t.Fatalf("unexpected log line %q", line)
	}
	if !strings.Contains(line, "video_id=vid-1") || !strings.Contains(line, "cues=2") {
		t.Fatalf("missing attrs in %q", line)
	}
}

func TestNewJSONFormat(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "sublens.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("payload loaded", logging.Int("cues", 3))

	contents, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(contents)
	for _, want := range []string{`"msg":"payload loaded"`, `"level":"info"`, `"cues":3`} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestContextFields(t *testing.T) {
	ctx := logging.WithSessionID(testContext(t), "sess-1")
	ctx = logging.WithRequestID(ctx, "req-9")

	fields := logging.ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected two fields, got %v", fields)
	}
	if fields[0].Key != logging.FieldSessionID || fields[0].Value.String() != "sess-1" {
		t.Fatalf("unexpected first field %v", fields[0])
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.log")
	fresh := filepath.Join(dir, "fresh.log")
	for _, path := range []string{old, fresh} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	past := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 7, logging.RetentionTarget{Dir: dir, Pattern: "*.log"})

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expected old log pruned")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected fresh log kept: %v", err)
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
