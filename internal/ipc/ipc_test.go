package ipc_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"sublens/internal/daemon"
	"sublens/internal/ipc"
	"sublens/internal/logging"
	"sublens/internal/modal"
	"sublens/internal/selection"
	"sublens/internal/testsupport"
)

const sampleVTT = `WEBVTT

00:00:01.000 --> 00:00:03.000
bonjour monde

00:00:04.000 --> 00:00:06.000
au revoir
`

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()

	d, err := daemon.New(cfg, logger, daemon.Options{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	srv, err := ipc.NewServer(testContext(t), cfg.Paths.SocketPath, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(cfg.Paths.SocketPath)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running || status.PID != os.Getpid() {
		t.Fatalf("unexpected status: %#v", status)
	}

	openResp, err := client.SessionOpen("")
	if err != nil {
		t.Fatalf("SessionOpen failed: %v", err)
	}
	if openResp.ID == "" {
		t.Fatal("expected generated session id")
	}

	loadResp, err := client.LoadSubtitles(ipc.LoadSubtitlesRequest{
		SessionID:      openResp.ID,
		VideoID:        "vid-1",
		VTTText:        sampleVTT,
		SourceLanguage: "fr",
		TargetLanguage: "en",
	})
	if err != nil {
		t.Fatalf("LoadSubtitles failed: %v", err)
	}
	if loadResp.Cues != 2 {
		t.Fatalf("expected 2 cues, got %d", loadResp.Cues)
	}

	timeResp, err := client.TimeUpdate(ipc.TimeUpdateRequest{SessionID: openResp.ID, Time: 1.5, Paused: true})
	if err != nil {
		t.Fatalf("TimeUpdate failed: %v", err)
	}
	if timeResp.Original != "bonjour monde" {
		t.Fatalf("unexpected display: %#v", timeResp)
	}

	nodesResp, err := client.WordNodes(openResp.ID)
	if err != nil {
		t.Fatalf("WordNodes failed: %v", err)
	}
	if len(nodesResp.Nodes) == 0 {
		t.Fatal("expected word nodes for current display")
	}

	clickResp, err := client.WordClick(openResp.ID, nodesResp.Nodes[0].ID)
	if err != nil {
		t.Fatalf("WordClick failed: %v", err)
	}
	if clickResp.Result != string(selection.ToggleAdded) {
		t.Fatalf("expected toggle add, got %q", clickResp.Result)
	}
	if clickResp.View.State != modal.StateSelection {
		t.Fatalf("unexpected modal state %q", clickResp.View.State)
	}

	analysisResp, err := client.StartAnalysis(openResp.ID)
	if err != nil {
		t.Fatalf("StartAnalysis failed: %v", err)
	}
	if !analysisResp.Started {
		t.Fatal("expected analysis to start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		viewResp, err := client.ModalView(openResp.ID)
		if err != nil {
			t.Fatalf("ModalView failed: %v", err)
		}
		if viewResp.View.State == modal.StateDisplay {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("analysis never completed, state %q", viewResp.View.State)
		}
		time.Sleep(10 * time.Millisecond)
	}

	vocabResp, err := client.VocabList("vid-1", 0)
	if err != nil {
		t.Fatalf("VocabList failed: %v", err)
	}
	if len(vocabResp.Phrases) != 1 || vocabResp.Phrases[0].Text != "bonjour" {
		t.Fatalf("unexpected phrases: %#v", vocabResp.Phrases)
	}

	delResp, err := client.VocabDelete(vocabResp.Phrases[0].ID)
	if err != nil {
		t.Fatalf("VocabDelete failed: %v", err)
	}
	if !delResp.Deleted {
		t.Fatal("expected phrase to be deleted")
	}

	if err := client.CloseModal(openResp.ID); err != nil {
		t.Fatalf("CloseModal failed: %v", err)
	}

	if err := os.WriteFile(d.LogPath(), []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	logResp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("LogTail failed: %v", err)
	}
	if len(logResp.Lines) != 2 || logResp.Lines[0] != "second" || logResp.Lines[1] != "third" {
		t.Fatalf("unexpected log tail response: %#v", logResp.Lines)
	}

	closeResp, err := client.SessionClose(openResp.ID)
	if err != nil {
		t.Fatalf("SessionClose failed: %v", err)
	}
	if !closeResp.Closed {
		t.Fatal("expected session close to report success")
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatalf("expected Stop to report stopped, got %#v", stopResp)
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
