package sched_test

import (
	"context"
	"testing"
	"time"

	"sublens/internal/sched"
	"sublens/internal/subtitle"
)

// swapTranslator replaces the video's cue list while the batch round-trip is
// in flight, the way a fresh subtitle payload would.
type swapTranslator struct {
	queue   *subtitle.Queue
	videoID string
	cues    []subtitle.Cue
}

func (s *swapTranslator) Translate(_ context.Context, texts []string, _, _ string) ([]string, error) {
	s.queue.Replace(s.videoID, s.cues)
	translated := make([]string, len(texts))
	for i := range translated {
		translated[i] = "STALE"
	}
	return translated, nil
}

func waitNotProcessing(t *testing.T, f *sched.FillQueue) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !f.Processing() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("fill queue still processing")
}

func TestFillQueueDropsBatchWhenCueListReplaced(t *testing.T) {
	q := subtitle.NewQueue()
	if _, err := q.Load(subtitle.Payload{
		VideoID: "vid",
		VTTText: "WEBVTT\n\n1.0 --> 2.0\nhola\n\n3.0 --> 4.0\nmundo\n",
	}, placeholder); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// The replacement list is already translated, so a stale write would be
	// the only thing that could change it.
	swap := &swapTranslator{
		queue:   q,
		videoID: "vid",
		cues: []subtitle.Cue{
			{VideoID: "vid", Type: subtitle.CueDual, Start: 1, End: 2, Original: "adios", Translated: "goodbye"},
		},
	}
	f := sched.NewFillQueue(q, swap, nil, placeholder, 10*time.Millisecond, 10)
	defer f.Stop()
	f.Kick("vid", "es", "en")
	waitNotProcessing(t, f)

	cue, ok := q.CueAt("vid", 0)
	if !ok {
		t.Fatal("expected replacement cue present")
	}
	if cue.Translated != "goodbye" {
		t.Fatalf("stale batch stamped the replaced cue: %+v", cue)
	}
}
