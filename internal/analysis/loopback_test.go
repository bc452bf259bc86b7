package analysis_test

import (
	"context"
	"testing"
	"time"

	"sublens/internal/analysis"
)

func waitForResponses(t *testing.T, ch <-chan analysis.Response, want int) []analysis.Response {
	t.Helper()
	var got []analysis.Response
	deadline := time.After(2 * time.Second)
	for len(got) < want {
		select {
		case resp := <-ch:
			got = append(got, resp)
		case <-deadline:
			t.Fatalf("expected %d responses, got %d", want, len(got))
		}
	}
	return got
}

func TestLoopbackEchoesSelection(t *testing.T) {
	responses := make(chan analysis.Response, 1)
	l := analysis.NewLoopback(time.Millisecond, nil)
	l.OnResponse(func(resp analysis.Response) { responses <- resp })

	req := analysis.Request{
		RequestID: "req-1",
		Text:      "bonjour monde",
		Selection: analysis.Selection{Words: []string{"bonjour", "monde"}},
	}
	if err := l.Dispatch(testContext(t), req); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	resp := waitForResponses(t, responses, 1)[0]
	if !resp.Success || resp.RequestID != "req-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Result["text"] != "bonjour monde" {
		t.Fatalf("unexpected echo result %+v", resp.Result)
	}
}

func TestLoopbackCancelReleasesRequest(t *testing.T) {
	responses := make(chan analysis.Response, 4)
	l := analysis.NewLoopback(20*time.Millisecond, nil)
	l.OnResponse(func(resp analysis.Response) { responses <- resp })

	if err := l.Dispatch(testContext(t), analysis.Request{RequestID: "req-1", Text: "first"}); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	l.Cancel("req-1")
	if n := l.PendingCount(); n != 0 {
		t.Fatalf("expected cancel to release the pending entry, got %d", n)
	}

	// The same id must be dispatchable again after cancellation.
	if err := l.Dispatch(testContext(t), analysis.Request{RequestID: "req-1", Text: "second"}); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	resp := waitForResponses(t, responses, 1)[0]
	if resp.Result["text"] != "second" {
		t.Fatalf("expected re-dispatched response, got %+v", resp.Result)
	}
	if n := l.PendingCount(); n != 0 {
		t.Fatalf("expected no pending entries after delivery, got %d", n)
	}
}

func TestLoopbackCancelAfterDeliveryIsNoop(t *testing.T) {
	responses := make(chan analysis.Response, 1)
	l := analysis.NewLoopback(time.Millisecond, nil)
	l.OnResponse(func(resp analysis.Response) { responses <- resp })

	if err := l.Dispatch(testContext(t), analysis.Request{RequestID: "req-1"}); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	waitForResponses(t, responses, 1)

	l.Cancel("req-1")
	if n := l.PendingCount(); n != 0 {
		t.Fatalf("expected no pending entries, got %d", n)
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
