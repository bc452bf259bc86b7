package session_test

import (
	"sync"
	"testing"
	"time"

	"sublens/internal/persist"
	"sublens/internal/platform"
	"sublens/internal/render"
	"sublens/internal/session"
)

// Entry points arrive from different goroutines in production: the IPC
// server dispatches each request on its own goroutine and the restorer owns
// deferred timers. Hammer the session from several of them at once so the
// race detector can catch any unserialized model or surface access.
func TestConcurrentEntryPointsAreSerialized(t *testing.T) {
	adapter := platform.NewScripted("vid-1", 600)
	surface := render.NewMemorySurface()
	dispatcher := &recordingDispatcher{}
	s := session.New("vid-1", adapter, surface, dispatcher, nil, nil, session.Options{
		Placeholder: "Translating…",
		Restore: persist.Config{
			RetryDelay:      time.Millisecond,
			VisualPassDelay: time.Millisecond,
		},
	})
	t.Cleanup(s.Close)

	h := &harness{adapter: adapter, surface: surface, dispatcher: dispatcher, session: s}
	h.loadSample(t)
	adapter.SetPaused(true)
	adapter.Seek(2)
	s.HandleTimeUpdate()

	const iterations = 300
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if i%2 == 0 {
				adapter.Seek(2)
			} else {
				adapter.Seek(5)
			}
			s.HandleTimeUpdate()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.HandleWordClick(render.WordNodeID(render.SubtitleTypeOriginal, 0))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.HandleVisibilityChange(true)
			s.WordSnapshots()
		}
	}()

	wg.Wait()
}
