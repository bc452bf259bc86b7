package platform

import "sync"

// Scripted is an in-memory adapter for tests and the playback simulator.
// All fields can be changed between ticks.
type Scripted struct {
	mu sync.Mutex

	media       *Media
	progressBar *ProgressBar
	videoID     string
	pageActive  bool
	supportsBar bool
}

// NewScripted returns an adapter for the given video id with an attached
// media element at time zero.
func NewScripted(videoID string, duration float64) *Scripted {
	return &Scripted{
		media:      &Media{Duration: duration, Paused: true},
		videoID:    videoID,
		pageActive: true,
	}
}

// VideoElement returns a point-in-time copy of the scripted media element.
// Callers get a stable view even while Seek or SetPaused run concurrently.
func (s *Scripted) VideoElement() *Media {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media == nil {
		return nil
	}
	media := *s.media
	return &media
}

// CurrentVideoID returns the scripted video identity.
func (s *Scripted) CurrentVideoID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoID
}

// PlayerPageActive reports the scripted page state.
func (s *Scripted) PlayerPageActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageActive
}

// ProgressBarElement returns the scripted progress bar, nil unless attached.
func (s *Scripted) ProgressBarElement() *ProgressBar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressBar
}

// SupportsProgressBarTracking reports whether bar tracking is scripted on.
func (s *Scripted) SupportsProgressBarTracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supportsBar
}

// Seek moves the media clock.
func (s *Scripted) Seek(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media != nil {
		s.media.CurrentTime = t
	}
}

// SetPaused flips the scripted pause state.
func (s *Scripted) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media != nil {
		s.media.Paused = paused
	}
}

// AttachProgressBar enables bar tracking with the given ARIA values.
func (s *Scripted) AttachProgressBar(valueNow, valueMax float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressBar = &ProgressBar{ValueNow: valueNow, ValueMax: valueMax}
	s.supportsBar = true
}

// DetachProgressBar removes the progress bar.
func (s *Scripted) DetachProgressBar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressBar = nil
	s.supportsBar = false
}

// SetVideoID switches the scripted video identity.
func (s *Scripted) SetVideoID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoID = id
}

// SetPageActive flips the scripted page state.
func (s *Scripted) SetPageActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageActive = active
}

// DetachMedia removes the media element.
func (s *Scripted) DetachMedia() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media = nil
}
