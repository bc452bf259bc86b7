package sched

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"sublens/internal/platform"
	"sublens/internal/render"
	"sublens/internal/subtitle"
	"sublens/internal/timers"
)

// State is the per-video scheduler lifecycle.
type State string

const (
	StateNoCues State = "no_cues"
	StateLoaded State = "loaded"
	StateActive State = "active"
	StateIdle   State = "idle"
)

// Options carries scheduler policy knobs.
type Options struct {
	// TimeOffset is added to every resolved playback time, in seconds.
	TimeOffset float64
	// Placeholder fills untranslated dual cues until the fill queue runs.
	Placeholder string
	// NotifyDelay is the debounce window for content-change notifications.
	NotifyDelay time.Duration
}

// Scheduler owns cue resolution and display updates for one session.
// Ticks are serialized by its mutex: no two resolution passes interleave.
type Scheduler struct {
	mu      sync.Mutex
	queue   *subtitle.Queue
	adapter platform.Adapter
	surface render.Surface
	logger  *slog.Logger
	opts    Options

	videoID     string
	state       State
	lastDisplay subtitle.Display
	lastSource  TimeSource

	onDisplay       func(subtitle.Display)
	notifyDebouncer *timers.Debouncer
}

// NewScheduler wires a scheduler over a cue queue and rendering surface.
// onDisplay fires after each real display update; onContentChanging is the
// debounced downstream signal.
func NewScheduler(queue *subtitle.Queue, adapter platform.Adapter, surface render.Surface, logger *slog.Logger, opts Options, onDisplay func(subtitle.Display), onContentChanging func()) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.NotifyDelay <= 0 {
		opts.NotifyDelay = 150 * time.Millisecond
	}
	if onContentChanging == nil {
		onContentChanging = func() {}
	}
	return &Scheduler{
		queue:           queue,
		adapter:         adapter,
		surface:         surface,
		logger:          logger,
		opts:            opts,
		state:           StateNoCues,
		notifyDebouncer: timers.NewDebouncer(opts.NotifyDelay, onContentChanging),
		onDisplay:       onDisplay,
	}
}

// LoadPayload parses a subtitle payload into the queue. Cues for other
// videos are purged; re-receiving cues for the same video replaces them.
func (s *Scheduler) LoadPayload(p subtitle.Payload) (int, error) {
	n, err := s.queue.Load(p, s.opts.Placeholder)
	if err != nil {
		return 0, err
	}
	s.queue.PurgeOthers(p.VideoID)

	s.mu.Lock()
	s.videoID = p.VideoID
	s.state = StateLoaded
	s.lastDisplay = subtitle.Display{}
	s.mu.Unlock()

	s.logger.Debug("subtitle payload loaded",
		slog.String("video_id", p.VideoID),
		slog.Int("cues", n),
		slog.Bool("native_target", p.UseNativeTarget))
	return n, nil
}

// Tick resolves the active cue pair for the current playback time and
// updates the display when the resolved text differs from what is shown.
// Redundant resolutions never touch the surface or re-dispatch the
// content-changing signal.
func (s *Scheduler) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateNoCues || s.videoID == "" {
		return false
	}
	if s.adapter != nil && s.videoID != s.adapter.CurrentVideoID() {
		return false
	}

	now, source := CurrentTime(s.adapter, s.opts.TimeOffset)
	if source == SourceNone {
		return false
	}
	s.lastSource = source

	display := s.queue.Resolve(s.videoID, now)
	if display == s.lastDisplay {
		if !display.Empty() {
			s.state = StateActive
		}
		return false
	}

	s.lastDisplay = display
	if display.Empty() {
		s.state = StateIdle
	} else {
		s.state = StateActive
	}

	s.surface.SetContent(display.Original, display.Translated)
	if s.onDisplay != nil {
		s.onDisplay(display)
	}
	s.notifyDebouncer.Trigger()
	return true
}

// State returns the scheduler lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// VideoID returns the video the scheduler currently serves.
func (s *Scheduler) VideoID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoID
}

// CurrentDisplay returns the last rendered display pair.
func (s *Scheduler) CurrentDisplay() subtitle.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDisplay
}

// LastTimeSource reports which clock served the most recent tick.
func (s *Scheduler) LastTimeSource() TimeSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSource
}

// Stop cancels the owned notification timer.
func (s *Scheduler) Stop() {
	s.notifyDebouncer.Stop()
}
