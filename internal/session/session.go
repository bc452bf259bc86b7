package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"sublens/internal/analysis"
	"sublens/internal/language"
	"sublens/internal/modal"
	"sublens/internal/persist"
	"sublens/internal/platform"
	"sublens/internal/render"
	"sublens/internal/sched"
	"sublens/internal/selection"
	"sublens/internal/subtitle"
)

// Options carries the policy knobs for one session. Zero values fall back
// to the component defaults.
type Options struct {
	Placeholder   string
	TimeOffset    float64
	NotifyDelay   time.Duration
	FillPassDelay time.Duration
	FillBatchSize int
	MaxAttempts   int
	ContextTypes  []string
	Restore       persist.Config
}

// Session owns the synchronization pipeline for one video: the cue queue
// and scheduler, the selection model with its persistence, and the modal
// controller. Platform events enter through the Handle methods; everything
// downstream is driven from them.
type Session struct {
	id      string
	adapter platform.Adapter
	surface render.Surface
	logger  *slog.Logger

	model      *selection.Model
	queue      *subtitle.Queue
	scheduler  *sched.Scheduler
	fill       *sched.FillQueue
	restorer   *persist.Restorer
	controller *modal.Controller

	// ops serializes every entry point with the restorer's deferred timer
	// callbacks. The selection model and rendering surface are only touched
	// while it is held.
	ops            sync.Mutex
	closed         bool
	sourceLanguage string
	targetLanguage string
	useNativeTgt   bool
}

// New assembles a session over a platform adapter and rendering surface.
// translator may be nil when machine translation is unavailable; dual cues
// then keep their placeholder text.
func New(id string, adapter platform.Adapter, surface render.Surface, dispatcher analysis.Dispatcher, translator sched.Translator, logger *slog.Logger, opts Options) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With(slog.String("session_id", id))

	model := selection.NewModel()
	queue := subtitle.NewQueue()
	restorer := persist.NewRestorer(model, surface, logger, opts.Restore)
	controller := modal.NewController(model, restorer, surface, dispatcher, logger, modal.Options{
		MaxAttempts:  opts.MaxAttempts,
		ContextTypes: opts.ContextTypes,
	})

	s := &Session{
		id:         id,
		adapter:    adapter,
		surface:    surface,
		logger:     logger,
		model:      model,
		queue:      queue,
		restorer:   restorer,
		controller: controller,
	}

	s.scheduler = sched.NewScheduler(queue, adapter, surface, logger, sched.Options{
		TimeOffset:  opts.TimeOffset,
		Placeholder: opts.Placeholder,
		NotifyDelay: opts.NotifyDelay,
	}, s.onDisplay, s.onContentChanging)
	s.fill = sched.NewFillQueue(queue, translator, logger, opts.Placeholder, opts.FillPassDelay, opts.FillBatchSize)
	restorer.SetOwnerLock(&s.ops)
	return s
}

// ID returns the session identity.
func (s *Session) ID() string {
	return s.id
}

// Controller exposes the modal state machine for presentation layers.
func (s *Session) Controller() *modal.Controller {
	return s.controller
}

// Scheduler exposes the cue scheduler, mainly for state inspection.
func (s *Session) Scheduler() *sched.Scheduler {
	return s.scheduler
}

// onDisplay runs after every real display change, always under ops via the
// entry point that ticked the scheduler. A pending snapshot gets first claim
// on the fresh render; otherwise surviving selections are re-bound to the
// new nodes.
func (s *Session) onDisplay(subtitle.Display) {
	if s.restorer.TryRestore() {
		return
	}
	if s.restorer.HasPending() {
		// Snapshot exists but this render does not match it yet; the
		// restorer has scheduled its own retry.
		return
	}
	if s.model.Len() > 0 {
		persist.SyncHighlights(s.model, s.surface)
	}
}

func (s *Session) onContentChanging() {
	s.logger.Debug("subtitle content changed", slog.String("video_id", s.scheduler.VideoID()))
}

// HandleSubtitlePayload ingests a subtitle delivery, records its language
// pair, and kicks the translation fill queue when the payload carries
// placeholder dual cues.
func (s *Session) HandleSubtitlePayload(p subtitle.Payload) (int, error) {
	s.ops.Lock()
	defer s.ops.Unlock()

	n, err := s.scheduler.LoadPayload(p)
	if err != nil {
		return 0, err
	}

	source := p.SourceLanguage
	if p.SelectedLanguage != nil && p.SelectedLanguage.NormalizedCode != "" {
		source = p.SelectedLanguage.NormalizedCode
	}
	if normalized := language.Normalize(source); normalized != "" {
		source = normalized
	}
	s.sourceLanguage = source
	s.targetLanguage = p.TargetLanguage
	s.useNativeTgt = p.UseNativeTarget
	s.controller.SetLanguages(source, p.TargetLanguage)

	if !p.UseNativeTarget {
		s.fill.Kick(p.VideoID, source, p.TargetLanguage)
	}
	s.scheduler.Tick()
	return n, nil
}

// HandleTimeUpdate resolves the display for the current playback position.
func (s *Session) HandleTimeUpdate() bool {
	s.ops.Lock()
	defer s.ops.Unlock()
	return s.scheduler.Tick()
}

// HandleWordClick toggles the selection state of the word node with the
// given id. Clicks are accepted only while playback is paused; anything
// else is a no-op.
func (s *Session) HandleWordClick(nodeID string) selection.ToggleResult {
	s.ops.Lock()
	defer s.ops.Unlock()

	media := s.adapter.VideoElement()
	if media == nil || !media.Paused {
		return selection.ToggleNoop
	}
	node := s.surface.NodeByID(nodeID)
	if node == nil {
		return selection.ToggleNoop
	}
	return s.controller.ToggleWord(node)
}

// HandleVisibilityChange refreshes a borderline snapshot and re-resolves
// the display when the page becomes visible again.
func (s *Session) HandleVisibilityChange(visible bool) {
	if !visible {
		return
	}
	s.ops.Lock()
	defer s.ops.Unlock()
	s.restorer.OnVisible()
	s.scheduler.Tick()
}

// StartAnalysis freezes the selection and dispatches an analysis request.
func (s *Session) StartAnalysis(ctx context.Context) bool {
	s.ops.Lock()
	defer s.ops.Unlock()
	return s.controller.StartAnalysis(ctx)
}

// HandleAnalysisResponse routes a backend response into the modal state
// machine.
func (s *Session) HandleAnalysisResponse(ctx context.Context, resp analysis.Response) {
	s.ops.Lock()
	defer s.ops.Unlock()
	s.controller.HandleResponse(ctx, resp)
}

// CloseModal dismisses the modal and clears the selection state.
func (s *Session) CloseModal() {
	s.ops.Lock()
	defer s.ops.Unlock()
	s.controller.CloseModal()
}

// WordSnapshot is a point-in-time copy of one rendered word node, taken
// while the session lock is held.
type WordSnapshot struct {
	ID          string
	Word        string
	Type        string
	Highlighted bool
}

// WordSnapshots returns a stable copy of the rendered word nodes so callers
// can inspect them without touching the live surface.
func (s *Session) WordSnapshots() []WordSnapshot {
	s.ops.Lock()
	defer s.ops.Unlock()

	nodes := s.surface.WordNodes()
	snapshots := make([]WordSnapshot, 0, len(nodes))
	for _, node := range nodes {
		snapshots = append(snapshots, WordSnapshot{
			ID:          node.ID,
			Word:        node.Data(render.AttrWord),
			Type:        node.Data(render.AttrSubtitleType),
			Highlighted: node.HasClass(render.HighlightClass),
		})
	}
	return snapshots
}

// Close tears the session down: outstanding analysis is cancelled, the
// modal hidden, and every owned timer stopped. Close is idempotent.
func (s *Session) Close() {
	s.ops.Lock()
	defer s.ops.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	s.controller.CloseModal()
	s.scheduler.Stop()
	s.fill.Stop()
	s.restorer.Stop()
	s.queue.Purge(s.scheduler.VideoID())
	s.logger.Debug("session closed")
}
