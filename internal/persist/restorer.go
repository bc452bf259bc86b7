package persist

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sublens/internal/render"
	"sublens/internal/selection"
	"sublens/internal/textutil"
	"sublens/internal/timers"
)

// Snapshot captures a selection together with the subtitle content it was
// made against.
type Snapshot struct {
	Words     []string
	Positions map[string]selection.Entry
	Order     []string
	Text      string
	Timestamp time.Time
	Signature string
}

// Config carries the persistence policy thresholds.
type Config struct {
	// MaxAge is the snapshot age beyond which restoration is rejected.
	MaxAge time.Duration
	// RefreshAge bounds the visibility-change timestamp bump.
	RefreshAge time.Duration
	// RetryDelay is the debounce window for signature-mismatch retries.
	RetryDelay time.Duration
	// VisualPassDelay defers the second highlight pass past the render.
	VisualPassDelay time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxAge <= 0 {
		c.MaxAge = 30 * time.Second
	}
	if c.RefreshAge <= 0 {
		c.RefreshAge = 10 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 250 * time.Millisecond
	}
	if c.VisualPassDelay <= 0 {
		c.VisualPassDelay = 50 * time.Millisecond
	}
}

// Restorer owns the snapshot-and-restore protocol for one session's
// selection. All timers it spawns are owned handles cleared on Stop.
type Restorer struct {
	mu      sync.Mutex
	model   *selection.Model
	surface render.Surface
	logger  *slog.Logger
	cfg     Config

	snapshot    *Snapshot
	pending     bool
	restoring   bool
	retry       *timers.Debouncer
	visualTimer *time.Timer
	stopped     bool

	// ownerLock, when set, serializes timer-fired callbacks with the owning
	// session's entry points. Direct calls already run under that lock.
	ownerLock sync.Locker

	now func() time.Time
}

// NewRestorer wires a restorer over a selection model and rendering surface.
func NewRestorer(model *selection.Model, surface render.Surface, logger *slog.Logger, cfg Config) *Restorer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.applyDefaults()
	r := &Restorer{
		model:   model,
		surface: surface,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
	r.retry = timers.NewDebouncer(cfg.RetryDelay, func() {
		r.withOwnerLock(func() { r.TryRestore() })
	})
	return r
}

// SetOwnerLock hands the restorer the lock its owning session serializes
// entry points with, so deferred timer callbacks cannot race them. Must be
// called before any timer can fire.
func (r *Restorer) SetOwnerLock(l sync.Locker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ownerLock = l
}

func (r *Restorer) withOwnerLock(fn func()) {
	r.mu.Lock()
	l := r.ownerLock
	r.mu.Unlock()
	if l != nil {
		l.Lock()
		defer l.Unlock()
	}
	fn()
}

// Capture snapshots the current selection against the rendered content.
// Empty selections and renders without content are not captured.
func (r *Restorer) Capture() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model.Len() == 0 {
		return false
	}
	content := renderedContent(r.surface)
	if content == "" {
		return false
	}
	r.snapshot = &Snapshot{
		Words:     r.model.SelectedWords(),
		Positions: r.model.Positions(),
		Order:     r.model.PositionKeyOrder(),
		Text:      r.model.SelectedText(),
		Timestamp: r.now(),
		Signature: textutil.Signature(content),
	}
	r.pending = true
	return true
}

// TryRestore evaluates the restore decision against the currently rendered
// content. It returns true only when the selection was actually re-applied.
func (r *Restorer) TryRestore() bool {
	r.mu.Lock()

	if r.snapshot == nil || !r.pending || r.restoring || r.stopped {
		r.mu.Unlock()
		return false
	}

	age := r.now().Sub(r.snapshot.Timestamp)
	if age > r.cfg.MaxAge {
		// Stale; no retry is worth scheduling.
		r.snapshot = nil
		r.pending = false
		r.mu.Unlock()
		return false
	}

	if r.snapshot.Signature != "" {
		current := textutil.Signature(renderedContent(r.surface))
		if current != r.snapshot.Signature {
			r.mu.Unlock()
			r.retry.Trigger()
			return false
		}
	}

	snapshot := r.snapshot
	r.pending = false
	r.restoring = true
	r.mu.Unlock()

	r.model.Clear()
	for _, key := range snapshot.Order {
		entry, ok := snapshot.Positions[key]
		if !ok {
			continue
		}
		r.model.Add(entry.Word, entry.Position, key)
	}
	r.model.UpdateSelectedText()

	SyncHighlights(r.model, r.surface)

	r.mu.Lock()
	if !r.stopped {
		r.visualTimer = time.AfterFunc(r.cfg.VisualPassDelay, func() {
			r.withOwnerLock(r.deferredVisualPass)
		})
	} else {
		r.restoring = false
	}
	r.mu.Unlock()

	r.logger.Debug("selection restored",
		slog.Int("entries", len(snapshot.Order)),
		slog.String("text", snapshot.Text))
	return true
}

// deferredVisualPass re-applies highlights once the surface has settled.
func (r *Restorer) deferredVisualPass() {
	r.mu.Lock()
	stopped := r.stopped
	r.restoring = false
	r.visualTimer = nil
	r.mu.Unlock()
	if stopped {
		return
	}
	SyncHighlights(r.model, r.surface)
}

// OnVisible handles the tab becoming visible again: a recent snapshot's
// timestamp is bumped forward so backgrounding alone cannot expire it, and
// highlights are opportunistically resynced.
func (r *Restorer) OnVisible() {
	r.mu.Lock()
	if r.snapshot != nil && r.model.Len() > 0 {
		if r.now().Sub(r.snapshot.Timestamp) <= r.cfg.RefreshAge {
			r.snapshot.Timestamp = r.now()
		}
	}
	r.mu.Unlock()

	SyncHighlights(r.model, r.surface)
}

// HasPending reports whether an unconsumed snapshot exists.
func (r *Restorer) HasPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot != nil && r.pending
}

// Clear discards the snapshot (modal reset/close).
func (r *Restorer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = nil
	r.pending = false
}

// Stop cancels owned timers and rejects further restores.
func (r *Restorer) Stop() {
	r.mu.Lock()
	r.stopped = true
	if r.visualTimer != nil {
		r.visualTimer.Stop()
		r.visualTimer = nil
	}
	r.mu.Unlock()
	r.retry.Stop()
}

// setClock overrides the time source in tests.
func (r *Restorer) setClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// renderedContent derives comparable content from the live word nodes' data
// attributes, falling back to the container text.
func renderedContent(surface render.Surface) string {
	if surface == nil {
		return ""
	}
	var words []string
	for _, node := range surface.WordNodes() {
		if word := node.Data(render.AttrWord); word != "" {
			words = append(words, word)
		}
	}
	if len(words) > 0 {
		return strings.Join(words, " ")
	}
	return surface.ContainerText()
}
