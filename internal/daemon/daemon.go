package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"sublens/internal/analysis"
	"sublens/internal/config"
	"sublens/internal/logging"
	"sublens/internal/modal"
	"sublens/internal/persist"
	"sublens/internal/platform"
	"sublens/internal/render"
	"sublens/internal/sched"
	"sublens/internal/selection"
	"sublens/internal/session"
	"sublens/internal/subtitle"
	"sublens/internal/vocab"
)

// Daemon hosts subtitle sessions behind the IPC surface and enforces
// single-instance execution via a lock file in the state directory.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	vocab    *vocab.Store
	sessions *session.Manager

	mu      sync.Mutex
	handles map[string]*handle

	logPath  string
	lockPath string
	lock     *flock.Flock

	respond       func(analysis.Request) analysis.Response
	translator    sched.Translator
	dispatchDelay time.Duration

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// handle keeps the per-session pieces the Session itself does not expose:
// the scripted adapter the IPC clock updates drive and the loopback
// dispatcher.
type handle struct {
	adapter    *platform.Scripted
	dispatcher *analysis.Loopback
}

// Options adjusts the backend plumbing behind every session.
type Options struct {
	// Respond synthesizes analysis responses for dispatched requests.
	// Nil selects the loopback default that echoes the selection.
	Respond func(analysis.Request) analysis.Response
	// DispatchDelay delays each synthesized response.
	DispatchDelay time.Duration
	// Translator fills placeholder dual cues. Nil leaves the fill queue
	// idle and placeholders on screen.
	Translator sched.Translator
}

// Status represents daemon runtime information.
type Status struct {
	Running    bool
	PID        int
	LockPath   string
	SocketPath string
	LogPath    string
	VocabPath  string
	VocabCount int
	Sessions   []string
}

// New constructs a daemon with initialized dependencies. The vocabulary
// store is opened here when enabled so saved phrases survive restarts.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:           cfg,
		logger:        logger,
		handles:       make(map[string]*handle),
		logPath:       filepath.Join(cfg.Paths.LogDir, "sublens.log"),
		lockPath:      filepath.Join(cfg.Paths.StateDir, "sublens.lock"),
		respond:       opts.Respond,
		translator:    opts.Translator,
		dispatchDelay: opts.DispatchDelay,
	}
	d.lock = flock.New(d.lockPath)

	if cfg.Vocab.Enabled {
		store, err := vocab.Open(cfg.Vocab.Path)
		if err != nil {
			return nil, fmt.Errorf("open vocab store: %w", err)
		}
		d.vocab = store
	}

	d.sessions = session.NewManager(d.newSession, logger)
	return d, nil
}

// Start acquires the daemon lock and begins accepting session work.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another sublens daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.running.Store(true)
	d.logger.Info("sublens daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop tears down all sessions and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.sessions.CloseAll()
	d.mu.Lock()
	d.handles = make(map[string]*handle)
	d.mu.Unlock()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("sublens daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.vocab != nil {
		return d.vocab.Close()
	}
	return nil
}

// newSession is the session factory: every session gets its own scripted
// adapter, rendering surface, and loopback analysis dispatcher.
func (d *Daemon) newSession(id string) (*session.Session, error) {
	adapter := platform.NewScripted("", 0)
	surface := render.NewMemorySurface()
	dispatcher := analysis.NewLoopback(d.dispatchDelay, d.respond)

	sess := session.New(id, adapter, surface, dispatcher, d.translator, d.logger, session.Options{
		Placeholder:   d.cfg.Player.Placeholder,
		TimeOffset:    d.cfg.Player.TimeOffset,
		NotifyDelay:   d.cfg.NotifyDelay(),
		FillPassDelay: d.cfg.TranslationPassDelay(),
		FillBatchSize: d.cfg.Translation.BatchSize,
		MaxAttempts:   d.cfg.Analysis.MaxAttempts,
		ContextTypes:  d.cfg.Analysis.ContextTypes,
		Restore: persist.Config{
			MaxAge:          d.cfg.SnapshotMaxAge(),
			RefreshAge:      d.cfg.SnapshotRefreshAge(),
			RetryDelay:      d.cfg.RestoreRetryDelay(),
			VisualPassDelay: d.cfg.VisualPassDelay(),
		},
	})

	dispatcher.OnResponse(func(resp analysis.Response) {
		sess.HandleAnalysisResponse(context.Background(), resp)
	})

	if d.vocab != nil {
		sess.Controller().OnResult(func(req analysis.Request, resp analysis.Response) {
			d.savePhrase(adapter.CurrentVideoID(), req, resp)
		})
	}

	d.mu.Lock()
	d.handles[id] = &handle{adapter: adapter, dispatcher: dispatcher}
	d.mu.Unlock()
	return sess, nil
}

func (d *Daemon) savePhrase(videoID string, req analysis.Request, resp analysis.Response) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := d.vocab.Save(ctx, vocab.Phrase{
		VideoID:        videoID,
		Text:           req.Text,
		Words:          req.Selection.Words,
		SourceLanguage: req.Language,
		TargetLanguage: req.TargetLanguage,
		Result:         resp.Result,
	})
	if err != nil {
		d.logger.Warn("failed to save analyzed phrase",
			logging.Error(err),
			logging.String(logging.FieldVideoID, videoID))
		return
	}
	d.logger.Debug("phrase saved",
		logging.String(logging.FieldVideoID, videoID),
		logging.String("text", req.Text))
}

// OpenSession creates or returns a session. An empty id allocates a fresh
// one; the effective id is returned either way.
func (d *Daemon) OpenSession(id string) (string, error) {
	if !d.running.Load() {
		return "", errors.New("daemon not running")
	}
	sess, err := d.sessions.Open(id)
	if err != nil {
		return "", err
	}
	return sess.ID(), nil
}

// CloseSession tears down a session. It reports whether one existed.
func (d *Daemon) CloseSession(id string) bool {
	d.mu.Lock()
	delete(d.handles, id)
	d.mu.Unlock()
	return d.sessions.Close(id)
}

// SessionIDs lists open sessions in sorted order.
func (d *Daemon) SessionIDs() []string {
	return d.sessions.IDs()
}

func (d *Daemon) lookup(id string) (*session.Session, *handle, error) {
	sess, ok := d.sessions.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("session %q not found", id)
	}
	d.mu.Lock()
	h := d.handles[id]
	d.mu.Unlock()
	if h == nil {
		return nil, nil, fmt.Errorf("session %q has no adapter", id)
	}
	return sess, h, nil
}

// LoadSubtitles ingests a subtitle payload into a session and points the
// session's adapter at the payload's video. It returns the cue count.
func (d *Daemon) LoadSubtitles(id string, p subtitle.Payload) (int, error) {
	sess, h, err := d.lookup(id)
	if err != nil {
		return 0, err
	}
	h.adapter.SetVideoID(p.VideoID)
	n, err := sess.HandleSubtitlePayload(p)
	if err != nil {
		return 0, err
	}
	d.logger.Info("subtitles loaded",
		logging.String(logging.FieldSessionID, id),
		logging.String(logging.FieldVideoID, p.VideoID),
		logging.Int("cue_count", n))
	return n, nil
}

// UpdateTime advances a session's playback clock and returns the display
// resolved for the new position.
func (d *Daemon) UpdateTime(id string, t float64, paused bool) (subtitle.Display, error) {
	sess, h, err := d.lookup(id)
	if err != nil {
		return subtitle.Display{}, err
	}
	h.adapter.SetPaused(paused)
	h.adapter.Seek(t)
	sess.HandleTimeUpdate()
	return sess.Scheduler().CurrentDisplay(), nil
}

// WordClick toggles the word node with the given id and returns the
// resulting modal view.
func (d *Daemon) WordClick(id, nodeID string) (selection.ToggleResult, modal.ViewState, error) {
	sess, _, err := d.lookup(id)
	if err != nil {
		return selection.ToggleNoop, modal.ViewState{}, err
	}
	result := sess.HandleWordClick(nodeID)
	return result, sess.Controller().View().Get(), nil
}

// StartAnalysis freezes the session's selection and dispatches a request.
func (d *Daemon) StartAnalysis(ctx context.Context, id string) (bool, error) {
	sess, _, err := d.lookup(id)
	if err != nil {
		return false, err
	}
	return sess.StartAnalysis(ctx), nil
}

// CloseModal dismisses a session's modal and clears its selection.
func (d *Daemon) CloseModal(id string) error {
	sess, _, err := d.lookup(id)
	if err != nil {
		return err
	}
	sess.CloseModal()
	return nil
}

// ModalView returns a session's current modal presentation state.
func (d *Daemon) ModalView(id string) (modal.ViewState, error) {
	sess, _, err := d.lookup(id)
	if err != nil {
		return modal.ViewState{}, err
	}
	return sess.Controller().View().Get(), nil
}

// VisibilityChange reports a page visibility transition to a session.
func (d *Daemon) VisibilityChange(id string, visible bool) error {
	sess, _, err := d.lookup(id)
	if err != nil {
		return err
	}
	sess.HandleVisibilityChange(visible)
	return nil
}

// WordNodes lists a session's current word node ids and texts, in render
// order. IPC clients use this to address click targets. The snapshot is
// taken under the session lock so it cannot observe a half-rendered tree.
func (d *Daemon) WordNodes(id string) ([]WordNode, error) {
	sess, _, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	out := make([]WordNode, 0, 8)
	for _, snap := range sess.WordSnapshots() {
		out = append(out, WordNode{
			ID:          snap.ID,
			Word:        snap.Word,
			Type:        snap.Type,
			Highlighted: snap.Highlighted,
		})
	}
	return out, nil
}

// WordNode describes one clickable word of the current display.
type WordNode struct {
	ID          string `json:"id"`
	Word        string `json:"word"`
	Type        string `json:"type"`
	Highlighted bool   `json:"highlighted"`
}

// VocabList returns saved phrases, optionally scoped to one video.
func (d *Daemon) VocabList(ctx context.Context, videoID string, limit int) ([]vocab.Phrase, error) {
	if d.vocab == nil {
		return nil, errors.New("vocab store disabled")
	}
	return d.vocab.List(ctx, videoID, limit)
}

// VocabDelete removes one saved phrase by id.
func (d *Daemon) VocabDelete(ctx context.Context, id int64) error {
	if d.vocab == nil {
		return errors.New("vocab store disabled")
	}
	return d.vocab.Delete(ctx, id)
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	st := Status{
		Running:    d.running.Load(),
		PID:        os.Getpid(),
		LockPath:   d.lockPath,
		SocketPath: d.cfg.Paths.SocketPath,
		LogPath:    d.logPath,
		Sessions:   d.sessions.IDs(),
	}
	sort.Strings(st.Sessions)
	if d.vocab != nil {
		st.VocabPath = d.vocab.Path()
		if count, err := d.vocab.Count(ctx); err == nil {
			st.VocabCount = count
		}
	}
	return st
}
