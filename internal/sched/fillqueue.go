package sched

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"sublens/internal/subtitle"
)

// Translator is the machine-translation boundary the fill queue batches
// requests through.
type Translator interface {
	Translate(ctx context.Context, texts []string, sourceLanguage, targetLanguage string) ([]string, error)
}

// FillQueue replaces pending-translation placeholders in dual cues with
// machine translations, one batch at a time. A processing flag prevents
// re-entrant batch starts; completion reschedules another pass on a fixed
// delay while relevant untranslated cues remain.
type FillQueue struct {
	mu         sync.Mutex
	queue      *subtitle.Queue
	translator Translator
	logger     *slog.Logger

	videoID        string
	sourceLanguage string
	targetLanguage string
	placeholder    string
	passDelay      time.Duration
	batchSize      int

	processing bool
	timer      *time.Timer
	stopped    bool
}

// NewFillQueue wires a fill queue over the cue queue.
func NewFillQueue(queue *subtitle.Queue, translator Translator, logger *slog.Logger, placeholder string, passDelay time.Duration, batchSize int) *FillQueue {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if passDelay <= 0 {
		passDelay = time.Second
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	return &FillQueue{
		queue:       queue,
		translator:  translator,
		logger:      logger,
		placeholder: placeholder,
		passDelay:   passDelay,
		batchSize:   batchSize,
	}
}

// Kick starts a translation pass for the given video and language pair
// unless one is already running.
func (f *FillQueue) Kick(videoID, sourceLanguage, targetLanguage string) {
	f.mu.Lock()
	f.videoID = videoID
	f.sourceLanguage = sourceLanguage
	f.targetLanguage = targetLanguage
	if f.processing || f.stopped || f.translator == nil {
		f.mu.Unlock()
		return
	}
	f.processing = true
	f.mu.Unlock()

	go f.pass()
}

func (f *FillQueue) pass() {
	f.mu.Lock()
	videoID := f.videoID
	source := f.sourceLanguage
	target := f.targetLanguage
	f.mu.Unlock()

	version := f.queue.Version(videoID)
	pending := f.queue.Pending(videoID, f.placeholder)
	if len(pending) > f.batchSize {
		pending = pending[:f.batchSize]
	}

	if len(pending) > 0 {
		texts := make([]string, 0, len(pending))
		for _, idx := range pending {
			cue, ok := f.queue.CueAt(videoID, idx)
			if !ok {
				continue
			}
			texts = append(texts, cue.Original)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		translated, err := f.translator.Translate(ctx, texts, source, target)
		cancel()
		if err != nil {
			f.logger.Warn("translation batch failed", slog.String("video_id", videoID), slog.Any("error", err))
		} else {
			stale := false
			for i, idx := range pending {
				if i >= len(translated) || translated[i] == "" {
					continue
				}
				if !f.queue.SetTranslated(videoID, version, idx, translated[i]) {
					stale = true
					break
				}
			}
			if stale {
				f.logger.Debug("translation batch dropped, cue list replaced mid-pass",
					slog.String("video_id", videoID))
			}
		}
	}

	f.mu.Lock()
	f.processing = false
	remaining := len(f.queue.Pending(videoID, f.placeholder))
	if remaining > 0 && !f.stopped && videoID == f.videoID {
		f.timer = time.AfterFunc(f.passDelay, func() {
			f.Kick(videoID, source, target)
		})
	}
	f.mu.Unlock()
}

// Processing reports whether a batch is in flight.
func (f *FillQueue) Processing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processing
}

// Stop cancels rescheduling and rejects further kicks.
func (f *FillQueue) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
