package subtitle

import (
	"fmt"
	"sort"
	"sync"
)

// LanguageChoice names the language pair the payload was produced for.
type LanguageChoice struct {
	NormalizedCode string
	DisplayName    string
}

// Payload is a raw subtitle delivery from the platform/injection layer.
type Payload struct {
	VideoID            string
	VTTText            string
	TargetVTTText      string
	UseNativeTarget    bool
	SourceLanguage     string
	TargetLanguage     string
	SelectedLanguage   *LanguageChoice
	AvailableLanguages []string
}

// Display is the resolved text pair for one playback instant.
type Display struct {
	Original   string
	Translated string
}

// Empty reports whether nothing is to be shown.
func (d Display) Empty() bool {
	return d.Original == "" && d.Translated == ""
}

// Queue holds parsed cues per video identity. Re-receiving cues for a video
// replaces its cue list; switching videos purges the previous one. Every
// replacement bumps the video's list version so deferred writers can detect
// that their cue indices went stale. The zero value is not usable; construct
// with NewQueue.
type Queue struct {
	mu       sync.Mutex
	cues     map[string][]Cue
	versions map[string]int
}

// NewQueue returns an empty cue queue.
func NewQueue() *Queue {
	return &Queue{cues: map[string][]Cue{}, versions: map[string]int{}}
}

// Load parses a payload and replaces the video's cue list. It returns the
// number of cues stored. The placeholder fills untranslated dual records.
func (q *Queue) Load(p Payload, placeholder string) (int, error) {
	if p.VideoID == "" {
		return 0, fmt.Errorf("payload missing video id")
	}
	original, err := ParseVTT(p.VTTText)
	if err != nil {
		return 0, fmt.Errorf("parse original track: %w", err)
	}

	var target []ParsedCue
	if p.TargetVTTText != "" {
		target, err = ParseVTT(p.TargetVTTText)
		if err != nil {
			return 0, fmt.Errorf("parse target track: %w", err)
		}
	}

	var cues []Cue
	if p.UseNativeTarget && len(target) > 0 {
		cues = SplitNative(p.VideoID, original, target)
	} else {
		cues = MergeDual(p.VideoID, original, target, placeholder)
	}
	q.Replace(p.VideoID, cues)
	return len(cues), nil
}

// Replace swaps the cue list for a video, sorted by start ascending so
// earliest-start cues are always considered first.
func (q *Queue) Replace(videoID string, cues []Cue) {
	sorted := make([]Cue, len(cues))
	copy(sorted, cues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	q.mu.Lock()
	defer q.mu.Unlock()
	q.cues[videoID] = sorted
	q.versions[videoID]++
}

// Purge drops all cues for a video. The version counter survives so writes
// captured against the purged list stay invalid after a reload.
func (q *Queue) Purge(videoID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.cues, videoID)
	q.versions[videoID]++
}

// PurgeOthers drops cues for every video except the given one.
func (q *Queue) PurgeOthers(videoID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id := range q.cues {
		if id != videoID {
			delete(q.cues, id)
			q.versions[id]++
		}
	}
}

// Version returns the cue list version for a video. It changes on every
// Replace and Purge.
func (q *Queue) Version(videoID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.versions[videoID]
}

// Len returns the cue count for a video.
func (q *Queue) Len(videoID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cues[videoID])
}

// ActiveAt returns the cues covering instant t for a video, in queue order.
func (q *Queue) ActiveAt(videoID string, t float64) []Cue {
	q.mu.Lock()
	defer q.mu.Unlock()
	var active []Cue
	for _, cue := range q.cues[videoID] {
		if cue.ActiveAt(t) {
			active = append(active, cue)
		}
	}
	return active
}

// Resolve produces the display pair for instant t. In native target mode the
// first active original record is paired with a target record by exact
// timing, then best overlap, falling back to the original alone. In every
// other mode only the first active cue is used.
func (q *Queue) Resolve(videoID string, t float64) Display {
	active := q.ActiveAt(videoID, t)
	if len(active) == 0 {
		return Display{}
	}

	if active[0].NativeTarget {
		var original *Cue
		for i := range active {
			if active[i].Type == CueOriginal {
				original = &active[i]
				break
			}
		}
		if original == nil {
			// Target-only instant; show the target line alone.
			return Display{Translated: active[0].Translated}
		}
		display := Display{Original: original.Original}
		if target, ok := PairTarget(*original, active); ok {
			display.Translated = target.Translated
		}
		return display
	}

	first := active[0]
	return Display{Original: first.Original, Translated: first.Translated}
}

// Pending returns the indices of dual cues for a video whose translation
// still holds the placeholder.
func (q *Queue) Pending(videoID, placeholder string) []int {
	q.mu.Lock()
	defer q.mu.Unlock()
	var pending []int
	for i, cue := range q.cues[videoID] {
		if cue.Type == CueDual && cue.Translated == placeholder {
			pending = append(pending, i)
		}
	}
	return pending
}

// CueAt returns the cue at index for a video.
func (q *Queue) CueAt(videoID string, index int) (Cue, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	cues := q.cues[videoID]
	if index < 0 || index >= len(cues) {
		return Cue{}, false
	}
	return cues[index], true
}

// SetTranslated fills the translation of a dual cue in place. Cues are
// otherwise immutable once pushed. version must be the value Version returned
// when index was captured; a replaced or purged cue list rejects the write so
// stale indices cannot stamp translations onto the wrong cues.
func (q *Queue) SetTranslated(videoID string, version, index int, text string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if version != q.versions[videoID] {
		return false
	}
	cues := q.cues[videoID]
	if index < 0 || index >= len(cues) || cues[index].Type != CueDual {
		return false
	}
	cues[index].Translated = text
	return true
}

// Cues returns a copy of a video's cue list in queue order.
func (q *Queue) Cues(videoID string) []Cue {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Cue, len(q.cues[videoID]))
	copy(out, q.cues[videoID])
	return out
}
