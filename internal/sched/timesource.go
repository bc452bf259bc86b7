package sched

import "sublens/internal/platform"

// TimeSource names which clock produced a playback time.
type TimeSource string

const (
	SourceProgressBar TimeSource = "progress-bar"
	SourceMediaClock  TimeSource = "media-clock"
	SourceNone        TimeSource = "none"
)

// CurrentTime resolves the playback clock. The platform progress bar (ARIA
// value scaled by media duration) wins when the platform supports it and one
// is attached; otherwise the media element's native clock is used. The offset
// is added uniformly to either source before cue lookup.
func CurrentTime(adapter platform.Adapter, offset float64) (float64, TimeSource) {
	if adapter == nil {
		return 0, SourceNone
	}

	media := adapter.VideoElement()
	if adapter.SupportsProgressBarTracking() {
		if bar := adapter.ProgressBarElement(); bar != nil && bar.ValueMax > 0 {
			if media != nil && media.Duration > 0 {
				scaled := bar.ValueNow / bar.ValueMax * media.Duration
				return scaled + offset, SourceProgressBar
			}
		}
	}

	if media == nil {
		return 0, SourceNone
	}
	return media.CurrentTime + offset, SourceMediaClock
}
