package platform

// Media mirrors the playback-relevant surface of a media element.
type Media struct {
	CurrentTime float64
	Duration    float64
	Paused      bool
}

// ProgressBar mirrors the ARIA value surface of a platform progress bar.
// Some platforms update it more often and more precisely than the media
// element's reported time.
type ProgressBar struct {
	ValueNow float64
	ValueMax float64
}

// Adapter is the platform-specific discovery contract. Every method may
// return nil or zero values; the core must tolerate all of them.
type Adapter interface {
	// VideoElement returns the active media element, nil when none is found.
	VideoElement() *Media

	// CurrentVideoID identifies the video being played, empty when unknown.
	CurrentVideoID() string

	// PlayerPageActive reports whether the current page hosts a player.
	PlayerPageActive() bool

	// ProgressBarElement returns the platform progress bar, nil when the
	// platform exposes none.
	ProgressBarElement() *ProgressBar

	// SupportsProgressBarTracking reports whether progress-bar time tracking
	// should be preferred on this platform.
	SupportsProgressBarTracking() bool
}
