// Package platform defines the adapter boundary for streaming-site
// integration: video element discovery, video identity, and optional
// progress-bar tracking.
//
// The core calls adapters synchronously and tolerates nil returns from every
// accessor; a site adapter that cannot find its player simply reports nothing
// and the scheduler idles. The scripted adapter drives tests and the playback
// simulator without a real player.
package platform
