// Package session assembles the per-video synchronization pipeline: cue
// queue, scheduler, selection model, persistence, and modal controller, and
// routes platform events into it. A Manager keys live sessions by video id.
package session
