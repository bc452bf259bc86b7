package ipc

import (
	"time"

	"sublens/internal/modal"
)

// StartRequest triggers daemon startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running    bool     `json:"running"`
	PID        int      `json:"pid"`
	LockPath   string   `json:"lock_path"`
	SocketPath string   `json:"socket_path"`
	LogPath    string   `json:"log_path"`
	VocabPath  string   `json:"vocab_path"`
	VocabCount int      `json:"vocab_count"`
	Sessions   []string `json:"sessions"`
}

// SessionOpenRequest creates or returns a session. An empty ID allocates
// a fresh one.
type SessionOpenRequest struct {
	ID string `json:"id"`
}

// SessionOpenResponse carries the effective session id.
type SessionOpenResponse struct {
	ID string `json:"id"`
}

// SessionCloseRequest tears down a session.
type SessionCloseRequest struct {
	ID string `json:"id"`
}

// SessionCloseResponse reports whether the session existed.
type SessionCloseResponse struct {
	Closed bool `json:"closed"`
}

// SessionListRequest lists open sessions.
type SessionListRequest struct{}

// SessionListResponse contains open session ids in sorted order.
type SessionListResponse struct {
	IDs []string `json:"ids"`
}

// LoadSubtitlesRequest delivers subtitle documents to a session.
type LoadSubtitlesRequest struct {
	SessionID       string `json:"session_id"`
	VideoID         string `json:"video_id"`
	VTTText         string `json:"vtt_text"`
	TargetVTTText   string `json:"target_vtt_text"`
	UseNativeTarget bool   `json:"use_native_target"`
	SourceLanguage  string `json:"source_language"`
	TargetLanguage  string `json:"target_language"`
}

// LoadSubtitlesResponse reports the loaded cue count.
type LoadSubtitlesResponse struct {
	Cues int `json:"cues"`
}

// TimeUpdateRequest advances a session's playback clock.
type TimeUpdateRequest struct {
	SessionID string  `json:"session_id"`
	Time      float64 `json:"time"`
	Paused    bool    `json:"paused"`
}

// TimeUpdateResponse carries the display resolved for the new position.
type TimeUpdateResponse struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// WordNodesRequest lists the clickable words of the current display.
type WordNodesRequest struct {
	SessionID string `json:"session_id"`
}

// WordNode describes one clickable word node.
type WordNode struct {
	ID          string `json:"id"`
	Word        string `json:"word"`
	Type        string `json:"type"`
	Highlighted bool   `json:"highlighted"`
}

// WordNodesResponse contains word nodes in render order.
type WordNodesResponse struct {
	Nodes []WordNode `json:"nodes"`
}

// WordClickRequest toggles the selection state of a word node.
type WordClickRequest struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id"`
}

// WordClickResponse reports the toggle outcome and the resulting modal view.
type WordClickResponse struct {
	Result string          `json:"result"`
	View   modal.ViewState `json:"view"`
}

// StartAnalysisRequest freezes the selection and dispatches analysis.
type StartAnalysisRequest struct {
	SessionID string `json:"session_id"`
}

// StartAnalysisResponse reports whether a request was dispatched.
type StartAnalysisResponse struct {
	Started bool `json:"started"`
}

// ModalViewRequest fetches a session's modal presentation state.
type ModalViewRequest struct {
	SessionID string `json:"session_id"`
}

// ModalViewResponse contains the modal view.
type ModalViewResponse struct {
	View modal.ViewState `json:"view"`
}

// CloseModalRequest dismisses a session's modal.
type CloseModalRequest struct {
	SessionID string `json:"session_id"`
}

// CloseModalResponse is empty; errors carry the failure.
type CloseModalResponse struct{}

// VisibilityRequest reports a page visibility transition.
type VisibilityRequest struct {
	SessionID string `json:"session_id"`
	Visible   bool   `json:"visible"`
}

// VisibilityResponse is empty; errors carry the failure.
type VisibilityResponse struct{}

// VocabPhrase mirrors a saved phrase for IPC callers.
type VocabPhrase struct {
	ID             int64          `json:"id"`
	VideoID        string         `json:"video_id"`
	Text           string         `json:"text"`
	Words          []string       `json:"words"`
	SourceLanguage string         `json:"source_language"`
	TargetLanguage string         `json:"target_language"`
	Result         map[string]any `json:"result,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// VocabListRequest lists saved phrases, optionally scoped to one video.
type VocabListRequest struct {
	VideoID string `json:"video_id"`
	Limit   int    `json:"limit"`
}

// VocabListResponse contains saved phrases, newest first.
type VocabListResponse struct {
	Phrases []VocabPhrase `json:"phrases"`
}

// VocabDeleteRequest removes one saved phrase.
type VocabDeleteRequest struct {
	ID int64 `json:"id"`
}

// VocabDeleteResponse reports whether the phrase existed.
type VocabDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
