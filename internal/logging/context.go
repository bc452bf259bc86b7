package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for
	// component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for
	// session identifiers.
	FieldSessionID = "session_id"
	// FieldVideoID is the standardized structured logging key for video
	// identifiers.
	FieldVideoID = "video_id"
	// FieldRequestID is the standardized structured logging key for
	// analysis request correlation tokens.
	FieldRequestID = "request_id"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	videoIDKey   contextKey = "video_id"
	requestIDKey contextKey = "request_id"
)

// WithSessionID stores a session identifier on the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithVideoID stores a video identifier on the context.
func WithVideoID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, videoIDKey, id)
}

// WithRequestID stores an analysis correlation token on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextFields extracts standardized slog attributes from the provided
// context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if id, ok := ctx.Value(videoIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldVideoID, id))
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRequestID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
