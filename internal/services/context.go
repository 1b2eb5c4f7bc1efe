package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	bundleKey    contextKey = "bundle"
	noteIDKey    contextKey = "note_id"
)

// WithSessionID annotates context with the migration session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBundle annotates context with the bundle file currently being processed.
func WithBundle(ctx context.Context, bundle string) context.Context {
	if bundle == "" {
		return ctx
	}
	return context.WithValue(ctx, bundleKey, bundle)
}

// BundleFromContext returns the bundle file name if present.
func BundleFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(bundleKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithNoteID annotates context with the note identifier.
func WithNoteID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, noteIDKey, id)
}

// NoteIDFromContext extracts the note identifier if present.
func NoteIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(noteIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
