package logging

import (
	"context"
	"log/slog"

	"notemill/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for migration session identifiers.
	FieldSessionID = "session_id"
	// FieldBundle is the standardized structured logging key for the bundle file being processed.
	FieldBundle = "bundle"
	// FieldNoteID is the standardized structured logging key for note identifiers.
	FieldNoteID = "note_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if bundle, ok := services.BundleFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBundle, bundle))
	}
	if id, ok := services.NoteIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldNoteID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
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
