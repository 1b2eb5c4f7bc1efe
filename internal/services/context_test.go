package services_test

import (
	"context"
	"testing"

	"notemill/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-42")
	ctx = services.WithBundle(ctx, "export.enex")
	ctx = services.WithNoteID(ctx, "abc123")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-42" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if bundle, ok := services.BundleFromContext(ctx); !ok || bundle != "export.enex" {
		t.Fatalf("unexpected bundle: %v %v", bundle, ok)
	}
	if id, ok := services.NoteIDFromContext(ctx); !ok || id != "abc123" {
		t.Fatalf("unexpected note id: %v %v", id, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBundle(ctx, "")
	if _, ok := services.BundleFromContext(ctx); ok {
		t.Fatal("expected no bundle value")
	}
	ctx = services.WithSessionID(ctx, "")
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session id value")
	}
}
