package services_test

import (
	"errors"
	"strings"
	"testing"

	"notemill/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrMalformedBundle, "parse", "decode", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrMalformedBundle) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"parse", "decode", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "write", "persist", "io failed", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestRecoverableClassification(t *testing.T) {
	noteErr := services.Wrap(services.ErrNote, "render", "transform", "bad markup", nil)
	if !services.Recoverable(noteErr) {
		t.Fatalf("expected note error to be recoverable: %v", noteErr)
	}

	resourceErr := services.Wrap(services.ErrResource, "parse", "decode", "bad base64", errors.New("io"))
	if !services.Recoverable(resourceErr) {
		t.Fatalf("expected resource error to be recoverable: %v", resourceErr)
	}

	bundleErr := services.Wrap(services.ErrMalformedBundle, "parse", "decode", "truncated", nil)
	if services.Recoverable(bundleErr) {
		t.Fatalf("expected bundle error to be fatal: %v", bundleErr)
	}

	if services.Recoverable(nil) {
		t.Fatal("nil error must not classify as recoverable")
	}
}
