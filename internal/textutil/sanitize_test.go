package textutil_test

import (
	"strings"
	"testing"

	"notemill/internal/textutil"
)

func TestSanitizeNameReplacesInvalidCharacters(t *testing.T) {
	got := textutil.SanitizeName(`meeting: notes/2023 <draft>?`, "_")
	if strings.ContainsAny(got, `<>:"/\|?*`) {
		t.Fatalf("invalid characters survive: %q", got)
	}
	if got != "meeting_ notes_2023 _draft_" {
		t.Fatalf("SanitizeName = %q", got)
	}
}

func TestSanitizeNameCollapsesPlaceholderRuns(t *testing.T) {
	got := textutil.SanitizeName("a//\\\\b", "_")
	if strings.Contains(got, "__") {
		t.Fatalf("placeholder run survives: %q", got)
	}
	if got != "a_b" {
		t.Fatalf("SanitizeName = %q", got)
	}
}

func TestSanitizeNameTrimsDotsAndSpaces(t *testing.T) {
	if got := textutil.SanitizeName(" .hidden. ", "_"); got != "hidden" {
		t.Fatalf("SanitizeName = %q", got)
	}
}

func TestSanitizeNameFallsBackToUntitled(t *testing.T) {
	for _, input := range []string{"", "   ", "...", `???`, "\x00\x01"} {
		if got := textutil.SanitizeName(input, "_"); got != "untitled" {
			t.Fatalf("SanitizeName(%q) = %q, want untitled", input, got)
		}
	}
}

func TestSanitizeNameStripsControlCharacters(t *testing.T) {
	got := textutil.SanitizeName("tab\there", "_")
	if got != "tab_here" {
		t.Fatalf("SanitizeName = %q", got)
	}
}

func TestTruncateNamePreservesExtension(t *testing.T) {
	long := strings.Repeat("a", 120) + ".md"
	got := textutil.TruncateName(long, 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("length = %d, want 20", len([]rune(got)))
	}
	if !strings.HasSuffix(got, ".md") {
		t.Fatalf("extension lost: %q", got)
	}
}

func TestTruncateNameShortInputUnchanged(t *testing.T) {
	if got := textutil.TruncateName("short.md", 100); got != "short.md" {
		t.Fatalf("TruncateName = %q", got)
	}
}

func TestTruncateNameMultibyte(t *testing.T) {
	long := strings.Repeat("笔", 50) + ".md"
	got := textutil.TruncateName(long, 10)
	if len([]rune(got)) != 10 {
		t.Fatalf("rune length = %d, want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, ".md") {
		t.Fatalf("extension lost: %q", got)
	}
}
