package history

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"notemill/internal/enex"
)

// NormalizeContent trims the text and right-trims every line so that
// trailing-whitespace-only edits never register as changes. The same rule
// must be applied anywhere file content is compared against a fingerprint.
func NormalizeContent(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// Fingerprint hashes normalized content. It is change detection only and
// never contributes to note identity.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(NormalizeContent(content)))
	return hex.EncodeToString(sum[:])
}

// NoteID returns the stable identity for a note: the externally supplied
// guid when present, otherwise a digest of title and creation time. Identity
// never changes when content changes.
func NoteID(note enex.Note) string {
	if note.GUID != "" {
		return note.GUID
	}
	created := "no_date"
	if !note.Created.IsZero() {
		created = note.Created.UTC().Format(time.RFC3339)
	}
	sum := sha256.Sum256([]byte(note.Title + "_" + created))
	return hex.EncodeToString(sum[:])[:16]
}
