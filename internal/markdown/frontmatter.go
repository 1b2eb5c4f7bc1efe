package markdown

import (
	"fmt"
	"strings"

	"notemill/internal/enex"
)

// RenderHeader generates the metadata header block for a note as key/value
// lines without the surrounding delimiter lines. It returns "" when no field
// is enabled; the caller then emits a body-only document. The title line is
// present in every non-empty header regardless of the Title toggle, so a
// document with any metadata at all stays self-describing. String values are
// double-quoted with embedded quotes escaped, list values use an inline
// bracketed form.
func RenderHeader(note enex.Note, fields FieldSet, dateFormat, sourceLabel string) string {
	if !fields.Any() {
		return ""
	}
	if dateFormat == "" {
		dateFormat = defaultDateFormat
	}

	var lines []string
	if note.Title != "" {
		lines = append(lines, fmt.Sprintf("title: %s", quoteHeaderValue(note.Title)))
	}
	if fields.Created && !note.Created.IsZero() {
		lines = append(lines, fmt.Sprintf("created: %s", quoteHeaderValue(note.Created.Format(dateFormat))))
	}
	if fields.Updated && !note.Updated.IsZero() {
		lines = append(lines, fmt.Sprintf("updated: %s", quoteHeaderValue(note.Updated.Format(dateFormat))))
	}
	if fields.Tags && len(note.Tags) > 0 {
		quoted := make([]string, len(note.Tags))
		for i, tag := range note.Tags {
			quoted[i] = quoteHeaderValue(tag)
		}
		lines = append(lines, fmt.Sprintf("tags: [%s]", strings.Join(quoted, ", ")))
	}
	if fields.Notebook && note.Notebook != "" {
		lines = append(lines, fmt.Sprintf("notebook: %s", quoteHeaderValue(note.Notebook)))
	}
	if fields.Source {
		if sourceLabel == "" {
			sourceLabel = defaultSourceLabel
		}
		lines = append(lines, fmt.Sprintf("source: %s", quoteHeaderValue(sourceLabel)))
	}
	if fields.Author && note.Author != "" {
		lines = append(lines, fmt.Sprintf("author: %s", quoteHeaderValue(note.Author)))
	}
	if fields.SourceURL && note.SourceURL != "" {
		lines = append(lines, fmt.Sprintf("source_url: %s", quoteHeaderValue(note.SourceURL)))
	}
	if fields.AttachmentCount && len(note.Resources) > 0 {
		lines = append(lines, fmt.Sprintf("attachments: %d", len(note.Resources)))
	}
	return strings.Join(lines, "\n")
}

func quoteHeaderValue(value string) string {
	escaped := strings.ReplaceAll(value, `"`, `\"`)
	return `"` + escaped + `"`
}
