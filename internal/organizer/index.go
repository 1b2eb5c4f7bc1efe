package organizer

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"notemill/internal/textutil"
)

// IndexEntry is one note line in the index document.
type IndexEntry struct {
	Title string
	Path  string
	Tags  []string
}

// IndexBuilder accumulates migrated notes for one notebook and renders a
// Markdown index document grouping them by output folder.
type IndexBuilder struct {
	notebook string
	entries  []IndexEntry
}

// NewIndexBuilder prepares an index for the named notebook.
func NewIndexBuilder(notebook string) *IndexBuilder {
	if strings.TrimSpace(notebook) == "" {
		notebook = "Notes"
	}
	return &IndexBuilder{notebook: notebook}
}

// Add records a migrated note. Path is the vault-relative output path.
func (b *IndexBuilder) Add(title, path string, tags []string) {
	b.entries = append(b.entries, IndexEntry{Title: title, Path: path, Tags: tags})
}

// Empty reports whether any note was recorded.
func (b *IndexBuilder) Empty() bool {
	return len(b.entries) == 0
}

// FileName returns the vault-relative name of the index document.
func (b *IndexBuilder) FileName(placeholder string) string {
	return textutil.SanitizeName(b.notebook, placeholder) + "_Index.md"
}

// Render produces the index document. Notes are grouped by output folder;
// folders are sorted, entries keep migration order.
func (b *IndexBuilder) Render(generatedAt time.Time) string {
	groups := make(map[string][]IndexEntry)
	var folders []string
	for _, entry := range b.entries {
		folder := filepath.Dir(entry.Path)
		if folder == "." {
			folder = "Notes"
		}
		if _, ok := groups[folder]; !ok {
			folders = append(folders, folder)
		}
		groups[folder] = append(groups[folder], entry)
	}
	sort.Strings(folders)

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(b.notebook)
	sb.WriteString(" Index\n\n")
	sb.WriteString("Generated: ")
	sb.WriteString(generatedAt.Format("2006-01-02 15:04"))
	sb.WriteString("\n")

	for _, folder := range folders {
		sb.WriteString("\n## ")
		sb.WriteString(folder)
		sb.WriteString("\n\n")
		for _, entry := range groups[folder] {
			base := filepath.Base(entry.Path)
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			sb.WriteString("- [[")
			sb.WriteString(stem)
			sb.WriteString("]]")
			for _, tag := range entry.Tags {
				tag = strings.TrimSpace(tag)
				if tag == "" {
					continue
				}
				sb.WriteString(" #")
				sb.WriteString(strings.ReplaceAll(tag, " ", "-"))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
