package testsupport

import (
	"encoding/base64"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BundleResource describes an attachment embedded in a generated bundle.
type BundleResource struct {
	Data     []byte
	Mime     string
	FileName string
}

// BundleNote describes one note in a generated ENEX bundle. Timestamps use
// the compact ENEX form (20060102T150405Z).
type BundleNote struct {
	GUID      string
	Title     string
	Content   string
	Created   string
	Updated   string
	Tags      []string
	SourceURL string
	Author    string
	Resources []BundleResource
}

// BundleXML renders an ENEX document for the given notes.
func BundleXML(notebook string, notes ...BundleNote) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString("<en-export>\n")
	if notebook != "" {
		sb.WriteString("  <notebook>")
		sb.WriteString(escapeXML(notebook))
		sb.WriteString("</notebook>\n")
	}
	for _, note := range notes {
		sb.WriteString("  <note>\n")
		if note.GUID != "" {
			sb.WriteString("    <guid>" + escapeXML(note.GUID) + "</guid>\n")
		}
		sb.WriteString("    <title>" + escapeXML(note.Title) + "</title>\n")
		content := note.Content
		if content == "" {
			content = "<en-note><div>" + escapeXML(note.Title) + "</div></en-note>"
		}
		sb.WriteString("    <content>" + escapeXML(content) + "</content>\n")
		if note.Created != "" {
			sb.WriteString("    <created>" + note.Created + "</created>\n")
		}
		if note.Updated != "" {
			sb.WriteString("    <updated>" + note.Updated + "</updated>\n")
		}
		for _, tag := range note.Tags {
			sb.WriteString("    <tag>" + escapeXML(tag) + "</tag>\n")
		}
		if note.SourceURL != "" || note.Author != "" {
			sb.WriteString("    <note-attributes>\n")
			if note.SourceURL != "" {
				sb.WriteString("      <source-url>" + escapeXML(note.SourceURL) + "</source-url>\n")
			}
			if note.Author != "" {
				sb.WriteString("      <author>" + escapeXML(note.Author) + "</author>\n")
			}
			sb.WriteString("    </note-attributes>\n")
		}
		for _, res := range note.Resources {
			sb.WriteString("    <resource>\n")
			sb.WriteString(`      <data encoding="base64">`)
			sb.WriteString(base64.StdEncoding.EncodeToString(res.Data))
			sb.WriteString("</data>\n")
			if res.Mime != "" {
				sb.WriteString("      <mime>" + escapeXML(res.Mime) + "</mime>\n")
			}
			if res.FileName != "" {
				sb.WriteString("      <resource-attributes>\n")
				sb.WriteString("        <file-name>" + escapeXML(res.FileName) + "</file-name>\n")
				sb.WriteString("      </resource-attributes>\n")
			}
			sb.WriteString("    </resource>\n")
		}
		sb.WriteString("  </note>\n")
	}
	sb.WriteString("</en-export>\n")
	return sb.String()
}

// WriteBundle writes an ENEX bundle file into dir and returns its path.
func WriteBundle(t testing.TB, dir, name, notebook string, notes ...BundleNote) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(BundleXML(notebook, notes...)), 0o644); err != nil {
		t.Fatalf("write bundle %s: %v", path, err)
	}
	return path
}

func escapeXML(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return s
	}
	return sb.String()
}
