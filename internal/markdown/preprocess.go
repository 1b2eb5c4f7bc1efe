package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	enNoteOpenPattern  = regexp.MustCompile(`(?i)<en-note[^>]*>`)
	enNoteClosePattern = regexp.MustCompile(`(?i)</en-note>`)
	// Leftover media tags; the parser resolved hash references already.
	enMediaPattern       = regexp.MustCompile(`(?i)<en-media[^>]*/?>`)
	enTodoCheckedPattern = regexp.MustCompile(`(?i)<en-todo\s+checked="true"[^>]*/?>`)
	enTodoPattern        = regexp.MustCompile(`(?i)<en-todo[^>]*/?>`)
	styleAttrPattern     = regexp.MustCompile(`(?i)\s+style="[^"]*"`)
	enClassPattern       = regexp.MustCompile(`(?i)\s+class="en-[^"]*"`)
	commentPattern       = regexp.MustCompile(`(?s)<!--.*?-->`)
	zeroWidthPattern     = regexp.MustCompile("[\u200B-\u200F\uFEFF]")
	nestedDivOpen        = regexp.MustCompile(`(?i)<div[^>]*>\s*<div[^>]*>`)
	nestedDivClose       = regexp.MustCompile(`(?i)</div>\s*</div>`)
	emptyParagraph       = regexp.MustCompile(`(?i)<p[^>]*>\s*</p>`)
)

// Preprocess strips format-proprietary wrapper tags, normalizes whitespace
// and unicode, and repairs structurally invalid nesting before the markup to
// Markdown transform. Each stage is idempotent.
func Preprocess(content string) string {
	if content == "" {
		return ""
	}
	content = stripProprietaryTags(content)
	content = NormalizeCharacters(content)
	content = repairNesting(content)
	return content
}

// stripProprietaryTags removes the en-note wrapper, converts checklist
// markers to Markdown checkboxes, and drops export-specific attributes.
func stripProprietaryTags(content string) string {
	content = enNoteOpenPattern.ReplaceAllString(content, "")
	content = enNoteClosePattern.ReplaceAllString(content, "")
	content = enTodoCheckedPattern.ReplaceAllString(content, "- [x] ")
	content = enTodoPattern.ReplaceAllString(content, "- [ ] ")
	content = enMediaPattern.ReplaceAllString(content, "[Media]")
	content = styleAttrPattern.ReplaceAllString(content, "")
	content = enClassPattern.ReplaceAllString(content, "")
	content = commentPattern.ReplaceAllString(content, "")
	return content
}

// NormalizeCharacters unifies line endings, removes zero-width characters,
// replaces non-breaking space variants with regular spaces, and applies NFC
// normalization.
func NormalizeCharacters(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, " ", " ")
	content = strings.ReplaceAll(content, " ", " ")
	content = zeroWidthPattern.ReplaceAllString(content, "")
	return norm.NFC.String(content)
}

// repairNesting collapses duplicated wrapper tags and drops empty paragraphs.
func repairNesting(content string) string {
	for {
		repaired := nestedDivOpen.ReplaceAllString(content, "<div>")
		repaired = nestedDivClose.ReplaceAllString(repaired, "</div>")
		repaired = emptyParagraph.ReplaceAllString(repaired, "")
		if repaired == content {
			return repaired
		}
		content = repaired
	}
}
