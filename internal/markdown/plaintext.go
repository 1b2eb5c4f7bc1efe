package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	anyTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// ExtractPlainText strips all markup tags, decodes entities, and collapses
// whitespace. It is the degradation path for content the transform cannot
// handle and must never fail.
func ExtractPlainText(content string) string {
	text := anyTagPattern.ReplaceAllString(content, " ")
	text = html.UnescapeString(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
