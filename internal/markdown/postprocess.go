package markdown

import (
	"regexp"
	"strings"
)

var (
	emptyLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(\)`)
	imagePattern     = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	blankRunPattern  = regexp.MustCompile(`\n\s*\n\s*\n\s*\n+`)
	orderedItem      = regexp.MustCompile(`^\d+\. `)
)

// Postprocess normalizes broken links, routes image references through the
// attachment folder using the portable embed syntax, enforces blank-line
// separation around block elements, and collapses excess blank lines.
func Postprocess(content, attachmentFolder string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	content = fixLinks(content)
	content = rewriteImages(content, attachmentFolder)
	content = separateBlocks(content)
	content = blankRunPattern.ReplaceAllString(content, "\n\n\n")
	return strings.TrimSpace(content) + "\n"
}

// fixLinks unwraps links with empty targets.
func fixLinks(content string) string {
	return emptyLinkPattern.ReplaceAllString(content, "$1")
}

// rewriteImages converts image references to embed syntax routed through the
// attachment folder. Absolute and remote targets are left alone.
func rewriteImages(content, attachmentFolder string) string {
	return imagePattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := imagePattern.FindStringSubmatch(match)
		target := groups[2]
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "/") {
			return match
		}
		if !strings.HasPrefix(target, attachmentFolder+"/") {
			target = attachmentFolder + "/" + target
		}
		return "![[" + target + "]]"
	})
}

// separateBlocks walks the document line by line, right-trimming lines and
// inserting blank lines around tables, code fences, and lists.
func separateBlocks(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines)+8)
	inFence := false

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		fenceLine := strings.HasPrefix(strings.TrimSpace(line), "```")

		if fenceLine && !inFence {
			appendSeparated(&out, line)
			inFence = true
			continue
		}
		if fenceLine && inFence {
			out = append(out, line)
			inFence = false
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		switch {
		case isTableLine(line):
			if len(out) > 0 && out[len(out)-1] != "" && !isTableLine(out[len(out)-1]) {
				out = append(out, "")
			}
			out = append(out, line)
		case isListLine(line):
			if len(out) > 0 && out[len(out)-1] != "" && !isListLine(out[len(out)-1]) {
				out = append(out, "")
			}
			out = append(out, line)
		default:
			if len(out) > 0 && line != "" {
				prev := out[len(out)-1]
				if isTableLine(prev) || isListLine(prev) || strings.HasPrefix(strings.TrimSpace(prev), "```") {
					out = append(out, "")
				}
			}
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}

func appendSeparated(out *[]string, line string) {
	if len(*out) > 0 && (*out)[len(*out)-1] != "" {
		*out = append(*out, "")
	}
	*out = append(*out, line)
}

func isTableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1
}

func isListLine(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ ") {
		return true
	}
	return orderedItem.MatchString(trimmed)
}
