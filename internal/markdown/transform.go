package markdown

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Transform converts a prepared HTML fragment into Markdown. Headings,
// emphasis, lists, tables, links, images, and code are mapped to their
// Markdown equivalents; unknown tags contribute only their text content.
// The returned error signals an irrecoverable transform failure and triggers
// the plain-text degradation path in the renderer.
func Transform(fragment string) (result string, err error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markup transform: %v", r)
		}
	}()

	conv := &converter{}
	if runErr := conv.run(html.NewTokenizer(strings.NewReader(fragment))); runErr != nil {
		return "", runErr
	}
	return strings.TrimRight(conv.out.String(), " \n") + "\n", nil
}

type listEntry struct {
	ordered bool
	index   int
}

type converter struct {
	out strings.Builder
	// buffers captures nested content for links, table cells, and quotes.
	buffers   []*strings.Builder
	listStack []listEntry
	linkHrefs []string
	preDepth  int
	skipDepth int

	inTable    bool
	rowCells   []string
	headerDone bool
}

func (c *converter) run(tok *html.Tokenizer) error {
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if tok.Err() == io.EOF {
				return nil
			}
			return tok.Err()
		case html.TextToken:
			c.text(string(tok.Text()))
		case html.StartTagToken:
			name, attrs := tagWithAttrs(tok)
			c.open(name, attrs)
		case html.SelfClosingTagToken:
			name, attrs := tagWithAttrs(tok)
			c.open(name, attrs)
			c.close(name)
		case html.EndTagToken:
			name, _ := tok.TagName()
			c.close(string(name))
		}
	}
}

func tagWithAttrs(tok *html.Tokenizer) (string, map[string]string) {
	name, hasAttr := tok.TagName()
	attrs := map[string]string{}
	for hasAttr {
		key, value, more := tok.TagAttr()
		attrs[string(key)] = string(value)
		hasAttr = more
	}
	return string(name), attrs
}

func (c *converter) current() *strings.Builder {
	if len(c.buffers) > 0 {
		return c.buffers[len(c.buffers)-1]
	}
	return &c.out
}

func (c *converter) push() {
	c.buffers = append(c.buffers, &strings.Builder{})
}

func (c *converter) pop() string {
	if len(c.buffers) == 0 {
		return ""
	}
	last := c.buffers[len(c.buffers)-1]
	c.buffers = c.buffers[:len(c.buffers)-1]
	return last.String()
}

func (c *converter) write(s string) {
	if c.skipDepth > 0 {
		return
	}
	c.current().WriteString(s)
}

// ensureNewline makes the current buffer end at a line start.
func (c *converter) ensureNewline() {
	buf := c.current()
	if buf.Len() == 0 {
		return
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		c.write("\n")
	}
}

// ensureBlankLine makes the current buffer end with one empty line.
func (c *converter) ensureBlankLine() {
	buf := c.current()
	if buf.Len() == 0 {
		return
	}
	content := strings.TrimRight(buf.String(), " ")
	switch {
	case strings.HasSuffix(content, "\n\n"):
	case strings.HasSuffix(content, "\n"):
		c.write("\n")
	default:
		c.write("\n\n")
	}
}

func (c *converter) text(data string) {
	if c.skipDepth > 0 {
		return
	}
	if c.preDepth > 0 {
		c.write(data)
		return
	}
	collapsed := collapseWhitespace(data)
	if collapsed == "" {
		return
	}
	buf := c.current()
	if strings.HasPrefix(collapsed, " ") && (buf.Len() == 0 || strings.HasSuffix(buf.String(), "\n")) {
		collapsed = strings.TrimPrefix(collapsed, " ")
	}
	c.write(collapsed)
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\f':
			space = true
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func (c *converter) open(name string, attrs map[string]string) {
	switch name {
	case "style", "script", "head", "title":
		c.skipDepth++
	case "h1", "h2", "h3", "h4", "h5", "h6":
		c.ensureBlankLine()
		c.write(strings.Repeat("#", int(name[1]-'0')) + " ")
	case "p":
		c.ensureBlankLine()
	case "div":
		c.ensureNewline()
	case "br":
		c.write("\n")
	case "hr":
		c.ensureBlankLine()
		c.write("---")
		c.ensureBlankLine()
	case "b", "strong":
		c.write("**")
	case "i", "em":
		c.write("*")
	case "s", "del", "strike":
		c.write("~~")
	case "a":
		c.linkHrefs = append(c.linkHrefs, strings.TrimSpace(attrs["href"]))
		c.push()
	case "img":
		alt := strings.TrimSpace(attrs["alt"])
		src := strings.TrimSpace(attrs["src"])
		if src != "" {
			c.write(fmt.Sprintf("![%s](%s)", alt, src))
		}
	case "ul", "ol":
		if len(c.listStack) == 0 {
			c.ensureBlankLine()
		} else {
			c.ensureNewline()
		}
		c.listStack = append(c.listStack, listEntry{ordered: name == "ol", index: 0})
	case "li":
		c.ensureNewline()
		depth := len(c.listStack)
		if depth == 0 {
			c.listStack = append(c.listStack, listEntry{})
			depth = 1
		}
		c.write(strings.Repeat("  ", depth-1))
		entry := &c.listStack[depth-1]
		if entry.ordered {
			entry.index++
			c.write(fmt.Sprintf("%d. ", entry.index))
		} else {
			c.write("- ")
		}
	case "pre":
		c.ensureBlankLine()
		c.write("```\n")
		c.preDepth++
	case "code":
		if c.preDepth == 0 {
			c.write("`")
		}
	case "blockquote":
		c.push()
	case "table":
		c.ensureBlankLine()
		c.inTable = true
		c.headerDone = false
		c.rowCells = nil
	case "tr":
		c.rowCells = nil
	case "td", "th":
		if c.inTable {
			c.push()
		}
	}
}

func (c *converter) close(name string) {
	switch name {
	case "style", "script", "head", "title":
		if c.skipDepth > 0 {
			c.skipDepth--
		}
	case "h1", "h2", "h3", "h4", "h5", "h6", "p":
		c.ensureBlankLine()
	case "div":
		c.ensureNewline()
	case "b", "strong":
		c.write("**")
	case "i", "em":
		c.write("*")
	case "s", "del", "strike":
		c.write("~~")
	case "a":
		text := strings.TrimSpace(c.pop())
		var href string
		if n := len(c.linkHrefs); n > 0 {
			href = c.linkHrefs[n-1]
			c.linkHrefs = c.linkHrefs[:n-1]
		}
		switch {
		case text == "" && href == "":
		case text == "":
			c.write(fmt.Sprintf("[%s](%s)", href, href))
		default:
			c.write(fmt.Sprintf("[%s](%s)", text, href))
		}
	case "ul", "ol":
		if n := len(c.listStack); n > 0 {
			c.listStack = c.listStack[:n-1]
		}
		if len(c.listStack) == 0 {
			c.ensureBlankLine()
		}
	case "pre":
		if c.preDepth > 0 {
			c.preDepth--
		}
		c.ensureNewline()
		c.write("```")
		c.ensureBlankLine()
	case "code":
		if c.preDepth == 0 {
			c.write("`")
		}
	case "blockquote":
		quoted := strings.TrimSpace(c.pop())
		if quoted == "" {
			return
		}
		c.ensureBlankLine()
		for _, line := range strings.Split(quoted, "\n") {
			c.write("> " + strings.TrimRight(line, " ") + "\n")
		}
		c.ensureBlankLine()
	case "td", "th":
		if c.inTable {
			cell := strings.TrimSpace(c.pop())
			cell = strings.ReplaceAll(cell, "\n", " ")
			c.rowCells = append(c.rowCells, cell)
		}
	case "tr":
		if !c.inTable || len(c.rowCells) == 0 {
			return
		}
		c.ensureNewline()
		c.write("| " + strings.Join(c.rowCells, " | ") + " |\n")
		if !c.headerDone {
			separators := make([]string, len(c.rowCells))
			for i := range separators {
				separators[i] = "---"
			}
			c.write("| " + strings.Join(separators, " | ") + " |\n")
			c.headerDone = true
		}
		c.rowCells = nil
	case "table":
		c.inTable = false
		c.ensureBlankLine()
	}
}
