package markdown_test

import (
	"strings"
	"testing"
	"time"

	"github.com/adrg/frontmatter"

	"notemill/internal/enex"
	"notemill/internal/logging"
	"notemill/internal/markdown"
)

func newRenderer(fields markdown.FieldSet) *markdown.Renderer {
	return markdown.NewRenderer(markdown.Options{Fields: fields}, logging.NewNop())
}

func TestRenderChecklistScenario(t *testing.T) {
	note := enex.Note{
		Title: "测试笔记1",
		Tags:  []string{"测试", "示例"},
		Content: `<en-note>` +
			`<div><en-todo checked="true"/>完成的任务</div>` +
			`<div><en-todo/>待办的任务</div>` +
			`</en-note>`,
	}

	renderer := newRenderer(markdown.FieldSet{Title: true, Tags: true})
	doc := renderer.Render(note)

	checkedIdx := strings.Index(doc, "- [x] 完成的任务")
	uncheckedIdx := strings.Index(doc, "- [ ] 待办的任务")
	if checkedIdx < 0 || uncheckedIdx < 0 {
		t.Fatalf("checklist items missing:\n%s", doc)
	}
	if checkedIdx > uncheckedIdx {
		t.Errorf("checklist items out of source order:\n%s", doc)
	}
	if !strings.Contains(doc, `tags: ["测试", "示例"]`) {
		t.Errorf("tags header missing:\n%s", doc)
	}
}

func TestRenderHeadingsEmphasisAndLists(t *testing.T) {
	note := enex.Note{
		Title: "Styles",
		Content: `<en-note><h2>Section</h2>` +
			`<div>Some <b>bold</b> and <i>italic</i> text.</div>` +
			`<ul><li>first</li><li>second</li></ul>` +
			`<ol><li>one</li><li>two</li></ol></en-note>`,
	}

	body := newRenderer(markdown.FieldSet{}).Render(note)
	for _, want := range []string{
		"## Section",
		"Some **bold** and *italic* text.",
		"- first",
		"- second",
		"1. one",
		"2. two",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in:\n%s", want, body)
		}
	}
}

func TestRenderTableWithSeparation(t *testing.T) {
	note := enex.Note{
		Title: "Tabular",
		Content: `<en-note><div>before</div>` +
			`<table><tr><th>Name</th><th>Qty</th></tr>` +
			`<tr><td>apples</td><td>3</td></tr></table>` +
			`<div>after</div></en-note>`,
	}

	body := newRenderer(markdown.FieldSet{}).Render(note)
	if !strings.Contains(body, "| Name | Qty |") {
		t.Fatalf("header row missing:\n%s", body)
	}
	if !strings.Contains(body, "| --- | --- |") {
		t.Fatalf("separator row missing:\n%s", body)
	}
	if !strings.Contains(body, "| apples | 3 |") {
		t.Fatalf("data row missing:\n%s", body)
	}
	if !strings.Contains(body, "before\n\n| Name") {
		t.Errorf("blank line before table missing:\n%s", body)
	}
	if !strings.Contains(body, "| apples | 3 |\n\nafter") {
		t.Errorf("blank line after table missing:\n%s", body)
	}
}

func TestRenderLinksAndImages(t *testing.T) {
	note := enex.Note{
		Title: "Links",
		Content: `<en-note>` +
			`<div><a href="https://example.com">site</a></div>` +
			`<div><a href="">dead link</a></div>` +
			`<div><img src="diagram.png" alt="diagram"/></div>` +
			`<div><img src="https://example.com/remote.png" alt="remote"/></div>` +
			`</en-note>`,
	}

	body := newRenderer(markdown.FieldSet{}).Render(note)
	if !strings.Contains(body, "[site](https://example.com)") {
		t.Errorf("link missing:\n%s", body)
	}
	if strings.Contains(body, "[dead link]()") || !strings.Contains(body, "dead link") {
		t.Errorf("empty link not unwrapped:\n%s", body)
	}
	if !strings.Contains(body, "![[attachments/diagram.png]]") {
		t.Errorf("local image not routed through attachments:\n%s", body)
	}
	if !strings.Contains(body, "![remote](https://example.com/remote.png)") {
		t.Errorf("remote image should keep standard syntax:\n%s", body)
	}
}

func TestRenderCodeBlocks(t *testing.T) {
	note := enex.Note{
		Title: "Code",
		Content: `<en-note><div>intro</div>` +
			`<pre>func main() {
	println("hi")
}</pre>` +
			`<div>uses <code>println</code> internally</div></en-note>`,
	}

	body := newRenderer(markdown.FieldSet{}).Render(note)
	if !strings.Contains(body, "```\nfunc main() {\n\tprintln(\"hi\")\n}\n```") {
		t.Errorf("code fence mangled:\n%s", body)
	}
	if !strings.Contains(body, "uses `println` internally") {
		t.Errorf("inline code missing:\n%s", body)
	}
}

func TestNormalizeCharacters(t *testing.T) {
	in := "a b\r\nc​d"
	got := markdown.NormalizeCharacters(in)
	if got != "a b\ncd" {
		t.Errorf("NormalizeCharacters = %q", got)
	}
}

func TestExtractPlainText(t *testing.T) {
	got := markdown.ExtractPlainText(`<div>Hello &amp;   <b>world</b></div>`)
	if got != "Hello & world" {
		t.Errorf("ExtractPlainText = %q", got)
	}
}

func TestRenderBodyOnlyWhenNoFieldsEnabled(t *testing.T) {
	note := enex.Note{
		Title:   "Header test",
		Content: "<en-note><div>just a body</div></en-note>",
		Created: time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC),
		Tags:    []string{"keep"},
	}

	body := newRenderer(markdown.FieldSet{}).Render(note)
	if strings.Contains(body, "---") {
		t.Fatalf("body-only document must not contain a header:\n%s", body)
	}
	if strings.TrimSpace(body) != "just a body" {
		t.Errorf("body = %q", body)
	}
}

func TestRenderIsByteStable(t *testing.T) {
	note := enex.Note{
		Title:   "Stable",
		Content: "<en-note><div>alpha</div><ul><li>one</li></ul></en-note>",
	}
	renderer := newRenderer(markdown.FieldSet{Title: true})
	first := renderer.Render(note)
	for i := 0; i < 3; i++ {
		if again := renderer.Render(note); again != first {
			t.Fatalf("render %d differs:\n%q\nvs\n%q", i, again, first)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	note := enex.Note{
		Title:     `A "quoted" title`,
		Content:   "<en-note><div>body text</div></en-note>",
		Created:   time.Date(2023, 5, 1, 8, 30, 0, 0, time.UTC),
		Tags:      []string{"alpha", "beta"},
		Notebook:  "Inbox",
		Author:    "Sam",
		SourceURL: "https://example.com/a",
		Resources: []enex.Resource{{Data: []byte("x"), MimeType: "image/png", Filename: "x.png"}},
	}

	renderer := newRenderer(markdown.FieldSet{
		Title: true, Created: true, Updated: true, Tags: true,
		Notebook: true, Source: true, Author: true, SourceURL: true,
		AttachmentCount: true,
	})
	doc := renderer.Render(note)

	var meta struct {
		Title       string   `yaml:"title"`
		Created     string   `yaml:"created"`
		Tags        []string `yaml:"tags"`
		Notebook    string   `yaml:"notebook"`
		Source      string   `yaml:"source"`
		Author      string   `yaml:"author"`
		SourceURL   string   `yaml:"source_url"`
		Attachments int      `yaml:"attachments"`
	}
	rest, err := frontmatter.Parse(strings.NewReader(doc), &meta)
	if err != nil {
		t.Fatalf("frontmatter.Parse: %v\n%s", err, doc)
	}
	if meta.Title != `A "quoted" title` {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Created != "2023-05-01 08:30:00" {
		t.Errorf("created = %q", meta.Created)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "alpha" || meta.Tags[1] != "beta" {
		t.Errorf("tags = %v", meta.Tags)
	}
	if meta.Notebook != "Inbox" || meta.Source != "Evernote" || meta.Author != "Sam" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.SourceURL != "https://example.com/a" {
		t.Errorf("source_url = %q", meta.SourceURL)
	}
	if meta.Attachments != 1 {
		t.Errorf("attachments = %d", meta.Attachments)
	}
	if !strings.Contains(string(rest), "body text") {
		t.Errorf("body lost in round trip: %q", string(rest))
	}
}

func TestRepairNestingIdempotent(t *testing.T) {
	in := `<div><div><div>deep</div></div></div><p></p><p>kept</p>`
	once := markdown.Preprocess(in)
	twice := markdown.Preprocess(once)
	if once != twice {
		t.Errorf("Preprocess not idempotent:\n%q\nvs\n%q", once, twice)
	}
	if strings.Contains(once, "<p></p>") {
		t.Errorf("empty paragraph survived: %q", once)
	}
}
