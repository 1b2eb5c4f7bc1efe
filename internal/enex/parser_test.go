package enex_test

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notemill/internal/enex"
	"notemill/internal/logging"
)

func parseString(t *testing.T, doc string) ([]enex.Note, string) {
	t.Helper()
	parser := enex.NewParser(logging.NewNop())
	notes, notebook, err := parser.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return notes, notebook
}

func TestParseBasicNote(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<en-export>
  <notebook>Work Notes</notebook>
  <note>
    <title>  Meeting Minutes  </title>
    <content><![CDATA[<en-note><div>Agenda</div></en-note>]]></content>
    <created>20230114T093000Z</created>
    <updated>20230115T120000Z</updated>
    <tag>meetings</tag>
    <tag>q1</tag>
    <note-attributes>
      <source-url>https://example.com/minutes</source-url>
      <author>Sam</author>
      <latitude>51.5</latitude>
    </note-attributes>
  </note>
</en-export>`

	notes, notebook := parseString(t, doc)
	if notebook != "Work Notes" {
		t.Fatalf("notebook = %q", notebook)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	note := notes[0]
	if note.Title != "Meeting Minutes" {
		t.Errorf("title = %q", note.Title)
	}
	if !strings.Contains(note.Content, "<div>Agenda</div>") {
		t.Errorf("content = %q", note.Content)
	}
	wantCreated := time.Date(2023, 1, 14, 9, 30, 0, 0, time.UTC)
	if !note.Created.Equal(wantCreated) {
		t.Errorf("created = %v, want %v", note.Created, wantCreated)
	}
	if len(note.Tags) != 2 || note.Tags[0] != "meetings" || note.Tags[1] != "q1" {
		t.Errorf("tags = %v", note.Tags)
	}
	if note.SourceURL != "https://example.com/minutes" {
		t.Errorf("source url = %q", note.SourceURL)
	}
	if note.Author != "Sam" {
		t.Errorf("author = %q", note.Author)
	}
	if note.Attributes["latitude"] != "51.5" {
		t.Errorf("attributes = %v", note.Attributes)
	}
}

func TestParseDefaultsAndFallbacks(t *testing.T) {
	doc := `<en-export>
  <note>
    <title>   </title>
    <content>body</content>
    <created>not-a-timestamp</created>
  </note>
</en-export>`

	notes, notebook := parseString(t, doc)
	if notebook != "Default Notebook" {
		t.Errorf("notebook = %q", notebook)
	}
	if notes[0].Title != "Untitled Note" {
		t.Errorf("title = %q", notes[0].Title)
	}
	if !notes[0].Created.IsZero() {
		t.Errorf("created should be zero for unparseable input, got %v", notes[0].Created)
	}
}

func TestParseTimestampVariants(t *testing.T) {
	doc := `<en-export><note><title>T</title><content>c</content>
  <created>20230114T093000.123Z</created>
  <updated>20230115</updated>
</note></en-export>`

	notes, _ := parseString(t, doc)
	wantCreated := time.Date(2023, 1, 14, 9, 30, 0, 0, time.UTC)
	if !notes[0].Created.Equal(wantCreated) {
		t.Errorf("created = %v, want %v", notes[0].Created, wantCreated)
	}
	wantUpdated := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	if !notes[0].Updated.Equal(wantUpdated) {
		t.Errorf("updated = %v, want %v", notes[0].Updated, wantUpdated)
	}
}

func TestParseTagCleaning(t *testing.T) {
	doc := "<en-export><note><title>T</title><content>c</content>" +
		"<tag> dup </tag><tag>dup</tag><tag>a\x7fb</tag>" +
		"</note></en-export>"

	notes, _ := parseString(t, doc)
	tags := notes[0].Tags
	// Duplicates survive parsing; control characters do not.
	if len(tags) != 3 || tags[0] != "dup" || tags[1] != "dup" || tags[2] != "ab" {
		t.Fatalf("tags = %v", tags)
	}
}

func TestResourceDecoding(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("pdf-bytes"))
	doc := `<en-export><note><title>T</title><content>c</content>
  <resource>
    <data encoding="base64">` + payload + `</data>
    <mime>application/pdf</mime>
    <resource-attributes>
      <file-name>report.pdf</file-name>
      <width>120</width>
      <height>80</height>
    </resource-attributes>
  </resource>
  <resource>
    <data encoding="base64">###not-base64###</data>
    <mime>image/png</mime>
  </resource>
  <resource>
    <data encoding="base64">` + base64.StdEncoding.EncodeToString([]byte("img")) + `</data>
    <mime>image/jpeg</mime>
  </resource>
</note></en-export>`

	notes, _ := parseString(t, doc)
	resources := notes[0].Resources
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources (bad payload dropped), got %d", len(resources))
	}
	if resources[0].Filename != "report.pdf" || string(resources[0].Data) != "pdf-bytes" {
		t.Errorf("resource 0 = %+v", resources[0])
	}
	if resources[0].Width != 120 || resources[0].Height != 80 {
		t.Errorf("dimensions = %dx%d", resources[0].Width, resources[0].Height)
	}
	if resources[0].Size() != len("pdf-bytes") {
		t.Errorf("size = %d", resources[0].Size())
	}
	// Numbering continues from decoded resources, not source positions.
	if resources[1].Filename != "attachment_1.jpg" {
		t.Errorf("fallback filename = %q", resources[1].Filename)
	}
}

func TestExtensionForMime(t *testing.T) {
	cases := map[string]string{
		"image/png":       ".png",
		"application/pdf": ".pdf",
		"IMAGE/JPEG":      ".jpg",
		"chemical/x-pdb":  ".bin",
		"":                ".bin",
	}
	for mime, want := range cases {
		if got := enex.ExtensionForMime(mime); got != want {
			t.Errorf("ExtensionForMime(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestMediaResolution(t *testing.T) {
	payload := []byte("image-bytes")
	doc := `<en-export><note><title>T</title>
  <content><![CDATA[<en-note><en-media type="image/png" hash="b9c74d26f18f18f2d4d31cbefe0ad1a7"/><en-media type="image/png" hash="ffffffffffffffffffffffffffffffff"/></en-note>]]></content>
  <resource>
    <data encoding="base64" hash="b9c74d26f18f18f2d4d31cbefe0ad1a7">` + base64.StdEncoding.EncodeToString(payload) + `</data>
    <mime>image/png</mime>
    <resource-attributes><file-name>diagram.png</file-name></resource-attributes>
  </resource>
</note></en-export>`

	notes, _ := parseString(t, doc)
	content := notes[0].Content
	if !strings.Contains(content, "![diagram.png](diagram.png)") {
		t.Errorf("resolved media missing: %q", content)
	}
	if !strings.Contains(content, "[Media: ffffffffffffffffffffffffffffffff]") {
		t.Errorf("unresolved placeholder missing: %q", content)
	}
	if strings.Contains(content, "<en-media") {
		t.Errorf("raw media tag survived: %q", content)
	}
}

func TestMalformedBundleIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.enex")
	// One complete note followed by truncated markup.
	body := `<en-export><note><title>Good</title><content>c</content></note><note><title>Bad`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	parser := enex.NewParser(logging.NewNop())
	notes, _, err := parser.ParseFile(path)
	if err == nil {
		t.Fatal("expected error for malformed bundle")
	}
	var malformed *enex.MalformedBundleError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedBundleError, got %T: %v", err, err)
	}
	if malformed.Path != path {
		t.Errorf("path = %q, want %q", malformed.Path, path)
	}
	if notes != nil {
		t.Errorf("notes should be nil on structural failure, got %d", len(notes))
	}
}

func TestGuidPassthrough(t *testing.T) {
	doc := `<en-export><note><guid>abc-123</guid><title>T</title><content>c</content></note></en-export>`
	notes, _ := parseString(t, doc)
	if notes[0].GUID != "abc-123" {
		t.Errorf("guid = %q", notes[0].GUID)
	}
}
