package enex

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"notemill/internal/logging"
)

const defaultNotebook = "Default Notebook"

// untitledFallback is used when a note's title is absent or empty after trimming.
const untitledFallback = "Untitled Note"

// controlCharPattern matches control characters stripped from titles and tags.
var controlCharPattern = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

// Parser reads ENEX bundles into Note records.
type Parser struct {
	logger *slog.Logger
}

// NewParser constructs a parser. A nil logger disables diagnostics.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logging.NewComponentLogger(logger, "enex-parser")}
}

// ParseFile parses the bundle at path. Structural failures return a
// *MalformedBundleError carrying the path; no notes are returned alongside it.
func (p *Parser) ParseFile(path string) ([]Note, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	notes, notebook, err := p.Parse(f)
	if err != nil {
		var malformed *MalformedBundleError
		if ok := asMalformed(err, &malformed); ok {
			malformed.Path = path
			return nil, "", malformed
		}
		return nil, "", err
	}
	return notes, notebook, nil
}

// Parse decodes one bundle from r, returning its notes in document order and
// the notebook name the bundle declares ("Default Notebook" when absent).
func (p *Parser) Parse(r io.Reader) ([]Note, string, error) {
	var export xmlExport
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&export); err != nil {
		return nil, "", &MalformedBundleError{Err: err}
	}

	notebook := cleanText(export.Notebook)
	if notebook == "" {
		notebook = defaultNotebook
	}

	notes := make([]Note, 0, len(export.Notes))
	for _, raw := range export.Notes {
		notes = append(notes, p.buildNote(raw, notebook))
	}
	return notes, notebook, nil
}

func (p *Parser) buildNote(raw xmlNote, notebook string) Note {
	title := cleanText(raw.Title)
	if title == "" {
		title = untitledFallback
	}

	note := Note{
		GUID:      strings.TrimSpace(raw.GUID),
		Title:     title,
		Content:   raw.Content,
		Created:   parseTimestamp(raw.Created),
		Updated:   parseTimestamp(raw.Updated),
		Notebook:  notebook,
		SourceURL: strings.TrimSpace(raw.SourceURL),
		Author:    strings.TrimSpace(raw.Author),
	}

	for _, tag := range raw.Tags {
		cleaned := cleanText(tag)
		if cleaned == "" {
			continue
		}
		// Duplicates survive parsing; de-duplication is a rendering concern.
		note.Tags = append(note.Tags, cleaned)
	}

	if len(raw.Attributes.Fields) > 0 {
		note.Attributes = make(map[string]string, len(raw.Attributes.Fields))
		for _, field := range raw.Attributes.Fields {
			value := strings.TrimSpace(field.Value)
			if value == "" {
				continue
			}
			note.Attributes[field.XMLName.Local] = value
			switch field.XMLName.Local {
			case "source-url":
				if note.SourceURL == "" {
					note.SourceURL = value
				}
			case "author":
				if note.Author == "" {
					note.Author = value
				}
			case "guid":
				if note.GUID == "" {
					note.GUID = value
				}
			}
		}
	}

	note.Resources = p.decodeResources(raw.Resources, note.Title)
	note.Content = resolveMedia(note.Content, note.Resources)
	return note
}

// cleanText trims whitespace and strips control characters.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return controlCharPattern.ReplaceAllString(text, "")
}

func asMalformed(err error, target **MalformedBundleError) bool {
	m, ok := err.(*MalformedBundleError)
	if ok {
		*target = m
	}
	return ok
}

// xmlExport mirrors the en-export document shape.
type xmlExport struct {
	XMLName  xml.Name  `xml:"en-export"`
	Notebook string    `xml:"notebook"`
	Notes    []xmlNote `xml:"note"`
}

type xmlNote struct {
	GUID       string            `xml:"guid"`
	Title      string            `xml:"title"`
	Content    string            `xml:"content"`
	Created    string            `xml:"created"`
	Updated    string            `xml:"updated"`
	Tags       []string          `xml:"tag"`
	SourceURL  string            `xml:"source-url"`
	Author     string            `xml:"author"`
	Attributes xmlNoteAttributes `xml:"note-attributes"`
	Resources  []xmlResource     `xml:"resource"`
}

type xmlNoteAttributes struct {
	Fields []xmlAttributeField `xml:",any"`
}

type xmlAttributeField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlResource struct {
	Data xmlResourceData       `xml:"data"`
	Mime string                `xml:"mime"`
	Attr xmlResourceAttributes `xml:"resource-attributes"`
}

type xmlResourceData struct {
	Encoding string `xml:"encoding,attr"`
	Hash     string `xml:"hash,attr"`
	Value    string `xml:",chardata"`
}

type xmlResourceAttributes struct {
	FileName    string `xml:"file-name"`
	AltFileName string `xml:"filename"`
	Width       string `xml:"width"`
	Height      string `xml:"height"`
}
