package markdown

import (
	"log/slog"
	"strings"

	"notemill/internal/enex"
	"notemill/internal/logging"
)

// FieldSet controls which metadata header fields are emitted. Each field is
// independently toggleable; when none is enabled the document is body-only.
type FieldSet struct {
	Title           bool
	Created         bool
	Updated         bool
	Tags            bool
	Notebook        bool
	Source          bool
	Author          bool
	SourceURL       bool
	AttachmentCount bool
}

// Any reports whether at least one field is enabled.
func (f FieldSet) Any() bool {
	return f.Title || f.Created || f.Updated || f.Tags || f.Notebook ||
		f.Source || f.Author || f.SourceURL || f.AttachmentCount
}

// Options configures the renderer. The zero value disables the metadata
// header and routes images through the "attachments" folder.
type Options struct {
	// AttachmentFolder is the fixed folder name image embeds are routed
	// through during post-processing.
	AttachmentFolder string
	// Fields selects the metadata header fields.
	Fields FieldSet
	// DateFormat is the Go layout for created/updated header values.
	DateFormat string
	// SourceLabel is the value of the "source" header field.
	SourceLabel string
}

const (
	defaultAttachmentFolder = "attachments"
	defaultDateFormat       = "2006-01-02 15:04:05"
	defaultSourceLabel      = "Evernote"
)

// Renderer converts notes into Markdown documents. It holds no mutable state
// and is safe to reuse across notes.
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer constructs a renderer with normalized options.
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	if strings.TrimSpace(opts.AttachmentFolder) == "" {
		opts.AttachmentFolder = defaultAttachmentFolder
	}
	if strings.TrimSpace(opts.DateFormat) == "" {
		opts.DateFormat = defaultDateFormat
	}
	if strings.TrimSpace(opts.SourceLabel) == "" {
		opts.SourceLabel = defaultSourceLabel
	}
	return &Renderer{opts: opts, logger: logging.NewComponentLogger(logger, "renderer")}
}

// Render produces the full document for a note: optional metadata header
// followed by the converted body. It never returns an error; unrenderable
// markup degrades to plain-text extraction.
func (r *Renderer) Render(note enex.Note) string {
	body := r.RenderBody(note)
	header := RenderHeader(note, r.opts.Fields, r.opts.DateFormat, r.opts.SourceLabel)
	if header == "" {
		return body
	}
	return "---\n" + header + "\n---\n\n" + body
}

// RenderBody converts the note body without a metadata header.
func (r *Renderer) RenderBody(note enex.Note) string {
	prepared := Preprocess(note.Content)

	converted, err := Transform(prepared)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("markup transform failed, extracting plain text",
				logging.String("note", note.Title),
				logging.Error(err),
			)
		}
		converted = ExtractPlainText(note.Content)
	}

	return Postprocess(converted, r.opts.AttachmentFolder)
}
