package organizer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"notemill/internal/enex"
	"notemill/internal/fileutil"
	"notemill/internal/logging"
	"notemill/internal/textutil"
)

// Collision policies.
const (
	CollisionRename    = "rename"
	CollisionSkip      = "skip"
	CollisionOverwrite = "overwrite"
)

// Layout modes.
const (
	ModeNotebook = "notebook"
	ModeTag      = "tag"
	ModeDate     = "date"
	ModeFlat     = "flat"
)

// Options describes allocator construction parameters.
type Options struct {
	VaultDir          string
	Mode              string
	DateFolderFormat  string
	CollisionPolicy   string
	MaxFilenameLength int
	Placeholder       string
	AttachmentFolder  string
}

// Allocator resolves vault-relative output paths for notes and attachments.
type Allocator struct {
	opts   Options
	logger *slog.Logger
}

// NewAllocator constructs an allocator. Zero-value options fall back to the
// notebook layout with the rename policy.
func NewAllocator(opts Options, logger *slog.Logger) *Allocator {
	if opts.Mode == "" {
		opts.Mode = ModeNotebook
	}
	if opts.DateFolderFormat == "" {
		opts.DateFolderFormat = "2006/01"
	}
	if opts.CollisionPolicy == "" {
		opts.CollisionPolicy = CollisionRename
	}
	if opts.MaxFilenameLength <= 0 {
		opts.MaxFilenameLength = 100
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "_"
	}
	if opts.AttachmentFolder == "" {
		opts.AttachmentFolder = "attachments"
	}
	return &Allocator{opts: opts, logger: logging.NewComponentLogger(logger, "organizer")}
}

// FolderFor returns the vault-relative folder for a note under the configured
// layout mode. Flat mode returns the empty string (vault root).
func (a *Allocator) FolderFor(note enex.Note) string {
	switch a.opts.Mode {
	case ModeTag:
		for _, tag := range note.Tags {
			if strings.TrimSpace(tag) != "" {
				return textutil.SanitizeName(tag, a.opts.Placeholder)
			}
		}
		return "untagged"
	case ModeDate:
		// Folder date priority: created, then updated, then the current time.
		when := note.Created
		if when.IsZero() {
			when = note.Updated
		}
		if when.IsZero() {
			when = time.Now()
		}
		segments := strings.Split(when.Format(a.opts.DateFolderFormat), "/")
		for i, seg := range segments {
			segments[i] = textutil.SanitizeName(seg, a.opts.Placeholder)
		}
		return filepath.Join(segments...)
	case ModeFlat:
		return ""
	default:
		if strings.TrimSpace(note.Notebook) == "" {
			return "untitled"
		}
		return textutil.SanitizeName(note.Notebook, a.opts.Placeholder)
	}
}

// Allocate resolves the vault-relative path for a new note and reserves it in
// known. The second return is true when the collision policy is "skip" and a
// file already occupies the path.
func (a *Allocator) Allocate(note enex.Note, known map[string]struct{}) (string, bool) {
	folder := a.FolderFor(note)
	name := textutil.SanitizeName(note.Title, a.opts.Placeholder) + ".md"
	name = textutil.TruncateName(name, a.opts.MaxFilenameLength)

	candidate := filepath.Join(folder, name)
	switch a.opts.CollisionPolicy {
	case CollisionOverwrite:
		// fall through with the first candidate
	case CollisionSkip:
		if a.taken(candidate, known) {
			a.logger.Debug("path occupied, skipping note",
				logging.String("title", note.Title),
				logging.String("path", candidate))
			return candidate, true
		}
	default:
		candidate = a.renameUntilFree(folder, name, known)
	}

	if known != nil {
		known[candidate] = struct{}{}
	}
	return candidate, false
}

// AttachmentPath resolves a vault-relative path for an attachment file,
// renaming on collisions with previously used names.
func (a *Allocator) AttachmentPath(filename string, used map[string]struct{}) string {
	name := textutil.SanitizeName(filename, a.opts.Placeholder)
	name = textutil.TruncateName(name, a.opts.MaxFilenameLength)
	candidate := filepath.Join(a.opts.AttachmentFolder, name)
	if a.taken(candidate, used) {
		candidate = a.renameUntilFree(a.opts.AttachmentFolder, name, used)
	}
	if used != nil {
		used[candidate] = struct{}{}
	}
	return candidate
}

// AttachmentFolder returns the configured attachment subfolder.
func (a *Allocator) AttachmentFolder() string {
	return a.opts.AttachmentFolder
}

func (a *Allocator) taken(rel string, known map[string]struct{}) bool {
	if known != nil {
		if _, ok := known[rel]; ok {
			return true
		}
	}
	return fileutil.FileExists(filepath.Join(a.opts.VaultDir, rel))
}

// renameUntilFree appends _N with the smallest free N when the base name is
// already taken.
func (a *Allocator) renameUntilFree(folder, name string, known map[string]struct{}) string {
	candidate := filepath.Join(folder, name)
	if !a.taken(candidate, known) {
		return candidate
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		suffix := fmt.Sprintf("_%d", n)
		trimmed := stem
		if room := a.opts.MaxFilenameLength - len([]rune(suffix)) - len([]rune(ext)); len([]rune(trimmed)) > room && room > 0 {
			trimmed = string([]rune(trimmed)[:room])
		}
		candidate = filepath.Join(folder, trimmed+suffix+ext)
		if !a.taken(candidate, known) {
			return candidate
		}
	}
}
