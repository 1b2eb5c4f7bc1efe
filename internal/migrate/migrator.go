package migrate

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"notemill/internal/config"
	"notemill/internal/enex"
	"notemill/internal/fileutil"
	"notemill/internal/history"
	"notemill/internal/logging"
	"notemill/internal/markdown"
	"notemill/internal/organizer"
	"notemill/internal/services"
)

// Summary reports the outcome of one migration run.
type Summary struct {
	SessionID   string
	Bundles     int
	Counters    history.Counters
	Attachments int
	Errors      int
	Removed     []string
	Duration    time.Duration
}

// Migrator wires the pipeline stages together for one vault.
type Migrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	parser   *enex.Parser
	renderer *markdown.Renderer
	alloc    *organizer.Allocator
	tracker  *history.Tracker

	// full discards the loaded history so every note classifies as new.
	full bool
}

// New constructs a migrator and takes the vault's history lock. Callers must
// Close the migrator to release it.
func New(cfg *config.Config, logger *slog.Logger, full bool) (*Migrator, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "migrate", "new", "nil config", nil)
	}
	store := history.NewStore(cfg.Paths.VaultDir, logger)
	tracker, err := history.NewTracker(store, logger)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "migrate", "open history", "cannot take history lock", err)
	}

	m := &Migrator{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "migrate"),
		parser:   enex.NewParser(logger),
		renderer: markdown.NewRenderer(rendererOptions(cfg), logger),
		alloc: organizer.NewAllocator(organizer.Options{
			VaultDir:          cfg.Paths.VaultDir,
			Mode:              cfg.Organization.Mode,
			DateFolderFormat:  cfg.Organization.DateFolderFormat,
			CollisionPolicy:   cfg.Organization.CollisionPolicy,
			MaxFilenameLength: cfg.Organization.MaxFilenameLength,
			Placeholder:       cfg.Organization.SanitizePlaceholder,
			AttachmentFolder:  cfg.Conversion.AttachmentFolder,
		}, logger),
		tracker: tracker,
		full:    full || !cfg.Sync.Enabled,
	}
	return m, nil
}

// Close releases the history lock.
func (m *Migrator) Close() error {
	return m.tracker.Close()
}

// Tracker exposes the underlying history tracker for status reporting and
// maintenance commands.
func (m *Migrator) Tracker() *history.Tracker {
	return m.tracker
}

func rendererOptions(cfg *config.Config) markdown.Options {
	return markdown.Options{
		AttachmentFolder: cfg.Conversion.AttachmentFolder,
		DateFormat:       cfg.Conversion.DateFormat,
		SourceLabel:      cfg.Conversion.SourceLabel,
		Fields: markdown.FieldSet{
			Title:           cfg.Metadata.Title,
			Created:         cfg.Metadata.Created,
			Updated:         cfg.Metadata.Updated,
			Tags:            cfg.Metadata.Tags,
			Notebook:        cfg.Metadata.Notebook,
			Source:          cfg.Metadata.Source,
			Author:          cfg.Metadata.Author,
			SourceURL:       cfg.Metadata.SourceURL,
			AttachmentCount: cfg.Metadata.AttachmentCount,
		},
	}
}

// Run migrates the given bundles into the vault and returns the session
// summary. A context cancellation between notes stops the run cleanly; the
// note being considered is neither written nor recorded.
func (m *Migrator) Run(ctx context.Context, bundles []string) (*Summary, error) {
	started := time.Now()
	if m.full {
		m.tracker.Reset()
	}

	source := sourceDescriptor(bundles)
	sessionID := m.tracker.StartSession(source)
	ctx = services.WithSessionID(ctx, sessionID)
	logger := logging.WithContext(ctx, m.logger)

	summary := &Summary{SessionID: sessionID, Bundles: len(bundles)}
	currentIDs := make(map[string]struct{})
	knownPaths := make(map[string]struct{})
	usedAttachments := make(map[string]struct{})
	indexes := make(map[string]*organizer.IndexBuilder)

	var runErr error
	for _, bundle := range bundles {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := m.runBundle(ctx, bundle, summary, currentIDs, knownPaths, usedAttachments, indexes); err != nil {
			if ctx.Err() != nil {
				runErr = ctx.Err()
				break
			}
			// Malformed bundles abort only the bundle.
			summary.Errors++
			logger.Error("bundle failed", logging.String("bundle", bundle), logging.Error(err))
		}
	}

	if runErr == nil && m.cfg.Sync.Enabled && m.cfg.Sync.ReconcileDeletions && !m.full {
		removed, err := m.tracker.Reconcile(currentIDs)
		summary.Removed = removed
		if err != nil {
			runErr = services.Wrap(services.ErrPersistence, "migrate", "reconcile", "deletion reconciliation failed", err)
		}
	}

	if runErr == nil && m.cfg.Organization.WriteIndex {
		if err := m.writeIndexes(indexes); err != nil {
			logger.Warn("index document write failed", logging.Error(err))
			summary.Errors++
		}
	}

	counters, finishErr := m.tracker.FinishSession(runErr == nil, runErr)
	summary.Counters = counters
	summary.Duration = time.Since(started)
	if runErr == nil && finishErr != nil {
		runErr = services.Wrap(services.ErrPersistence, "migrate", "finish session", "history persist failed", finishErr)
	}

	logger.Info("migration run finished",
		logging.Int("bundles", summary.Bundles),
		logging.Int("total", counters.Total),
		logging.Int("new", counters.New),
		logging.Int("updated", counters.Updated),
		logging.Int("skipped", counters.SkippedDuplicate),
		logging.Int("errors", summary.Errors),
		logging.Int("removed", len(summary.Removed)),
		logging.Duration("duration", summary.Duration))

	return summary, runErr
}

func (m *Migrator) runBundle(
	ctx context.Context,
	bundle string,
	summary *Summary,
	currentIDs, knownPaths, usedAttachments map[string]struct{},
	indexes map[string]*organizer.IndexBuilder,
) error {
	ctx = services.WithBundle(ctx, filepath.Base(bundle))
	logger := logging.WithContext(ctx, m.logger)

	notes, notebook, err := m.parser.ParseFile(bundle)
	if err != nil {
		return services.Wrap(services.ErrMalformedBundle, "parse", "decode", "bundle cannot be parsed", err)
	}
	logger.Info("bundle parsed",
		logging.String("notebook", notebook),
		logging.Int("notes", len(notes)))

	for i := range notes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.processNote(ctx, notes[i], summary, currentIDs, knownPaths, usedAttachments, indexes); err != nil {
			if !services.Recoverable(err) {
				return err
			}
			summary.Errors++
			m.tracker.MarkSkipped(notes[i], "note failed: "+err.Error())
			logger.Warn("note failed, continuing",
				logging.String("title", notes[i].Title),
				logging.Error(err))
		}
	}
	return nil
}

func (m *Migrator) processNote(
	ctx context.Context,
	note enex.Note,
	summary *Summary,
	currentIDs, knownPaths, usedAttachments map[string]struct{},
	indexes map[string]*organizer.IndexBuilder,
) error {
	noteID := history.NoteID(note)
	currentIDs[noteID] = struct{}{}
	ctx = services.WithNoteID(ctx, noteID)
	logger := logging.WithContext(ctx, m.logger)

	decision := m.tracker.ShouldProcess(note)
	if !decision.Process {
		m.tracker.MarkSkipped(note, decision.Reason)
		return nil
	}

	var rel string
	if decision.IsUpdate && decision.ExistingPath != "" {
		rel = decision.ExistingPath
	} else {
		var skip bool
		rel, skip = m.alloc.Allocate(note, knownPaths)
		if skip {
			m.tracker.MarkSkipped(note, "output path occupied")
			return nil
		}
	}

	if m.cfg.Conversion.SaveAttachments {
		summary.Attachments += m.writeAttachments(logger, note, usedAttachments)
	}

	text := m.renderer.Render(note)
	full := filepath.Join(m.cfg.Paths.VaultDir, rel)
	if err := fileutil.WriteFileAtomic(full, []byte(text), 0o644); err != nil {
		return services.Wrap(services.ErrNote, "write", "persist note", "output write failed", err)
	}
	m.tracker.MarkProcessed(note, rel, int64(len(text)), decision.IsUpdate)

	builder, ok := indexes[note.Notebook]
	if !ok {
		builder = organizer.NewIndexBuilder(note.Notebook)
		indexes[note.Notebook] = builder
	}
	builder.Add(note.Title, rel, note.Tags)

	logger.Info("note migrated",
		logging.String("title", note.Title),
		logging.String("path", rel),
		logging.String("reason", decision.Reason))
	return nil
}

// writeAttachments persists decoded resources. A failed resource is logged
// and skipped; the note still migrates.
func (m *Migrator) writeAttachments(logger *slog.Logger, note enex.Note, used map[string]struct{}) int {
	written := 0
	for _, res := range note.Resources {
		if len(res.Data) == 0 {
			continue
		}
		rel := m.alloc.AttachmentPath(res.Filename, used)
		full := filepath.Join(m.cfg.Paths.VaultDir, rel)
		if err := fileutil.WriteFileAtomic(full, res.Data, 0o644); err != nil {
			logger.Warn("attachment write failed, skipping resource",
				logging.String("file", res.Filename),
				logging.Error(err))
			continue
		}
		written++
	}
	return written
}

func (m *Migrator) writeIndexes(indexes map[string]*organizer.IndexBuilder) error {
	now := time.Now()
	for _, builder := range indexes {
		if builder.Empty() {
			continue
		}
		name := builder.FileName(m.cfg.Organization.SanitizePlaceholder)
		full := filepath.Join(m.cfg.Paths.VaultDir, name)
		if err := fileutil.WriteFileAtomic(full, []byte(builder.Render(now)), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func sourceDescriptor(bundles []string) string {
	names := make([]string, 0, len(bundles))
	for _, b := range bundles {
		names = append(names, filepath.Base(b))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
