package history

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"notemill/internal/enex"
	"notemill/internal/fileutil"
	"notemill/internal/logging"
)

// Decision is the outcome of a should-process check for one note.
type Decision struct {
	Process bool
	Reason  string
	// IsUpdate marks a note whose identity is already tracked; the writer
	// overwrites ExistingPath instead of allocating a new one so each
	// logical note keeps at most one on-disk artifact.
	IsUpdate     bool
	ExistingPath string
}

// Stats summarizes the cumulative history for reporting.
type Stats struct {
	LiveNotes    int
	DeletedNotes int
	Sessions     []Session
	LastSession  *Session
}

// Tracker owns the migration history for one vault. It holds the store lock
// from construction until Close; all history mutation goes through its
// methods.
type Tracker struct {
	store  *Store
	hist   *History
	logger *slog.Logger

	// byHash indexes live records by content fingerprint for cross-identity
	// duplicate detection.
	byHash map[string]string
}

// NewTracker locks the vault's history store and loads the history.
func NewTracker(store *Store, logger *slog.Logger) (*Tracker, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := store.Lock(); err != nil {
		return nil, err
	}
	hist, err := store.Load()
	if err != nil {
		_ = store.Unlock()
		return nil, err
	}
	t := &Tracker{
		store:  store,
		hist:   hist,
		logger: logging.NewComponentLogger(logger, "history"),
	}
	t.rebuildIndex()
	return t, nil
}

// Close releases the store lock. The history is not persisted here; callers
// finish sessions explicitly.
func (t *Tracker) Close() error {
	return t.store.Unlock()
}

// Reset discards the loaded history in memory. A subsequent run classifies
// every note as new. The persisted document is replaced on the next persist.
func (t *Tracker) Reset() {
	t.hist = NewHistory()
	t.byHash = make(map[string]string)
	t.logger.Info("history reset, all notes will be treated as new")
}

func (t *Tracker) rebuildIndex() {
	t.byHash = make(map[string]string, len(t.hist.Notes))
	for id, rec := range t.hist.Notes {
		t.byHash[rec.ContentHash] = id
	}
}

// StartSession appends a running session and returns its id.
func (t *Tracker) StartSession(source string) string {
	id := uuid.NewString()
	t.hist.Sessions = append(t.hist.Sessions, Session{
		SessionID: id,
		StartTime: time.Now().UTC(),
		Source:    source,
		Status:    SessionRunning,
	})
	t.hist.LastSessionID = id
	t.logger.Info("migration session started",
		logging.String("session_id", id),
		logging.String("source", source))
	return id
}

// ShouldProcess classifies a note against the history. A note id found in
// the deletion set is revived before the normal new/updated/unchanged logic
// runs. Rejections carry a reason; acceptances carry the update flag and,
// for updates, the existing output path.
func (t *Tracker) ShouldProcess(note enex.Note) Decision {
	id := NoteID(note)
	hash := Fingerprint(note.Content)

	if _, wasDeleted := t.hist.Deleted[id]; wasDeleted {
		delete(t.hist.Deleted, id)
		t.logger.Info("note reappeared after deletion",
			logging.String("note_id", id),
			logging.String("title", note.Title))
	}

	if rec, ok := t.hist.Notes[id]; ok {
		if rec.ContentHash == hash {
			return Decision{Reason: "unchanged"}
		}
		return Decision{
			Process:      true,
			Reason:       "content changed",
			IsUpdate:     true,
			ExistingPath: rec.OutputPath,
		}
	}

	if otherID, ok := t.byHash[hash]; ok {
		other := t.hist.Notes[otherID]
		return Decision{Reason: fmt.Sprintf("duplicate content of %s", other.Title)}
	}

	return Decision{Process: true, Reason: "new note"}
}

// MarkProcessed commits the identity record for a written note. Call only
// after the output file write completed.
func (t *Tracker) MarkProcessed(note enex.Note, outputPath string, byteSize int64, isUpdate bool) {
	id := NoteID(note)
	hash := Fingerprint(note.Content)

	if prev, ok := t.hist.Notes[id]; ok {
		delete(t.byHash, prev.ContentHash)
	}
	t.hist.Notes[id] = NoteRecord{
		NoteID:      id,
		Title:       note.Title,
		ContentHash: hash,
		OutputPath:  outputPath,
		ProcessedAt: time.Now().UTC(),
		SessionID:   t.hist.LastSessionID,
		IsUpdate:    isUpdate,
		ByteSize:    byteSize,
	}
	t.byHash[hash] = id

	if sess := t.hist.currentSession(); sess != nil {
		sess.Counters.Total++
		if isUpdate {
			sess.Counters.Updated++
		} else {
			sess.Counters.New++
		}
	}
}

// MarkSkipped records a rejected note against the session counters.
func (t *Tracker) MarkSkipped(note enex.Note, reason string) {
	t.logger.Debug("note skipped",
		logging.String("note_id", NoteID(note)),
		logging.String("title", note.Title),
		logging.String("reason", reason))
	if sess := t.hist.currentSession(); sess != nil {
		sess.Counters.Total++
		sess.Counters.SkippedDuplicate++
	}
}

// Reconcile moves every tracked note absent from currentIDs into the
// deletion set and removes its output file. It returns the vault-relative
// paths of the removed files. The history is persisted immediately since
// the operation is destructive.
func (t *Tracker) Reconcile(currentIDs map[string]struct{}) ([]string, error) {
	var removed []string
	for id, rec := range t.hist.Notes {
		if _, ok := currentIDs[id]; ok {
			continue
		}
		full := filepath.Join(t.store.VaultDir(), filepath.FromSlash(rec.OutputPath))
		if err := fileutil.RemoveIfExists(full); err != nil {
			return removed, fmt.Errorf("remove deleted note %s: %w", rec.OutputPath, err)
		}
		t.hist.Deleted[id] = DeletionRecord{
			Title:     rec.Title,
			DeletedAt: time.Now().UTC(),
			SessionID: t.hist.LastSessionID,
		}
		delete(t.byHash, rec.ContentHash)
		delete(t.hist.Notes, id)
		removed = append(removed, rec.OutputPath)
		t.logger.Info("note removed from source, output deleted",
			logging.String("note_id", id),
			logging.String("title", rec.Title),
			logging.String("path", rec.OutputPath))
	}
	if len(removed) > 0 {
		if err := t.store.Persist(t.hist); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// SweepOrphans drops records whose output file no longer exists and returns
// the count. It is a maintenance operation independent of a session.
func (t *Tracker) SweepOrphans() (int, error) {
	dropped := 0
	for id, rec := range t.hist.Notes {
		full := filepath.Join(t.store.VaultDir(), filepath.FromSlash(rec.OutputPath))
		if fileutil.FileExists(full) {
			continue
		}
		delete(t.byHash, rec.ContentHash)
		delete(t.hist.Notes, id)
		dropped++
		t.logger.Info("dropped orphaned record",
			logging.String("note_id", id),
			logging.String("path", rec.OutputPath))
	}
	if dropped > 0 {
		if err := t.store.Persist(t.hist); err != nil {
			return dropped, err
		}
	}
	return dropped, nil
}

// FinishSession closes the running session, persists the history, and
// returns the session counters.
func (t *Tracker) FinishSession(success bool, cause error) (Counters, error) {
	sess := t.hist.currentSession()
	if sess == nil {
		return Counters{}, fmt.Errorf("no session in progress")
	}
	now := time.Now().UTC()
	sess.EndTime = &now
	if success {
		sess.Status = SessionCompleted
	} else {
		sess.Status = SessionFailed
		if cause != nil {
			sess.Error = cause.Error()
		}
	}
	if err := t.store.Persist(t.hist); err != nil {
		return sess.Counters, err
	}
	t.logger.Info("migration session finished",
		logging.String("session_id", sess.SessionID),
		logging.String("status", string(sess.Status)),
		logging.Int("total", sess.Counters.Total),
		logging.Int("new", sess.Counters.New),
		logging.Int("updated", sess.Counters.Updated),
		logging.Int("skipped", sess.Counters.SkippedDuplicate))
	return sess.Counters, nil
}

// Stats reports cumulative history figures.
func (t *Tracker) Stats() Stats {
	st := Stats{
		LiveNotes:    len(t.hist.Notes),
		DeletedNotes: len(t.hist.Deleted),
		Sessions:     append([]Session(nil), t.hist.Sessions...),
	}
	if sess := t.hist.currentSession(); sess != nil {
		copySess := *sess
		st.LastSession = &copySess
	}
	return st
}

// Records returns the live note records keyed by note id. The map is a copy;
// mutation goes through tracker methods only.
func (t *Tracker) Records() map[string]NoteRecord {
	out := make(map[string]NoteRecord, len(t.hist.Notes))
	for id, rec := range t.hist.Notes {
		out[id] = rec
	}
	return out
}
