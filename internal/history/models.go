package history

import "time"

// SessionStatus describes the lifecycle of one migration run.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Counters aggregates per-session classification counts.
type Counters struct {
	Total            int `json:"total"`
	New              int `json:"new"`
	Updated          int `json:"updated"`
	SkippedDuplicate int `json:"skipped_duplicate"`
}

// Session records one migration run over a set of bundles.
type Session struct {
	SessionID string        `json:"session_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Source    string        `json:"source_descriptor,omitempty"`
	Status    SessionStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
	Counters  Counters      `json:"counters"`
}

// NoteRecord is the live entry for one migrated note.
type NoteRecord struct {
	NoteID      string    `json:"note_id"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash"`
	OutputPath  string    `json:"output_path"`
	ProcessedAt time.Time `json:"processed_at"`
	SessionID   string    `json:"session_id"`
	IsUpdate    bool      `json:"is_update"`
	ByteSize    int64     `json:"byte_size"`
}

// DeletionRecord marks a note removed from the source archive.
type DeletionRecord struct {
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deleted_at"`
	SessionID string    `json:"session_id"`
}

// History is the persisted migration state for one vault root. Exactly one
// History exists per vault at a time; all mutation goes through Tracker
// methods so the identity/fingerprint separation stays enforceable.
type History struct {
	Sessions      []Session                 `json:"sessions"`
	Notes         map[string]NoteRecord     `json:"notes"`
	Deleted       map[string]DeletionRecord `json:"deleted"`
	LastSessionID string                    `json:"last_session_id,omitempty"`
}

// NewHistory returns an empty history ready for use.
func NewHistory() *History {
	return &History{
		Notes:   make(map[string]NoteRecord),
		Deleted: make(map[string]DeletionRecord),
	}
}

// normalize repairs nil maps after JSON decoding.
func (h *History) normalize() {
	if h.Notes == nil {
		h.Notes = make(map[string]NoteRecord)
	}
	if h.Deleted == nil {
		h.Deleted = make(map[string]DeletionRecord)
	}
}

// currentSession returns the session matching LastSessionID, or nil.
func (h *History) currentSession() *Session {
	if h.LastSessionID == "" {
		return nil
	}
	for i := range h.Sessions {
		if h.Sessions[i].SessionID == h.LastSessionID {
			return &h.Sessions[i]
		}
	}
	return nil
}
