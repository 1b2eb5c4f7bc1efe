package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"notemill/internal/fileutil"
	"notemill/internal/logging"
)

// HistoryFileName is the fixed name of the history document under the
// vault root.
const HistoryFileName = ".migration_history.json"

const lockFileName = ".migration_history.lock"

// ErrLocked is returned when another process holds the history lock.
var ErrLocked = errors.New("migration history is locked by another process")

// Store reads and writes the history document for one vault root. The
// advisory lock covers the full load-mutate-persist cycle; callers hold it
// for the lifetime of a Tracker.
type Store struct {
	vaultDir string
	path     string
	lock     *flock.Flock
	logger   *slog.Logger
}

// NewStore prepares a store rooted at vaultDir. Nothing is read or locked
// until Lock and Load are called.
func NewStore(vaultDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		vaultDir: vaultDir,
		path:     filepath.Join(vaultDir, HistoryFileName),
		lock:     flock.New(filepath.Join(vaultDir, lockFileName)),
		logger:   logger,
	}
}

// VaultDir returns the vault root the store is bound to.
func (s *Store) VaultDir() string { return s.vaultDir }

// Path returns the location of the history document.
func (s *Store) Path() string { return s.path }

// Lock acquires the advisory lock without blocking. A held lock means a
// second tracker is operating on the same vault, which is unsupported.
func (s *Store) Lock() error {
	if err := os.MkdirAll(s.vaultDir, 0o755); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}
	acquired, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire history lock: %w", err)
	}
	if !acquired {
		return ErrLocked
	}
	return nil
}

// Unlock releases the advisory lock.
func (s *Store) Unlock() error {
	return s.lock.Unlock()
}

// Load reads the history document. A missing file yields an empty history.
// A corrupt file is logged and replaced with an empty history so that a
// damaged record never blocks migration.
func (s *Store) Load() (*History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewHistory(), nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	hist := NewHistory()
	if err := json.Unmarshal(data, hist); err != nil {
		s.logger.Warn("history document is corrupt, starting from empty history",
			logging.String("path", s.path),
			logging.Error(err))
		return NewHistory(), nil
	}
	hist.normalize()
	return hist, nil
}

// Persist writes the full history document atomically.
func (s *Store) Persist(hist *History) error {
	data, err := json.MarshalIndent(hist, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
