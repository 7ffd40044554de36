// Package store persists terminal buffer snapshots to the local
// filesystem, one JSON file per owner key. Writes are atomic so a
// snapshot file is never left half-written.
package store

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/termdock/termdock/internal/errors"
	"github.com/termdock/termdock/internal/logging"
	"github.com/termdock/termdock/internal/term"
)

// ErrCorrupted indicates a snapshot file could not be decoded.
var ErrCorrupted = errors.New("snapshot file is corrupted")

// snapshotExt is the file extension for snapshot files.
const snapshotExt = ".json"

// Snapshot is a persisted buffer state together with its owner and the
// time it was written.
type Snapshot struct {
	// OwnerKey identifies the terminal the snapshot belongs to.
	OwnerKey string `json:"owner_key"`

	// Buffer is the captured terminal state.
	Buffer term.BufferState `json:"buffer"`

	// SavedAt records when the snapshot was written to disk.
	SavedAt time.Time `json:"saved_at"`
}

// Store reads and writes snapshots under a base directory. All methods
// are safe for concurrent use.
type Store struct {
	baseDir string
	logger  *logging.Logger
	mu      sync.RWMutex
}

// NewStore creates a store rooted at baseDir, creating the directory
// if needed.
func NewStore(baseDir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create snapshot directory")
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Store{
		baseDir: baseDir,
		logger:  logger.WithComponent("store"),
	}, nil
}

// BaseDir returns the directory snapshots are stored in.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Save writes the buffer state for ownerKey, replacing any previous
// snapshot.
func (s *Store) Save(ctx context.Context, ownerKey string, st term.BufferState) error {
	if ownerKey == "" {
		return errors.NewValidationError("owner key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		OwnerKey: ownerKey,
		Buffer:   st,
		SavedAt:  time.Now(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	if err := atomicWriteFile(s.keyToPath(ownerKey), data, 0o644); err != nil {
		return err
	}

	s.logger.Debug("snapshot saved",
		"owner_key", ownerKey,
		"size_bytes", st.SizeBytes)
	return nil
}

// Load reads the snapshot for ownerKey. It fails with a NotFoundError
// when none exists and ErrCorrupted when the file does not decode.
func (s *Store) Load(ctx context.Context, ownerKey string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readSnapshot(ownerKey)
}

// Delete removes the snapshot for ownerKey.
func (s *Store) Delete(ctx context.Context, ownerKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToPath(ownerKey)); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("snapshot", ownerKey)
		}
		return errors.Wrap(err, "failed to delete snapshot")
	}

	s.logger.Debug("snapshot deleted", "owner_key", ownerKey)
	return nil
}

// Exists reports whether a snapshot is stored for ownerKey.
func (s *Store) Exists(ctx context.Context, ownerKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.keyToPath(ownerKey))
	return err == nil
}

// List returns every stored snapshot, sorted by owner key. Files that
// do not decode are skipped with a warning rather than failing the
// whole listing.
func (s *Store) List(ctx context.Context) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read snapshot directory")
	}

	var snaps []*Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		ownerKey, err := url.PathUnescape(strings.TrimSuffix(entry.Name(), snapshotExt))
		if err != nil {
			s.logger.Warn("skipping snapshot with unreadable name", "file", entry.Name())
			continue
		}
		snap, err := s.readSnapshot(ownerKey)
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot",
				"owner_key", ownerKey,
				"error", err.Error())
			continue
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].OwnerKey < snaps[j].OwnerKey
	})
	return snaps, nil
}

// PruneResult reports what a Prune pass removed.
type PruneResult struct {
	// Pruned holds the owner keys whose snapshots were older than the
	// cutoff.
	Pruned []string

	// Corrupt holds the file names removed because they did not decode.
	Corrupt []string
}

// Prune removes snapshot files that no longer decode, plus any snapshot
// older than olderThan when it is positive. Healthy snapshots within the
// window are untouched.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (*PruneResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &PruneResult{}, nil
		}
		return nil, errors.Wrap(err, "failed to read snapshot directory")
	}

	result := &PruneResult{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())

		ownerKey, err := url.PathUnescape(strings.TrimSuffix(entry.Name(), snapshotExt))
		if err != nil {
			if err := os.Remove(path); err != nil {
				return nil, errors.Wrap(err, "failed to remove snapshot "+entry.Name())
			}
			result.Corrupt = append(result.Corrupt, entry.Name())
			s.logger.Warn("removed snapshot with unreadable name", "file", entry.Name())
			continue
		}

		snap, err := s.readSnapshot(ownerKey)
		if err != nil {
			if err := os.Remove(path); err != nil {
				return nil, errors.Wrap(err, "failed to remove snapshot "+entry.Name())
			}
			result.Corrupt = append(result.Corrupt, entry.Name())
			s.logger.Warn("removed corrupt snapshot", "owner_key", ownerKey)
			continue
		}

		if olderThan > 0 && time.Since(snap.SavedAt) > olderThan {
			if err := os.Remove(path); err != nil {
				return nil, errors.Wrap(err, "failed to remove snapshot "+entry.Name())
			}
			result.Pruned = append(result.Pruned, ownerKey)
			s.logger.Info("pruned old snapshot",
				"owner_key", ownerKey,
				"saved_at", snap.SavedAt.Format(time.RFC3339))
		}
	}

	sort.Strings(result.Pruned)
	sort.Strings(result.Corrupt)
	return result, nil
}

// readSnapshot loads and decodes one snapshot file. Caller must hold
// at least the read lock.
func (s *Store) readSnapshot(ownerKey string) (*Snapshot, error) {
	data, err := os.ReadFile(s.keyToPath(ownerKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("snapshot", ownerKey)
		}
		return nil, errors.Wrap(err, "failed to read snapshot")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(ErrCorrupted, "invalid snapshot for "+ownerKey)
	}
	return &snap, nil
}

// keyToPath returns the snapshot file path for an owner key. Keys are
// escaped so separators and other path characters cannot leave the
// base directory.
func (s *Store) keyToPath(ownerKey string) string {
	return filepath.Join(s.baseDir, url.PathEscape(ownerKey)+snapshotExt)
}

// atomicWriteFile writes data to a temporary file in the target's
// directory and renames it into place, so the target is never seen
// partially written.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to sync temp file")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return errors.Wrap(err, "failed to set permissions")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "failed to rename temp file")
	}

	success = true
	return nil
}
