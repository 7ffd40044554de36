// Package lock guards the data directory so only one dashboard process
// manages a given set of terminals and snapshots at a time.
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/termdock/termdock/internal/errors"
	"github.com/termdock/termdock/internal/logging"
)

// FileName is the name of the lock file within the data directory.
const FileName = "termdock.lock"

// ErrAlreadyRunning is returned when another live process holds the lock.
var ErrAlreadyRunning = errors.New("another termdock instance is running")

// Lock represents an acquired data-directory lock.
type Lock struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartedAt time.Time `json:"started_at"`

	path   string
	logger *logging.Logger
}

// Acquire takes an exclusive lock on dir, creating it if needed. It returns
// ErrAlreadyRunning when a live process holds the lock; a lock left behind
// by a dead process is removed and re-acquired.
func Acquire(dir string, logger *logging.Logger) (*Lock, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("lock")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dir, FileName)

	if held, err := Read(path); err == nil {
		if processAlive(held.PID) {
			logger.Error("lock held by live process", "pid", held.PID, "hostname", held.Hostname)
			return nil, fmt.Errorf("%w (PID %d on %s)", ErrAlreadyRunning, held.PID, held.Hostname)
		}
		oldPID := held.PID
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", err)
		}
		logger.Warn("stale lock cleaned", "old_pid", oldPID)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	l := &Lock{
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartedAt: time.Now(),
		path:      path,
		logger:    logger,
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	// O_EXCL closes the race between the liveness check and the write.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			if held, readErr := Read(path); readErr == nil {
				return nil, fmt.Errorf("%w (PID %d on %s)", ErrAlreadyRunning, held.PID, held.Hostname)
			}
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	logger.Info("data directory locked", "pid", l.PID, "dir", dir)
	return l, nil
}

// Release removes the lock file. Safe to call more than once; it leaves the
// file alone when another process has taken the lock over.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}

	held, err := Read(l.path)
	if err != nil {
		return nil
	}
	if held.PID != l.PID {
		return nil
	}

	if err := os.Remove(l.path); err != nil {
		return err
	}
	if l.logger != nil {
		l.logger.Info("data directory unlocked", "pid", l.PID)
	}
	return nil
}

// Read decodes the lock file at path.
func Read(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var l Lock
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	l.path = path
	return &l, nil
}

// IsLocked reports whether dir is held by a live process, returning the lock
// info when it is.
func IsLocked(dir string) (*Lock, bool) {
	l, err := Read(filepath.Join(dir, FileName))
	if err != nil {
		return nil, false
	}
	if !processAlive(l.PID) {
		return l, false
	}
	return l, true
}

// CleanStale removes the lock file when its owning process is gone. It
// reports whether a stale lock was removed.
func CleanStale(dir string, logger *logging.Logger) (bool, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	path := filepath.Join(dir, FileName)

	l, err := Read(path)
	if err != nil {
		return false, nil
	}
	if processAlive(l.PID) {
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove stale lock: %w", err)
	}
	logger.WithComponent("lock").Warn("stale lock cleaned", "old_pid", l.PID)
	return true, nil
}

// processAlive checks for the process with signal 0, which tests
// existence without delivering anything.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
