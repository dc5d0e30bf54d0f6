// Package filelock guards an output root against concurrent jsveil
// processes and provides the staged temp-file writes behind atomic commits.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/zeebo/xxh3"
)

// ErrRootLocked is returned when another process holds the lock for a root.
var ErrRootLocked = errors.New("output root is locked by another process")

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock on the file, blocking until the lock is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock on the file without blocking.
// Returns true if the lock was acquired, false if the lock is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// RootLockPath returns the lock file used for root. Lock files live in
// lockDir (os.TempDir() when empty), never inside the root itself, and are
// named after the xxh3 digest of the cleaned absolute root.
func RootLockPath(lockDir, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	return filepath.Join(lockDir, fmt.Sprintf("jsveil-%016x.lock", xxh3.HashString(filepath.Clean(abs)))), nil
}

// LockRoot takes the non-blocking process lock for root. It fails with
// ErrRootLocked when another holder has it. Callers Unlock when done.
func LockRoot(lockDir, root string) (*FileLock, error) {
	path, err := RootLockPath(lockDir, root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := NewFileLock(path)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrRootLocked, root)
	}
	return lock, nil
}
