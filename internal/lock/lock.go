// Package lock guards an output directory against concurrent runs.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
)

// FileName is the lock file created inside the output directory.
const FileName = ".evidex.lock"

// FileLock is a cross-process lock on <dir>/.evidex.lock.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// New creates a lock for dir. Nothing is touched on disk until TryLock.
func New(dir string) *FileLock {
	p := filepath.Join(dir, FileName)
	return &FileLock{path: p, flock: flock.New(p)}
}

// TryLock attempts to acquire the lock without blocking, creating dir if
// needed. It reports false when another process holds it.
func (l *FileLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. The lock file stays in place so that a waiting
// process never locks an unlinked inode. Calling it on an unlocked FileLock
// is a no-op.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Acquire locks dir or fails with ERR_209_OUTPUT_LOCKED when another run
// holds it.
func Acquire(dir string) (*FileLock, error) {
	l := New(dir)
	ok, err := l.TryLock()
	if errors.Is(err, fs.ErrPermission) {
		return nil, evxerrors.New(evxerrors.ErrCodeFilePermission,
			fmt.Sprintf("output directory is not writable: %s", dir), err).
			WithDetail("path", dir)
	}
	if err != nil {
		return nil, evxerrors.OutputError(l.path, err)
	}
	if !ok {
		return nil, evxerrors.New(evxerrors.ErrCodeOutputLocked,
			fmt.Sprintf("output directory is in use by another run: %s", dir), nil).
			WithDetail("lock", l.path).
			WithSuggestion("Wait for the other run to finish or choose a different --out-dir")
	}
	return l, nil
}
