package pipeline

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"

	"filmtrend/internal/config"
)

// ErrRunInProgress indicates another process holds the run lock.
var ErrRunInProgress = errors.New("another filmtrend run is already in progress")

// RunLock serializes pipeline runs across processes via a lock file in the
// data directory.
type RunLock struct {
	lock *flock.Flock
}

// AcquireRunLock takes the run lock or fails fast when it is held.
func AcquireRunLock(cfg *config.Config) (*RunLock, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return &RunLock{lock: lock}, nil
}

// Release drops the lock. Safe on a nil receiver.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
