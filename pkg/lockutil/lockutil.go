// Package lockutil enforces single-instance execution of an application via
// an advisory lock file.
package lockutil

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const (
	// DefaultDir is where lock files are stored unless --lock-dir says
	// otherwise.
	DefaultDir = "/tmp"

	// DefaultTimeout is how long Acquire waits for a contended lock before
	// giving up.
	DefaultTimeout = 2 * time.Second

	retryInterval = 100 * time.Millisecond
)

// ErrHeld indicates that another process holds the lock.
var ErrHeld = errors.New("lock is held by another process")

// Lock is an acquired advisory file lock.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the lock file named after the application in the given
// directory. It retries for the given timeout (DefaultTimeout if zero) and
// fails with an error wrapping ErrHeld if the lock stays contended.
func Acquire(dir, name string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	path := filepath.Join(dir, name+".lock")
	fl := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrapf(ErrHeld, "lock file %s", path)
		}
		return nil, errors.Wrapf(err, "failed to acquire lock file %s", path)
	}
	if !locked {
		return nil, errors.Wrapf(ErrHeld, "lock file %s", path)
	}

	return &Lock{path: path, fl: fl}, nil
}

// Path returns the location of the lock file.
func (l *Lock) Path() string {
	return l.path
}

// Release gives up the lock. The lock file itself stays around; it is only
// an advisory marker.
func (l *Lock) Release() error {
	return errors.Wrapf(l.fl.Unlock(), "failed to release lock file %s", l.path)
}
