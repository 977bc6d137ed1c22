//go:build linux

package hostlock

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/tern-lang/ternc/internal/paths"
)

const pollInterval = 100 * time.Millisecond

// Lock is a held claim on the advisory lock. Release is idempotent.
type Lock struct {
	file *os.File
	held bool
}

// Acquire claims the flock-backed lock for name, waiting up to timeout.
// A nil Lock with a nil error means the wait timed out and the caller
// proceeds without the lock.
func Acquire(name string, timeout time.Duration) (*Lock, error) {
	if err := paths.EnsureDir(paths.RuntimeDir()); err != nil {
		return nil, fmt.Errorf("creating runtime dir: %w", err)
	}

	path := filepath.Join(paths.RuntimeDir(), name+".lock")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &Lock{file: file, held: true}, nil
		}
		if err != unix.EWOULDBLOCK {
			file.Close()
			return nil, fmt.Errorf("locking %s: %w", path, err)
		}
		if !time.Now().Before(deadline) {
			file.Close()
			return nil, nil
		}
		time.Sleep(pollInterval)
	}
}

// Release drops the lock. Safe to call more than once.
func (l *Lock) Release() {
	if l == nil || !l.held {
		return
	}
	l.held = false
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
}

// Held reports whether the lock is currently held.
func (l *Lock) Held() bool {
	return l != nil && l.held
}
