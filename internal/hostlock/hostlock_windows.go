//go:build windows

package hostlock

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

// Lock is a held claim on the named mutex. Release is idempotent.
type Lock struct {
	handle windows.Handle
	held   bool
}

// Acquire claims the named mutex, waiting up to timeout. A nil Lock with a
// nil error means the wait timed out and the caller proceeds without the
// lock. An abandoned mutex counts as acquired: the previous holder died and
// the spawn slot is ours.
func Acquire(name string, timeout time.Duration) (*Lock, error) {
	name16, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("encoding mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, true, name16)
	if err == nil {
		return &Lock{handle: handle, held: true}, nil
	}
	if !errors.Is(err, windows.ERROR_ALREADY_EXISTS) || handle == 0 {
		return nil, fmt.Errorf("creating mutex: %w", err)
	}

	// The mutex exists and someone else requested initial ownership; wait
	// for them to release it.
	event, err := windows.WaitForSingleObject(handle, uint32(timeout.Milliseconds()))
	if err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("waiting for mutex: %w", err)
	}
	switch event {
	case windows.WAIT_OBJECT_0, windows.WAIT_ABANDONED:
		return &Lock{handle: handle, held: true}, nil
	default:
		windows.CloseHandle(handle)
		return nil, nil
	}
}

// Release drops the lock. Safe to call more than once.
func (l *Lock) Release() {
	if l == nil || !l.held {
		return
	}
	l.held = false
	_ = windows.ReleaseMutex(l.handle)
	_ = windows.CloseHandle(l.handle)
}

// Held reports whether the lock is currently held.
func (l *Lock) Held() bool {
	return l != nil && l.held
}
