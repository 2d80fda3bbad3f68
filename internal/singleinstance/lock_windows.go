//go:build windows

package singleinstance

import (
	"errors"
	"fmt"

	"chronify/internal/userutil"

	"golang.org/x/sys/windows"
)

// Lock is an owned Windows named mutex. The kernel abandons it if the
// process dies without Release.
type Lock struct {
	handle windows.Handle
}

// TryLock creates and owns the named mutex. If the mutex already exists
// another instance holds it and ErrAlreadyRunning is returned.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("mutex name is required")
	}
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid mutex name %q: %w", name, err)
	}

	h, err := windows.CreateMutex(nil, true, namePtr)
	switch {
	case errors.Is(err, windows.ERROR_ALREADY_EXISTS):
		closeHandle(h)
		return nil, ErrAlreadyRunning
	case err != nil:
		closeHandle(h)
		return nil, fmt.Errorf("create mutex %q: %w", name, err)
	}
	return &Lock{handle: h}, nil
}

// Release closes the handle. Mutex ownership is per thread, so the mutex is
// not released explicitly; the object goes away with its last handle.
// Nil and repeated calls are no-ops.
func (l *Lock) Release() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	h := l.handle
	l.handle = 0
	return windows.CloseHandle(h)
}

func closeHandle(h windows.Handle) {
	if h != 0 {
		_ = windows.CloseHandle(h)
	}
}

// DefaultName returns the per-user mutex name. It mirrors the activation
// pipe name so both identify the same user.
func DefaultName() string {
	return `Global\Chronify-` + userutil.CurrentUsername()
}
