//go:build windows

package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

const (
	wmHotkey   = 0x0312
	wmQuit     = 0x0012
	pmNoRemove = 0x0000

	// Application hotkey ids live in 0x0000..0xBFFF.
	firstHotkeyID int32 = 0x4000
	lastHotkeyID  int32 = 0xBFFF

	loopStopTimeout = 2 * time.Second
)

var hotkeyIDs atomic.Int32

func nextHotkeyID() int32 {
	for {
		cur := hotkeyIDs.Load()
		next := cur + 1
		if next < firstHotkeyID || next > lastHotkeyID {
			next = firstHotkeyID
		}
		if hotkeyIDs.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// point mirrors the Win32 POINT struct.
type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct. The layout must match on both 32-bit
// and 64-bit Windows.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

// messageLoop owns one RegisterHotKey registration. Win32 ties the
// registration and its WM_HOTKEY messages to the registering thread, so the
// loop runs on a locked OS thread from register to unregister.
type messageLoop struct {
	id       int32
	native   win32Binding
	binding  string
	onEvent  func(Event)
	threadID uint32
	done     chan struct{}
}

// Manager holds at most one global shortcut. RegisterHotKey only reports
// key-down, so every Event it delivers carries Pressed.
type Manager struct {
	mu   sync.Mutex
	loop *messageLoop
}

// NewManager creates a new hotkey manager.
func NewManager() *Manager {
	return &Manager{}
}

// Start registers spec as the global shortcut and delivers its presses to
// onEvent. Any previous registration is released first.
func (m *Manager) Start(spec string, onEvent func(Event)) error {
	if onEvent == nil {
		return errors.New("onEvent callback is required")
	}
	// LazyProc.Call panics when the DLL cannot be loaded.
	if err := user32.Load(); err != nil {
		return fmt.Errorf("user32.dll is unavailable: %w", err)
	}

	binding, err := ParseBinding(spec)
	if err != nil {
		return err
	}
	native, err := nativeBinding(binding)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.stopLocked(); err != nil {
		return err
	}

	loop := &messageLoop{
		id:      nextHotkeyID(),
		native:  native,
		binding: binding.Normalized(),
		onEvent: onEvent,
		done:    make(chan struct{}),
	}
	started := make(chan error, 1)
	go loop.run(started)
	if err := <-started; err != nil {
		return fmt.Errorf("register hotkey %q failed: %w", loop.binding, err)
	}
	m.loop = loop
	return nil
}

// Stop releases the global shortcut.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

// ActiveBinding returns the normalized chord currently registered, or "".
func (m *Manager) ActiveBinding() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loop == nil {
		return ""
	}
	return m.loop.binding
}

func (m *Manager) stopLocked() error {
	loop := m.loop
	if loop == nil {
		return nil
	}
	m.loop = nil

	stopErr := loop.postQuit()
	select {
	case <-loop.done:
	case <-time.After(loopStopTimeout):
		slog.Warn("[hotkey] message loop did not exit, thread may leak", "binding", loop.binding, "hotkeyID", loop.id)
		stopErr = errors.Join(stopErr, fmt.Errorf("hotkey loop stop timed out (binding=%s)", loop.binding))
	}
	return stopErr
}

// run registers the hotkey and pumps the thread queue until WM_QUIT.
// The registration outcome is reported once on started.
func (l *messageLoop) run(started chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	l.threadID = windows.GetCurrentThreadId()

	// Peeking creates the thread message queue so postQuit can reach it.
	var peek winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&peek)), 0, 0, 0, pmNoRemove)

	if err := callBool(procRegisterHotKey, 0, uintptr(l.id), uintptr(l.native.modifiers|modNoRepeat), uintptr(l.native.key)); err != nil {
		started <- err
		return
	}
	defer func() {
		if err := callBool(procUnregisterHotKey, 0, uintptr(l.id)); err != nil {
			slog.Error("[hotkey] UnregisterHotKey failed", "binding", l.binding, "error", err)
		}
	}()
	started <- nil
	slog.Debug("[hotkey] registered", "binding", l.binding, "hotkeyID", l.id)

	for {
		var msg winMsg
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			slog.Warn("[hotkey] GetMessageW failed, stopping loop", "binding", l.binding, "error", callErr)
			return
		case 0:
			return // WM_QUIT
		}
		if msg.message == wmHotkey && int32(msg.wParam) == l.id {
			go l.onEvent(Event{Binding: l.binding, State: Pressed})
		}
	}
}

func (l *messageLoop) postQuit() error {
	if l.threadID == 0 {
		return errors.New("hotkey loop has no thread id")
	}
	return callBool(procPostThreadMessageW, uintptr(l.threadID), wmQuit, 0, 0)
}

// callBool invokes a Win32 BOOL function and maps FALSE to an error.
func callBool(proc *windows.LazyProc, args ...uintptr) error {
	res, _, err := proc.Call(args...)
	if res != 0 {
		return nil
	}
	if errno, ok := err.(windows.Errno); ok && errno != 0 {
		return errno
	}
	return fmt.Errorf("%s failed", proc.Name)
}
