//go:build darwin || linux

package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.design/x/hotkey"
)

const stopTimeout = 2 * time.Second

type activeHotkey struct {
	hk      *hotkey.Hotkey
	stopCh  chan struct{}
	doneCh  chan struct{}
	binding string
}

// Manager manages one global hotkey registration.
type Manager struct {
	mu     sync.Mutex
	active *activeHotkey // nil when no hotkey is registered
}

// NewManager creates a new hotkey manager.
func NewManager() *Manager {
	return &Manager{}
}

// Start registers a global hotkey and delivers its events to onEvent.
// A previously active registration is released first.
func (m *Manager) Start(spec string, onEvent func(Event)) error {
	if onEvent == nil {
		return errors.New("onEvent callback is required")
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

	hk := hotkey.New(native.modifiers, native.key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %q failed: %w", binding.Normalized(), err)
	}

	ah := &activeHotkey{
		hk:      hk,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		binding: binding.Normalized(),
	}
	go runHotkeyLoop(ah, onEvent)
	m.active = ah
	return nil
}

// Stop unregisters the active global hotkey.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

// ActiveBinding returns the normalized binding string for the active hotkey.
func (m *Manager) ActiveBinding() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return ""
	}
	return m.active.binding
}

func (m *Manager) stopLocked() error {
	if m.active == nil {
		return nil
	}
	ah := m.active
	m.active = nil

	close(ah.stopCh)
	var stopErr error
	select {
	case <-ah.doneCh:
	case <-time.After(stopTimeout):
		stopErr = fmt.Errorf("hotkey loop stop timed out (binding=%s)", ah.binding)
		slog.Warn("[hotkey] event loop stop timed out", "binding", ah.binding)
	}
	if err := ah.hk.Unregister(); err != nil {
		stopErr = errors.Join(stopErr, fmt.Errorf("unregister hotkey %q: %w", ah.binding, err))
	}
	return stopErr
}

func runHotkeyLoop(ah *activeHotkey, onEvent func(Event)) {
	defer close(ah.doneCh)
	keydown := ah.hk.Keydown()
	keyup := ah.hk.Keyup()
	for {
		select {
		case <-ah.stopCh:
			slog.Debug("[hotkey] event loop stopped", "binding", ah.binding)
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			go onEvent(Event{Binding: ah.binding, State: Pressed})
		case _, ok := <-keyup:
			if !ok {
				return
			}
			go onEvent(Event{Binding: ah.binding, State: Released})
		}
	}
}
