//go:build !windows && !darwin && !linux

package hotkeys

import "errors"

// ErrUnsupported is returned by Start on platforms without a global hotkey backend.
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// Manager is a no-op on unsupported platforms.
type Manager struct{}

// NewManager creates a new hotkey manager.
func NewManager() *Manager { return &Manager{} }

// Start validates the binding and reports ErrUnsupported.
func (m *Manager) Start(spec string, onEvent func(Event)) error {
	if onEvent == nil {
		return errors.New("onEvent callback is required")
	}
	if _, err := ParseBinding(spec); err != nil {
		return err
	}
	return ErrUnsupported
}

// Stop is a no-op.
func (m *Manager) Stop() error { return nil }

// ActiveBinding always returns "".
func (m *Manager) ActiveBinding() string { return "" }
