package tray

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

const tooltip = "Chronify"

// Options configures the tray icon.
type Options struct {
	// Template renders the icon monochrome and lets the OS tint it.
	// Ignored on platforms without template icons.
	Template bool
}

// Tray owns the single tray icon and its static menu. Menu selections are
// delivered to onSelect on the tray's event goroutine.
type Tray struct {
	opts     Options
	icon     []byte
	onSelect func(ItemID)

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	ready     atomic.Bool
}

// iconPNGData is a test seam for the bundled icon.
var iconPNGData = func() []byte { return iconPNG }

// New validates the bundled icon and prepares the tray. It does not touch
// the OS until Start is called.
func New(opts Options, onSelect func(ItemID)) (*Tray, error) {
	if onSelect == nil {
		return nil, errors.New("tray onSelect callback is required")
	}
	info, err := DecodeIcon(iconPNGData())
	if err != nil {
		return nil, err
	}
	slog.Debug("[tray] bundled icon decoded", "width", info.Width, "height", info.Height, "template", opts.Template)
	return &Tray{
		opts:     opts,
		icon:     nativeIcon(),
		onSelect: onSelect,
		stopCh:   make(chan struct{}),
	}, nil
}

// Stop removes the tray icon. Safe to call more than once.
func (t *Tray) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
		t.ready.Store(false)
		t.quitNative()
	})
}

// Ready reports whether the icon and menu are installed and the tray has
// not been stopped. A window without a ready tray cannot be brought back
// once hidden.
func (t *Tray) Ready() bool {
	return t.ready.Load()
}

// markReady is called by the platform backend once the menu is built.
func (t *Tray) markReady() {
	select {
	case <-t.stopCh:
		return
	default:
	}
	t.ready.Store(true)
	slog.Info("[tray] system tray ready")
}

func (t *Tray) onExit() {
	t.ready.Store(false)
	slog.Debug("[tray] system tray exited")
}

func (t *Tray) dispatch(id ItemID) {
	slog.Debug("[tray] menu item selected", "item", id.String())
	t.onSelect(id)
}
