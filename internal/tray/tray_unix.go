//go:build !windows && !darwin

package tray

import "github.com/getlantern/systray"

func nativeIcon() []byte { return iconPNG }

// Start hooks the tray into the GTK loop the host framework runs on the
// main thread. It must be called before that loop starts.
func (t *Tray) Start() {
	t.startOnce.Do(func() {
		systray.Register(t.onReady, t.onExit)
	})
}
