//go:build windows

package tray

import (
	"runtime"

	"github.com/getlantern/systray"
)

func nativeIcon() []byte { return iconICO }

// Start runs the tray message loop on a dedicated OS thread. Wails owns the
// main thread on Windows, so the tray cannot share its loop.
func (t *Tray) Start() {
	t.startOnce.Do(func() {
		go func() {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			systray.Run(t.onReady, t.onExit)
		}()
	})
}
