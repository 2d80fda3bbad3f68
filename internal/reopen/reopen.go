// Package reopen delivers the OS "reopen" signal (dock icon click or a
// relaunch from Finder while the app is already running) to the shell.
package reopen

import (
	"log/slog"
	"sync/atomic"
)

var handler atomic.Pointer[func()]

func setHandler(fn func()) {
	if fn == nil {
		handler.Store(nil)
		return
	}
	handler.Store(&fn)
}

// notify runs the installed handler off the AppKit callback.
func notify() {
	fn := handler.Load()
	if fn == nil {
		slog.Debug("[reopen] signal received without a handler")
		return
	}
	go (*fn)()
}
