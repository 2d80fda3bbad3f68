package main

import (
	"log/slog"

	"chronify/internal/tray"
)

// handleTrayItem dispatches a tray menu selection.
func (a *App) handleTrayItem(id tray.ItemID) {
	switch id {
	case tray.ItemShow:
		a.showMainWindow()
	case tray.ItemHide:
		a.hideMainWindow()
	case tray.ItemQuit:
		a.quit()
	default:
		slog.Debug("[tray] ignoring unknown menu item", "item", id.String())
	}
}

// quit removes the tray icon and ends the host loop. The close interception
// is bypassed from here on.
func (a *App) quit() {
	a.quitting.Store(true)
	if a.tray != nil {
		a.tray.Stop()
	}
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Info("[app] quit requested before the window existed, exiting")
		exitFn(0)
		return
	}
	slog.Info("[app] quit requested from tray")
	runtimeQuitFn(ctx)
}
