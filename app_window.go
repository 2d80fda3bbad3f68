package main

import (
	"context"
	"log/slog"
)

// mainWindowName is the only window the shell manages.
const mainWindowName = "main"

type windowState int

const (
	windowVisible windowState = iota
	windowHidden
)

func (s windowState) String() string {
	switch s {
	case windowVisible:
		return "visible"
	case windowHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// mainWindow returns the runtime context of the main window. The window is
// absent before startup and once shutdown has begun.
func (a *App) mainWindow() (context.Context, bool) {
	if a.shuttingDown.Load() {
		return nil, false
	}
	ctx := a.runtimeContext()
	return ctx, ctx != nil
}

func (a *App) setWindowState(state windowState) {
	a.windowMu.Lock()
	a.windowState = state
	a.windowMu.Unlock()
}

func (a *App) currentWindowState() windowState {
	a.windowMu.Lock()
	defer a.windowMu.Unlock()
	return a.windowState
}

// showMainWindow shows, unminimises and focuses the main window.
func (a *App) showMainWindow() {
	ctx, ok := a.mainWindow()
	if !ok {
		slog.Debug("[window] show ignored, window missing", "window", mainWindowName)
		return
	}
	a.raiseWindow(ctx)
	a.setWindowState(windowVisible)
}

func (a *App) hideMainWindow() {
	ctx, ok := a.mainWindow()
	if !ok {
		slog.Debug("[window] hide ignored, window missing", "window", mainWindowName)
		return
	}
	runtimeWindowHideFn(ctx)
	a.setWindowState(windowHidden)
}

// raiseWindow toggles always-on-top to pull the window in front of others;
// Wails v2 has no portable focus call.
func (a *App) raiseWindow(ctx context.Context) {
	runtimeWindowShowFn(ctx)
	runtimeWindowUnminimiseFn(ctx)
	runtimeWindowSetAlwaysOnTopFn(ctx, true)
	runtimeWindowSetAlwaysOnTopFn(ctx, false)
}

// beforeClose turns the close button into a hide. Returning true vetoes
// the close. While quitting, or when no tray is up to bring the window
// back, the close goes through.
func (a *App) beforeClose(ctx context.Context) bool {
	if a.quitting.Load() {
		return false
	}
	if !a.trayReady() {
		slog.Warn("[window] system tray not ready, letting close through", "window", mainWindowName)
		return false
	}
	runtimeWindowHideFn(ctx)
	a.setWindowState(windowHidden)
	slog.Debug("[window] close intercepted, window hidden", "window", mainWindowName)
	return true
}

func (a *App) trayReady() bool {
	return a.tray != nil && a.tray.Ready()
}

// reopen handles a dock reopen or an activation from a second launch.
func (a *App) reopen() {
	slog.Info("[window] reopen requested", "window", mainWindowName)
	a.showMainWindow()
}
