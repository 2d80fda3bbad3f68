package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chronify/internal/ipc"
	"chronify/internal/workerutil"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

type appRuntimeLogger interface {
	Warningf(context.Context, string, ...any)
	Infof(context.Context, string, ...any)
	Errorf(context.Context, string, ...any)
}

// wailsRuntimeLogger writes through the Wails runtime logger, or slog when
// the runtime context is not available yet.
type wailsRuntimeLogger struct{}

func formatRuntimeLogMessage(message string, args ...any) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (wailsRuntimeLogger) Warningf(ctx context.Context, message string, args ...any) {
	if ctx == nil {
		slog.Warn(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogWarningf(ctx, message, args...)
}

func (wailsRuntimeLogger) Infof(ctx context.Context, message string, args ...any) {
	if ctx == nil {
		slog.Info(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogInfof(ctx, message, args...)
}

func (wailsRuntimeLogger) Errorf(ctx context.Context, message string, args ...any) {
	if ctx == nil {
		slog.Error(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogErrorf(ctx, message, args...)
}

var (
	runtimeEventsEmitFn                            = runtime.EventsEmit
	runtimeLogger                 appRuntimeLogger = wailsRuntimeLogger{}
	runtimeWindowHideFn                            = runtime.WindowHide
	runtimeWindowShowFn                            = runtime.WindowShow
	runtimeWindowUnminimiseFn                      = runtime.WindowUnminimise
	runtimeWindowSetAlwaysOnTopFn                  = runtime.WindowSetAlwaysOnTop
	runtimeQuitFn                                  = runtime.Quit
	newIPCServerFn                                 = ipc.NewServer
)

const shutdownWaitTimeout = 5 * time.Second

// startup runs once the main window exists. A shortcut that cannot be
// registered is fatal.
func (a *App) startup(ctx context.Context) {
	a.setRuntimeContext(ctx)
	cfg := a.getConfigSnapshot()

	if err := a.registerShortcut(cfg.GlobalShortcut); err != nil {
		runtimeLogger.Errorf(ctx, "global shortcut registration failed: %v", err)
		exitFn(1)
		return
	}
	runtimeLogger.Infof(ctx, "global shortcut registered: %s", a.registeredShortcut())

	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancel = cancel
	a.startEventForwarder(bgCtx)
	a.startActivationServer(ctx)
	a.startConfigWatcher(bgCtx)
}

func (a *App) shutdown(_ context.Context) {
	a.shuttingDown.Store(true)
	logCtx := a.runtimeContext()

	if a.bgCancel != nil {
		a.bgCancel()
		a.bgCancel = nil
	}
	if a.ipcServer != nil {
		if err := a.ipcServer.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "activation server stop failed: %v", err)
		}
	}
	if a.hotkeys != nil {
		if err := a.hotkeys.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "global shortcut stop failed: %v", err)
		}
	}
	if dropped := a.events.Dropped(); dropped > 0 {
		runtimeLogger.Warningf(logCtx, "%d event deliveries dropped on full subscribers", dropped)
	}
	a.events.Close()
	if !waitWithTimeout(a.bgWG.Wait, shutdownWaitTimeout) {
		runtimeLogger.Warningf(logCtx, "timed out waiting for background workers during shutdown")
	}
	if a.tray != nil {
		a.tray.Stop()
	}
	a.setRuntimeContext(nil)
}

func (a *App) startActivationServer(ctx context.Context) {
	server := newIPCServerFn("", ipc.HandlerFunc(a.handleActivationRequest))
	if err := server.Start(); err != nil {
		// Second launches cannot reopen this window, everything else works.
		runtimeLogger.Warningf(ctx, "activation server failed: %v", err)
		return
	}
	a.ipcServer = server
	runtimeLogger.Infof(ctx, "activation server listening: %s", server.Endpoint())
}

func (a *App) recoveryOptions() workerutil.RecoveryOptions {
	return workerutil.RecoveryOptions{
		IsShutdown: a.shuttingDown.Load,
		OnFatal: func(worker string, maxRetries int) {
			slog.Error("[worker] background worker abandoned", "worker", worker, "maxRetries", maxRetries)
		},
	}
}

func waitWithTimeout(waitFn func(), timeout time.Duration) bool {
	// The waiting goroutine may outlive timeout; only used on process shutdown.
	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
