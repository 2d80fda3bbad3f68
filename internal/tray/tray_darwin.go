//go:build darwin

package tray

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>

void trayAttachOnMainQueue(void);

// Blocks queued here run once the host has called [NSApp run], after it
// installed its own application delegate and finished launching.
static void scheduleTrayAttach(void) {
	dispatch_async(dispatch_get_main_queue(), ^{
		trayAttachOnMainQueue();
	});
}
*/
import "C"

import (
	"sync"

	"github.com/energye/systray"
)

var (
	nativeMu     sync.Mutex
	pendingStart func()
	nativeEnd    func()
)

func nativeIcon() []byte { return iconPNG }

// Start prepares the status item and attaches it from the main queue. The
// host framework owns NSApp and its delegate, so the tray runs on the
// external-loop API and never installs a delegate of its own.
func (t *Tray) Start() {
	t.startOnce.Do(func() {
		start, end := systray.RunWithExternalLoop(t.onReady, t.onExit)
		nativeMu.Lock()
		pendingStart = start
		nativeEnd = end
		nativeMu.Unlock()
		C.scheduleTrayAttach()
	})
}

//export trayAttachOnMainQueue
func trayAttachOnMainQueue() {
	nativeMu.Lock()
	start := pendingStart
	pendingStart = nil
	nativeMu.Unlock()
	if start != nil {
		start()
	}
}

func (t *Tray) onReady() {
	if t.opts.Template {
		systray.SetTemplateIcon(t.icon, t.icon)
	} else {
		systray.SetIcon(t.icon)
	}
	systray.SetTooltip(tooltip)

	for _, item := range Items() {
		if item.SeparatorBefore {
			systray.AddSeparator()
		}
		id := item.ID
		systray.AddMenuItem(item.Label, item.Tooltip).Click(func() {
			select {
			case <-t.stopCh:
			default:
				t.dispatch(id)
			}
		})
	}
	t.markReady()
}

func (t *Tray) quitNative() {
	nativeMu.Lock()
	pendingStart = nil
	end := nativeEnd
	nativeEnd = nil
	nativeMu.Unlock()
	if end != nil {
		end()
	}
}
