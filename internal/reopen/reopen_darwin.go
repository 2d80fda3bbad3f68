//go:build darwin

package reopen

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>
#import <objc/runtime.h>

void reopenRequested(void);

static BOOL shouldHandleReopen(id self, SEL _cmd, NSApplication *sender, BOOL hasVisibleWindows) {
	reopenRequested();
	return NO;
}

// Adds the reopen callback to the class of the delegate the host installed,
// leaving that delegate in place. Runs on the main queue, so it executes
// after the host has set the delegate and started the run loop.
static void installReopenHandler(void) {
	dispatch_async(dispatch_get_main_queue(), ^{
		id delegate = [NSApp delegate];
		if (delegate == nil) {
			NSLog(@"reopen: no application delegate");
			return;
		}
		SEL sel = @selector(applicationShouldHandleReopen:hasVisibleWindows:);
		struct objc_method_description desc =
			protocol_getMethodDescription(@protocol(NSApplicationDelegate), sel, NO, YES);
		Class cls = [delegate class];
		if (!class_addMethod(cls, sel, (IMP)shouldHandleReopen, desc.types)) {
			Method existing = class_getInstanceMethod(cls, sel);
			if (existing != NULL) {
				method_setImplementation(existing, (IMP)shouldHandleReopen);
			}
		}
	});
}
*/
import "C"

import "sync"

var installOnce sync.Once

// Install routes the reopen signal to fn. It reports whether the platform
// delivers one.
func Install(fn func()) bool {
	setHandler(fn)
	installOnce.Do(func() {
		C.installReopenHandler()
	})
	return true
}

//export reopenRequested
func reopenRequested() {
	notify()
}
