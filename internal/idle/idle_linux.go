//go:build linux

package idle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const dbusCallTimeout = 500 * time.Millisecond

type dbusQuery struct {
	name string
	run  func(ctx context.Context, conn *dbus.Conn) (time.Duration, error)
}

var (
	sessionBusFn = dbus.SessionBus
	dbusQueries  = []dbusQuery{
		{name: "mutter", run: mutterIdleTime},
		{name: "screensaver", run: screenSaverIdleTime},
	}
)

// platformDuration asks the desktop session over D-Bus, trying GNOME's
// Mutter idle monitor first and the freedesktop screensaver second.
func platformDuration() (time.Duration, error) {
	conn, err := sessionBusFn()
	if err != nil {
		return 0, fmt.Errorf("connect session bus: %w", err)
	}

	var errs []error
	for _, q := range dbusQueries {
		ctx, cancel := context.WithTimeout(context.Background(), dbusCallTimeout)
		d, err := q.run(ctx, conn)
		cancel()
		if err == nil {
			return d, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", q.name, err))
	}
	return 0, errors.Join(append([]error{ErrUnsupported}, errs...)...)
}

func mutterIdleTime(ctx context.Context, conn *dbus.Conn) (time.Duration, error) {
	var ms uint64
	obj := conn.Object("org.gnome.Mutter.IdleMonitor", "/org/gnome/Mutter/IdleMonitor/Core")
	if err := obj.CallWithContext(ctx, "org.gnome.Mutter.IdleMonitor.GetIdletime", 0).Store(&ms); err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func screenSaverIdleTime(ctx context.Context, conn *dbus.Conn) (time.Duration, error) {
	var secs uint32
	obj := conn.Object("org.freedesktop.ScreenSaver", "/org/freedesktop/ScreenSaver")
	if err := obj.CallWithContext(ctx, "org.freedesktop.ScreenSaver.GetSessionIdleTime", 0).Store(&secs); err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
