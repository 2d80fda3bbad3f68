package plugins

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

// Permission states reported to the UI layer.
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

// ErrNotificationsUnavailable is returned once the OS has reported that it
// cannot show notifications.
var ErrNotificationsUnavailable = errors.New("notifications are unavailable on this system")

var beeepNotifyFn = beeep.Notify

// Notifier shows OS notifications. Desktop platforms do not gate
// notifications behind a per-app prompt, so permission is granted until the
// backend reports it is unsupported.
type Notifier struct {
	appName     string
	icon        []byte
	unsupported atomic.Bool
}

// NewNotifier creates a notifier that shows icon with each notification.
func NewNotifier(appName string, icon []byte) *Notifier {
	beeep.AppName = appName
	return &Notifier{appName: appName, icon: icon}
}

// IsPermissionGranted reports whether notifications can be shown.
func (n *Notifier) IsPermissionGranted() bool {
	return !n.unsupported.Load()
}

// RequestPermission returns the current permission state.
func (n *Notifier) RequestPermission() string {
	if n.unsupported.Load() {
		return PermissionDenied
	}
	return PermissionGranted
}

// SendNotification shows a notification with title and body.
func (n *Notifier) SendNotification(title, body string) error {
	if n.unsupported.Load() {
		return ErrNotificationsUnavailable
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = n.appName
	}

	// beeep accepts a path string or raw image bytes; "" means no icon.
	var icon any = ""
	if len(n.icon) > 0 {
		icon = n.icon
	}
	if err := beeepNotifyFn(title, body, icon); err != nil {
		if errors.Is(err, beeep.ErrUnsupported) {
			n.unsupported.Store(true)
			slog.Warn("[notify] notifications unsupported, disabling", "error", err)
			return ErrNotificationsUnavailable
		}
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
