//go:build !darwin

package tray

import "github.com/getlantern/systray"

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
		mi := systray.AddMenuItem(item.Label, item.Tooltip)
		go t.forwardClicks(item.ID, mi.ClickedCh)
	}
	t.markReady()
}

func (t *Tray) quitNative() {
	systray.Quit()
}

func (t *Tray) forwardClicks(id ItemID, clicked <-chan struct{}) {
	for {
		select {
		case <-t.stopCh:
			return
		case <-clicked:
			t.dispatch(id)
		}
	}
}
