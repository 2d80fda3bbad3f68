package tray

import (
	"strings"
	"testing"
)

func TestItemIDString(t *testing.T) {
	tests := []struct {
		id   ItemID
		want string
	}{
		{id: ItemShow, want: "show"},
		{id: ItemHide, want: "hide"},
		{id: ItemQuit, want: "quit"},
		{id: ItemUnknown, want: "unknown"},
		{id: ItemID(42), want: "unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Fatalf("ItemID(%d).String() = %q, want %q", int(tt.id), got, tt.want)
		}
	}
}

func TestItems(t *testing.T) {
	items := Items()
	if len(items) != 3 {
		t.Fatalf("len(Items()) = %d, want 3", len(items))
	}
	if items[2].ID != ItemQuit || items[2].Label != "Quit Chronify" {
		t.Fatalf("last item = %+v, want Quit Chronify", items[2])
	}

	items[0].Label = "mutated"
	if Items()[0].Label != "Show Window" {
		t.Fatal("Items() must return a copy")
	}
}

func TestDecodeBundledIcon(t *testing.T) {
	info, err := DecodeIcon(iconPNG)
	if err != nil {
		t.Fatalf("DecodeIcon(bundled) error = %v", err)
	}
	if info.Width != 32 || info.Height != 32 {
		t.Fatalf("icon size = %dx%d, want 32x32", info.Width, info.Height)
	}
	if len(iconICO) < 6 || iconICO[2] != 1 {
		t.Fatal("bundled icon.ico header is not an icon resource")
	}
}

func TestDecodeIconErrors(t *testing.T) {
	if _, err := DecodeIcon(nil); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("DecodeIcon(nil) error = %v, want empty error", err)
	}
	if _, err := DecodeIcon([]byte("not a png")); err == nil {
		t.Fatal("DecodeIcon(garbage) should fail")
	}
}

func TestNewRequiresCallback(t *testing.T) {
	if _, err := New(Options{}, nil); err == nil {
		t.Fatal("New(nil) should fail")
	}
}

func TestNewFailsOnUndecodableIcon(t *testing.T) {
	orig := iconPNGData
	t.Cleanup(func() { iconPNGData = orig })
	iconPNGData = func() []byte { return []byte{0x89, 'P', 'N', 'G'} }

	if _, err := New(Options{}, func(ItemID) {}); err == nil {
		t.Fatal("New() should fail when the bundled icon cannot be decoded")
	}
}

func TestDispatchForwardsSelection(t *testing.T) {
	var got []ItemID
	tr, err := New(Options{Template: true}, func(id ItemID) { got = append(got, id) })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tr.dispatch(ItemHide)
	tr.dispatch(ItemShow)
	if len(got) != 2 || got[0] != ItemHide || got[1] != ItemShow {
		t.Fatalf("dispatched = %v, want [hide show]", got)
	}
}

func TestReadyFollowsBackendLifecycle(t *testing.T) {
	tr, err := New(Options{}, func(ItemID) {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tr.Ready() {
		t.Fatal("Ready() = true before the backend built the menu")
	}

	tr.markReady()
	if !tr.Ready() {
		t.Fatal("Ready() = false after the menu was built")
	}

	tr.onExit()
	if tr.Ready() {
		t.Fatal("Ready() = true after the native loop exited")
	}

	close(tr.stopCh)
	tr.markReady()
	if tr.Ready() {
		t.Fatal("a stopped tray must not become ready")
	}
}
