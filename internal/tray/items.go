package tray

// ItemID identifies a tray menu entry.
type ItemID int

const (
	ItemUnknown ItemID = iota
	ItemShow
	ItemHide
	ItemQuit
)

var itemIDNames = map[ItemID]string{
	ItemShow: "show",
	ItemHide: "hide",
	ItemQuit: "quit",
}

// String returns the log name ("show", "hide", "quit").
func (id ItemID) String() string {
	if name, ok := itemIDNames[id]; ok {
		return name
	}
	return "unknown"
}

// Item is one static menu entry.
type Item struct {
	ID      ItemID
	Label   string
	Tooltip string
	// SeparatorBefore inserts a menu separator above the item.
	SeparatorBefore bool
}

var menuItems = []Item{
	{ID: ItemShow, Label: "Show Window", Tooltip: "Show the Chronify window"},
	{ID: ItemHide, Label: "Hide Window", Tooltip: "Hide the Chronify window"},
	{ID: ItemQuit, Label: "Quit Chronify", Tooltip: "Quit Chronify", SeparatorBefore: true},
}

// Items returns a copy of the menu definition in display order.
func Items() []Item {
	out := make([]Item, len(menuItems))
	copy(out, menuItems)
	return out
}
