package gamedata

import "context"

// LocalizedText holds the display strings for one language.
type LocalizedText struct {
	// Name is the localized display name.
	Name string
	// Short is the one-line description.
	Short string
	// Full is the complete description text.
	Full string
}

// IconHandle is a raw 32-bit RGBA pixel region for an item's icon.
// Pixels is row-major, 4 bytes per pixel. A handle with no pixel data is
// treated as unreadable and skipped by the exporter.
type IconHandle struct {
	Width  int
	Height int
	Pixels []byte
}

// Readable reports whether the handle carries a decodable pixel block.
func (h *IconHandle) Readable() bool {
	if h == nil || h.Width <= 0 || h.Height <= 0 {
		return false
	}
	return len(h.Pixels) == h.Width*h.Height*4
}

// ItemDefinition is one entry of the item master collection.
type ItemDefinition struct {
	ID             int
	NameKey        string
	Name           string
	DescriptionKey string
	Order          int
	MaxStack       int
	Stackable      bool
	Value          int
	Quality        int
	QualityLabel   string
	Weight         float64
	Tags           []string
	Stats          map[string]float64
	HasDurability  bool
	MaxDurability  int
	Usable         bool
	Consumable     bool
	SoundKey       string
	Localized      map[string]LocalizedText
	Icon           *IconHandle
}

// ItemStack is one stack present in a player inventory or storage container.
type ItemStack struct {
	ItemID   int
	Quantity int
	Name     string
	// Source names the container the stack was read from.
	Source string
}

// ItemMasterCollection enumerates the game's item definitions. The collection
// is bounded and non-streaming: Items returns the full set for one pass.
type ItemMasterCollection interface {
	// Ready reports whether the upstream source can be enumerated yet.
	// Callers poll cooperatively instead of blocking.
	Ready() bool
	// Items returns every resolvable item definition.
	Items(ctx context.Context) ([]ItemDefinition, error)
}

// InventoryReader snapshots the player's current inventory and storage
// containers for one save slot.
type InventoryReader interface {
	Snapshot(ctx context.Context, saveSlot int) ([]ItemStack, error)
}

// SaveSlotProvider resolves the active save slot. Implementations fall back
// to slot 1 when resolution fails; ActiveSlot never errors.
type SaveSlotProvider interface {
	ActiveSlot() int
}

// FixedSlot is a SaveSlotProvider pinned to one slot.
type FixedSlot int

// ActiveSlot returns the pinned slot.
func (s FixedSlot) ActiveSlot() int { return int(s) }
