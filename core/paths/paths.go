package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// historyTimeLayout is the second-resolution timestamp embedded in history filenames.
const historyTimeLayout = "20060102_150405"

// ShardDigit returns the single decimal digit used to bound directory fan-out
// for an item identifier: abs(itemID) mod 10.
func ShardDigit(itemID int) int {
	if itemID < 0 {
		itemID = -itemID
	}
	return itemID % 10
}

// CatalogDir returns the directory holding one item's exported files:
// {root}/items/{saveSlot}/{shard}/{itemID}.
func CatalogDir(root string, saveSlot, itemID int) string {
	return filepath.Join(root, "items",
		strconv.Itoa(saveSlot),
		strconv.Itoa(ShardDigit(itemID)),
		strconv.Itoa(itemID))
}

// MetadataPath returns the path of an item's metadata.json file.
func MetadataPath(root string, saveSlot, itemID int) string {
	return filepath.Join(CatalogDir(root, saveSlot, itemID), "metadata.json")
}

// DescriptionPath returns the path of an item's description.json file.
func DescriptionPath(root string, saveSlot, itemID int) string {
	return filepath.Join(CatalogDir(root, saveSlot, itemID), "description.json")
}

// IconPath returns the path of an item's icon.png file.
func IconPath(root string, saveSlot, itemID int) string {
	return filepath.Join(CatalogDir(root, saveSlot, itemID), "icon.png")
}

// HistoryDir returns the directory holding one save slot's history files.
func HistoryDir(root string, saveSlot int) string {
	return filepath.Join(root, "history", strconv.Itoa(saveSlot))
}

// HistoryPath returns the filename for a batch flushed at the given time:
// {root}/history/{saveSlot}/history_{yyyyMMdd_HHmmss}.json.
// Second resolution only; two flushes inside the same second collide.
func HistoryPath(root string, saveSlot int, at time.Time) string {
	name := fmt.Sprintf("history_%s.json", at.UTC().Format(historyTimeLayout))
	return filepath.Join(HistoryDir(root, saveSlot), name)
}

// ProvisionShards creates the ten shard digit directories for a save slot so
// the catalog tree is discoverable before any item is written. Idempotent.
func ProvisionShards(root string, saveSlot int) error {
	for digit := 0; digit <= 9; digit++ {
		dir := filepath.Join(root, "items", strconv.Itoa(saveSlot), strconv.Itoa(digit))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create shard directory %s: %w", dir, err)
		}
	}
	return nil
}
