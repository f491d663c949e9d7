package gamedata

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FallbackSlot is used whenever the active save slot cannot be resolved.
const FallbackSlot = 1

// itemRow mirrors the emulator's items table. Tags and Stats are stored as
// JSON text columns.
type itemRow struct {
	ID             int     `gorm:"column:id"`
	NameKey        string  `gorm:"column:name_key"`
	Name           string  `gorm:"column:name"`
	DescriptionKey string  `gorm:"column:description_key"`
	SortOrder      int     `gorm:"column:sort_order"`
	MaxStack       int     `gorm:"column:max_stack"`
	Stackable      bool    `gorm:"column:stackable"`
	Value          int     `gorm:"column:value"`
	Quality        int     `gorm:"column:quality"`
	QualityLabel   string  `gorm:"column:quality_label"`
	Weight         float64 `gorm:"column:weight"`
	Tags           string  `gorm:"column:tags"`
	Stats          string  `gorm:"column:stats"`
	HasDurability  bool    `gorm:"column:has_durability"`
	MaxDurability  int     `gorm:"column:max_durability"`
	Usable         bool    `gorm:"column:usable"`
	Consumable     bool    `gorm:"column:consumable"`
	SoundKey       string  `gorm:"column:sound_key"`
}

// stackRow mirrors one row of the inventory_items / storage_items tables.
type stackRow struct {
	ItemID   int    `gorm:"column:item_id"`
	Quantity int    `gorm:"column:quantity"`
	Name     string `gorm:"column:name"`
}

// DBMasterCollection is an ItemMasterCollection backed by the emulator
// database.
type DBMasterCollection struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDBMasterCollection creates a collection reading the items table.
func NewDBMasterCollection(db *gorm.DB, logger *zap.Logger) *DBMasterCollection {
	return &DBMasterCollection{db: db, logger: logger}
}

// Ready reports whether the database connection answers a ping.
func (c *DBMasterCollection) Ready() bool {
	sqlDB, err := c.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// Items loads every item definition. Rows whose tag or stat columns fail to
// parse keep empty collections rather than dropping the item.
func (c *DBMasterCollection) Items(ctx context.Context) ([]ItemDefinition, error) {
	var rows []itemRow
	if err := c.db.WithContext(ctx).Table("items").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load item master collection: %w", err)
	}

	defs := make([]ItemDefinition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, c.toDefinition(row))
	}
	return defs, nil
}

func (c *DBMasterCollection) toDefinition(row itemRow) ItemDefinition {
	def := ItemDefinition{
		ID:             row.ID,
		NameKey:        row.NameKey,
		Name:           row.Name,
		DescriptionKey: row.DescriptionKey,
		Order:          row.SortOrder,
		MaxStack:       row.MaxStack,
		Stackable:      row.Stackable,
		Value:          row.Value,
		Quality:        row.Quality,
		QualityLabel:   row.QualityLabel,
		Weight:         row.Weight,
		HasDurability:  row.HasDurability,
		MaxDurability:  row.MaxDurability,
		Usable:         row.Usable,
		Consumable:     row.Consumable,
		SoundKey:       row.SoundKey,
		Tags:           []string{},
		Stats:          map[string]float64{},
	}

	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &def.Tags); err != nil {
			c.logger.Error("Malformed tags column", zap.Int("item_id", row.ID), zap.Error(err))
			def.Tags = []string{}
		}
	}
	if row.Stats != "" {
		if err := json.Unmarshal([]byte(row.Stats), &def.Stats); err != nil {
			c.logger.Error("Malformed stats column", zap.Int("item_id", row.ID), zap.Error(err))
			def.Stats = map[string]float64{}
		}
	}
	return def
}

// DBInventoryReader reads the player's inventory and storage containers.
type DBInventoryReader struct {
	db *gorm.DB
}

// NewDBInventoryReader creates a reader over the inventory tables.
func NewDBInventoryReader(db *gorm.DB) *DBInventoryReader {
	return &DBInventoryReader{db: db}
}

// Snapshot returns one ItemStack per present stack, inventory first, then
// storage containers.
func (r *DBInventoryReader) Snapshot(ctx context.Context, saveSlot int) ([]ItemStack, error) {
	stacks := make([]ItemStack, 0)

	for _, table := range []struct {
		name   string
		source string
	}{
		{"inventory_items", "inventory"},
		{"storage_items", "storage"},
	} {
		var rows []stackRow
		err := r.db.WithContext(ctx).
			Table(table.name).
			Where("save_slot = ?", saveSlot).
			Order("item_id").
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", table.name, err)
		}
		for _, row := range rows {
			stacks = append(stacks, ItemStack{
				ItemID:   row.ItemID,
				Quantity: row.Quantity,
				Name:     row.Name,
				Source:   table.source,
			})
		}
	}
	return stacks, nil
}

// DBSlotProvider resolves the active save slot from the save_slots table.
type DBSlotProvider struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDBSlotProvider creates a provider over the save_slots table.
func NewDBSlotProvider(db *gorm.DB, logger *zap.Logger) *DBSlotProvider {
	return &DBSlotProvider{db: db, logger: logger}
}

// ActiveSlot returns the slot marked active, or FallbackSlot when the lookup
// fails or no row is marked.
func (p *DBSlotProvider) ActiveSlot() int {
	var slot int
	err := p.db.
		Table("save_slots").
		Select("slot").
		Where("active = ?", true).
		Limit(1).
		Scan(&slot).Error
	if err != nil {
		p.logger.Warn("Save slot resolution failed, falling back", zap.Int("slot", FallbackSlot), zap.Error(err))
		return FallbackSlot
	}
	if slot <= 0 {
		return FallbackSlot
	}
	return slot
}
