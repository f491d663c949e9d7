// Package gamedata defines the capabilities the exporter consumes from the
// running game and provides database-backed implementations of them.
//
// The exporter never talks to game objects directly; it depends on three
// narrow interfaces:
//
//   - ItemMasterCollection: the bounded set of item definitions
//   - InventoryReader: a point-in-time snapshot of the player's containers
//   - SaveSlotProvider: the active save slot (falls back to slot 1)
//
// The DB* types implement these against the emulator's MySQL schema through
// GORM. Tests substitute fakes; nothing outside this package knows where the
// data actually comes from.
package gamedata
