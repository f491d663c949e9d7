// Package paths defines the on-disk layout of the export tree.
//
// All functions are pure mappings from (saveSlot, itemID) or
// (saveSlot, timestamp) to paths below a data root:
//
//	items/{saveSlot}/{0-9}/{itemID}/metadata.json
//	items/{saveSlot}/{0-9}/{itemID}/description.json
//	items/{saveSlot}/{0-9}/{itemID}/icon.png
//	history/{saveSlot}/history_{yyyyMMdd_HHmmss}.json
//
// The single shard digit (abs(itemID) mod 10) exists only to bound directory
// fan-out; consumers can enumerate the tree without consulting this package.
package paths
