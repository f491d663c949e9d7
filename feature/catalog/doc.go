// Package catalog exports the game's item catalog to the filesystem.
//
// One pass of the Scanner walks the full item master collection, runs change
// detection against the stored record for each item, and only writes the ones
// that actually differ. Each exported item gets a metadata.json, a
// description.json and (when the icon's pixel data is readable) an icon.png
// under items/{saveSlot}/{shard}/{itemID}/.
//
// Change detection is deliberately a short-circuit comparison of a fixed
// field list, not an exhaustive diff: display name first, then value, quality
// tier, stack size, weight and stats (floats within an absolute 0.01
// tolerance), and the tag set. An unchanged item causes no write, so its
// timestamps never move.
//
// Per-item failures are contained: the pass counts them and continues, and
// the Summary reports what happened.
package catalog
