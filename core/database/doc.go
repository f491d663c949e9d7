// Package database manages the connection to the game emulator's database.
//
// The exporter reads the item master collection, the player's containers and
// the active save slot from this database; it never writes to it. The
// connection is optional: when it cannot be established the service starts
// anyway with the catalog side disabled.
//
// MySQL is the production driver; SQLite exists for local setups and tests.
package database
