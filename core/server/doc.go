// Package server holds the HTTP server configuration.
//
// The server surface is intentionally small: the game process pushes
// inventory-change notifications to it and operators poke the catalog
// scanner; everything else the exporter produces is read from the
// filesystem (or the storage mirror) by out-of-process tools.
package server
