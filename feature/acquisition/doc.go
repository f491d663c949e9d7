// Package acquisition turns a noisy stream of inventory-mutation
// notifications into compact, correctly-ordered history batches.
//
// Events flow from one or more EventSources into the Debouncer. The first
// event of a burst arms a fixed single-shot window (300ms by default); events
// arriving inside the window join the buffer without moving the deadline.
// When the window elapses the buffer is drained in one step: events are
// grouped by item in first-occurrence order, quantities are summed, and the
// result is written by the HistoryLog as one immutable timestamp-named file
// under history/{saveSlot}/.
//
// Before incremental events are trusted, a one-time startup handshake
// snapshots the player's inventory and storage containers and writes them as
// one immediate batch, marking every present item as already collected.
// Stopping the service unsubscribes all sources and flushes synchronously.
package acquisition
