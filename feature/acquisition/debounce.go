package acquisition

import (
	"context"
	"sync"
	"time"

	"itemdex/core/gamedata"

	"go.uber.org/zap"
)

// Debouncer coalesces bursts of acquisition events into compact batches.
//
// It has two states: idle (no pending events, no timer armed) and pending
// (timer armed, buffer growing). The first event arms the single-shot window;
// later events inside the window join the buffer without extending the
// deadline, so a sustained flood still flushes at window-elapsed. Buffers are
// kept per save slot; when the window fires each slot's buffer is drained,
// grouped by item, and handed to the history log as that slot's batch.
//
// One coarse lock guards the buffers and the per-save-slot collected sets. It
// is held only for the check/append/drain critical sections, never across
// file I/O.
type Debouncer struct {
	window time.Duration
	sched  Scheduler
	log    *HistoryLog
	slots  gamedata.SaveSlotProvider
	logger *zap.Logger
	clock  func() time.Time

	mu        sync.Mutex
	pending   map[int][]Event
	collected map[int]map[int]struct{}
	primed    bool
}

// NewDebouncer creates a debouncer flushing through the given history log.
func NewDebouncer(window time.Duration, sched Scheduler, log *HistoryLog, slots gamedata.SaveSlotProvider, logger *zap.Logger) *Debouncer {
	return &Debouncer{
		window:    window,
		sched:     sched,
		log:       log,
		slots:     slots,
		logger:    logger,
		clock:     time.Now,
		pending:   make(map[int][]Event),
		collected: make(map[int]map[int]struct{}),
	}
}

// Enqueue buffers one event. Callbacks from any goroutine are safe. The
// event's FirstSeen flag is resolved here against the save slot's collected
// set, which also records the item as collected. The save slot is resolved
// at enqueue time and the event stays pinned to it, so a slot switch inside
// the window cannot pull already-buffered events into the new slot's tree.
func (d *Debouncer) Enqueue(ev Event) {
	saveSlot := d.slots.ActiveSlot()
	if ev.At.IsZero() {
		ev.At = d.clock()
	}

	d.mu.Lock()
	ev.FirstSeen = d.markCollectedLocked(saveSlot, ev.ItemID)
	d.pending[saveSlot] = append(d.pending[saveSlot], ev)
	d.mu.Unlock()

	// Arming is a no-op while the window is already running; the original
	// deadline stands.
	d.sched.Arm(d.window, d.flush)
}

// Flush synchronously drains whatever is pending, bypassing the timer. Used
// on teardown so no events are lost.
func (d *Debouncer) Flush() {
	d.sched.Stop()
	d.flush()
}

// PendingCount reports the number of buffered events across all save slots.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, events := range d.pending {
		total += len(events)
	}
	return total
}

// CollectedCount reports how many distinct items have been seen for a slot.
func (d *Debouncer) CollectedCount(saveSlot int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.collected[saveSlot])
}

// Prime runs the startup handshake: snapshot the player's inventory and
// storage, mark every present item as collected, and write the whole snapshot
// as one immediate batch that bypasses the debounce window. Runs at most once
// per process lifetime; a failed snapshot leaves the handshake unprimed so a
// later attempt can retry.
func (d *Debouncer) Prime(ctx context.Context, inventory gamedata.InventoryReader) error {
	d.mu.Lock()
	if d.primed {
		d.mu.Unlock()
		return nil
	}
	d.primed = true
	d.mu.Unlock()

	saveSlot := d.slots.ActiveSlot()

	stacks, err := inventory.Snapshot(ctx, saveSlot)
	if err != nil {
		d.mu.Lock()
		d.primed = false
		d.mu.Unlock()
		return err
	}

	at := d.clock()
	events := make([]Event, 0, len(stacks))
	d.mu.Lock()
	for _, stack := range stacks {
		events = append(events, Event{
			ItemID:    stack.ItemID,
			Quantity:  stack.Quantity,
			Name:      stack.Name,
			Source:    stack.Source,
			At:        at,
			FirstSeen: d.markCollectedLocked(saveSlot, stack.ItemID),
		})
	}
	d.mu.Unlock()

	if len(events) == 0 {
		d.logger.Info("Startup handshake found empty containers", zap.Int("save_slot", saveSlot))
		return nil
	}

	batch := newBatch(events, at)
	if err := d.log.Append(ctx, saveSlot, at, batch); err != nil {
		d.logger.Error("Failed to write initial batch", zap.Error(err))
		return nil
	}

	d.logger.Info("Startup handshake complete",
		zap.Int("save_slot", saveSlot),
		zap.Int("items", len(batch.Items)))
	return nil
}

// flush drains the per-slot buffers and writes one batch per slot that has
// pending events. I/O happens outside the lock.
func (d *Debouncer) flush() {
	d.mu.Lock()
	drained := d.pending
	d.pending = make(map[int][]Event)
	d.mu.Unlock()

	at := d.clock()

	for saveSlot, events := range drained {
		if len(events) == 0 {
			continue
		}
		batch := newBatch(events, at)

		firstSeen := 0
		for _, ev := range events {
			if ev.FirstSeen {
				firstSeen++
			}
		}

		if err := d.log.Append(context.Background(), saveSlot, at, batch); err != nil {
			d.logger.Error("Failed to write history batch",
				zap.Int("save_slot", saveSlot), zap.Error(err))
			continue
		}

		d.logger.Debug("Flushed acquisition batch",
			zap.Int("save_slot", saveSlot),
			zap.Int("events", len(events)),
			zap.Int("items", len(batch.Items)),
			zap.Int("first_seen", firstSeen))
	}
}

// markCollectedLocked records the item for the slot and reports whether this
// was its first sighting. Caller holds d.mu.
func (d *Debouncer) markCollectedLocked(saveSlot, itemID int) bool {
	set, ok := d.collected[saveSlot]
	if !ok {
		set = make(map[int]struct{})
		d.collected[saveSlot] = set
	}
	if _, seen := set[itemID]; seen {
		return false
	}
	set[itemID] = struct{}{}
	return true
}
