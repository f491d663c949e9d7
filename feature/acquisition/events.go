package acquisition

import (
	"sync"
	"time"
)

// SchemaVersion is written into every history document.
const SchemaVersion = "1"

// timeLayout is the UTC timestamp format used inside history documents.
const timeLayout = "2006-01-02T15:04:05Z"

// Event is one inventory mutation notification. Events live in memory only;
// they are never persisted individually.
type Event struct {
	ItemID   int
	Quantity int
	Name     string
	// Source names the inventory that raised the event.
	Source string
	At     time.Time
	// FirstSeen marks the first acquisition of this item for the save slot.
	FirstSeen bool
}

// Batch is one flushed, deduplicated set of (item, quantity) pairs. Items and
// Quantities are index-aligned; within one batch item identifiers are unique.
type Batch struct {
	SchemaVersion string `json:"schemaVersion"`
	Timestamp     string `json:"timestamp"`
	Items         []int  `json:"items"`
	Quantities    []int  `json:"quantities"`
}

// newBatch collapses raw events into a batch: events for the same item are
// summed and the arrays follow first-occurrence order.
func newBatch(events []Event, at time.Time) Batch {
	batch := Batch{
		SchemaVersion: SchemaVersion,
		Timestamp:     at.UTC().Format(timeLayout),
		Items:         []int{},
		Quantities:    []int{},
	}

	index := make(map[int]int, len(events))
	for _, ev := range events {
		if pos, ok := index[ev.ItemID]; ok {
			batch.Quantities[pos] += ev.Quantity
			continue
		}
		index[ev.ItemID] = len(batch.Items)
		batch.Items = append(batch.Items, ev.ItemID)
		batch.Quantities = append(batch.Quantities, ev.Quantity)
	}
	return batch
}

// EventSource delivers inventory-change notifications from one inventory.
// Implementations call the subscribed function from whatever goroutine owns
// their events; the debouncer handles the synchronization.
type EventSource interface {
	Subscribe(fn func(Event))
	Unsubscribe()
}

// PushSource is an EventSource fed imperatively, used by the HTTP ingest
// endpoint and by tests. Events emitted while nothing is subscribed are
// dropped.
type PushSource struct {
	mu sync.Mutex
	fn func(Event)
}

// NewPushSource creates an empty push source.
func NewPushSource() *PushSource {
	return &PushSource{}
}

// Subscribe registers the consumer callback.
func (s *PushSource) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

// Unsubscribe removes the consumer callback.
func (s *PushSource) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
}

// Emit forwards one event to the subscriber, if any. Reports whether the
// event was delivered.
func (s *PushSource) Emit(ev Event) bool {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(ev)
	return true
}
