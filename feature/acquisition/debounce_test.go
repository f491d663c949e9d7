package acquisition

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"itemdex/core/gamedata"
	"itemdex/core/paths"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeScheduler fires only when the test says so.
type fakeScheduler struct {
	mu       sync.Mutex
	armed    bool
	armCalls int
	fn       func()
}

func (s *fakeScheduler) Arm(d time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armCalls++
	if s.armed {
		return false
	}
	s.armed = true
	s.fn = fn
	return true
}

func (s *fakeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
	s.fn = nil
}

// Fire simulates the window elapsing.
func (s *fakeScheduler) Fire() {
	s.mu.Lock()
	fn := s.fn
	s.armed = false
	s.fn = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// fakeClock hands out a controllable time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestDebouncer(t *testing.T) (*Debouncer, *fakeScheduler, *fakeClock, string) {
	t.Helper()
	root := t.TempDir()
	sched := &fakeScheduler{}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	log := NewHistoryLog(root, nil, zap.NewNop())
	d := NewDebouncer(300*time.Millisecond, sched, log, gamedata.FixedSlot(1), zap.NewNop())
	d.clock = clock.Now
	return d, sched, clock, root
}

func historyFiles(t *testing.T, root string, saveSlot int) []string {
	t.Helper()
	entries, err := os.ReadDir(paths.HistoryDir(root, saveSlot))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func readBatch(t *testing.T, root string, saveSlot int, name string) Batch {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(paths.HistoryDir(root, saveSlot), name))
	require.NoError(t, err)
	var b Batch
	require.NoError(t, json.Unmarshal(data, &b))
	return b
}

func TestDebouncer_GroupsEventsWithinWindow(t *testing.T) {
	d, sched, _, root := newTestDebouncer(t)

	d.Enqueue(Event{ItemID: 5, Quantity: 2})
	d.Enqueue(Event{ItemID: 5, Quantity: 3})
	sched.Fire()

	files := historyFiles(t, root, 1)
	require.Len(t, files, 1)

	batch := readBatch(t, root, 1, files[0])
	assert.Equal(t, []int{5}, batch.Items)
	assert.Equal(t, []int{5}, batch.Quantities)
}

func TestDebouncer_GroupingPreservesFirstOccurrenceOrder(t *testing.T) {
	d, sched, _, root := newTestDebouncer(t)

	d.Enqueue(Event{ItemID: 1001, Quantity: 5})
	d.Enqueue(Event{ItemID: 1002, Quantity: 1})
	d.Enqueue(Event{ItemID: 1001, Quantity: 2})
	sched.Fire()

	files := historyFiles(t, root, 1)
	require.Len(t, files, 1)

	batch := readBatch(t, root, 1, files[0])
	assert.Equal(t, []int{1001, 1002}, batch.Items)
	assert.Equal(t, []int{7, 1}, batch.Quantities)
}

func TestDebouncer_TimerIsNotExtendedByLaterEvents(t *testing.T) {
	d, sched, _, _ := newTestDebouncer(t)

	d.Enqueue(Event{ItemID: 1, Quantity: 1})
	d.Enqueue(Event{ItemID: 2, Quantity: 1})
	d.Enqueue(Event{ItemID: 3, Quantity: 1})

	// Every enqueue asks to arm, but only the first arms; the original
	// deadline stands.
	sched.mu.Lock()
	defer sched.mu.Unlock()
	assert.Equal(t, 3, sched.armCalls)
	assert.True(t, sched.armed)
}

func TestDebouncer_SeparateWindowsProduceSeparateFiles(t *testing.T) {
	d, sched, clock, root := newTestDebouncer(t)

	d.Enqueue(Event{ItemID: 7, Quantity: 1})
	sched.Fire()

	clock.Advance(2 * time.Second)

	d.Enqueue(Event{ItemID: 7, Quantity: 4})
	sched.Fire()

	files := historyFiles(t, root, 1)
	require.Len(t, files, 2)

	// The same item may reappear across batches.
	first := readBatch(t, root, 1, files[0])
	second := readBatch(t, root, 1, files[1])
	assert.Equal(t, []int{7}, first.Items)
	assert.Equal(t, []int{7}, second.Items)
	assert.NotEqual(t, first.Timestamp, second.Timestamp)
}

func TestDebouncer_SlotSwitchInsideWindowKeepsEventsInTheirSlot(t *testing.T) {
	root := t.TempDir()
	sched := &fakeScheduler{}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	slots := &switchableSlot{slot: 1}

	d := NewDebouncer(300*time.Millisecond, sched, NewHistoryLog(root, nil, zap.NewNop()), slots, zap.NewNop())
	d.clock = clock.Now

	d.Enqueue(Event{ItemID: 5, Quantity: 1})
	slots.Set(2)
	d.Enqueue(Event{ItemID: 8, Quantity: 2})
	sched.Fire()

	// Each event lands in the tree of the slot that was active when it was
	// enqueued, matching its collected-set entry.
	slot1 := historyFiles(t, root, 1)
	require.Len(t, slot1, 1)
	assert.Equal(t, []int{5}, readBatch(t, root, 1, slot1[0]).Items)

	slot2 := historyFiles(t, root, 2)
	require.Len(t, slot2, 1)
	assert.Equal(t, []int{8}, readBatch(t, root, 2, slot2[0]).Items)

	assert.Equal(t, 1, d.CollectedCount(1))
	assert.Equal(t, 1, d.CollectedCount(2))
}

func TestDebouncer_FlushBypassesTimer(t *testing.T) {
	d, _, _, root := newTestDebouncer(t)

	d.Enqueue(Event{ItemID: 9, Quantity: 1})
	require.Equal(t, 1, d.PendingCount())

	d.Flush()
	assert.Equal(t, 0, d.PendingCount())
	assert.Len(t, historyFiles(t, root, 1), 1)
}

func TestDebouncer_EmptyFlushWritesNothing(t *testing.T) {
	d, sched, _, root := newTestDebouncer(t)

	sched.Fire()
	d.Flush()
	assert.Empty(t, historyFiles(t, root, 1))
}

func TestDebouncer_FirstSeenTracking(t *testing.T) {
	d, sched, _, _ := newTestDebouncer(t)

	d.Enqueue(Event{ItemID: 42, Quantity: 1})
	assert.Equal(t, 1, d.CollectedCount(1))

	sched.Fire()

	// Re-acquiring the same item does not grow the collected set.
	d.Enqueue(Event{ItemID: 42, Quantity: 1})
	assert.Equal(t, 1, d.CollectedCount(1))
}

func TestDebouncer_Prime(t *testing.T) {
	d, _, _, root := newTestDebouncer(t)

	inventory := &fakeInventory{stacks: []gamedata.ItemStack{
		{ItemID: 1001, Quantity: 2, Source: "inventory"},
		{ItemID: 1002, Quantity: 5, Source: "storage"},
		{ItemID: 1001, Quantity: 1, Source: "storage"},
	}}

	require.NoError(t, d.Prime(context.Background(), inventory))

	// One initial batch covering every present stack, grouped.
	files := historyFiles(t, root, 1)
	require.Len(t, files, 1)
	batch := readBatch(t, root, 1, files[0])
	assert.Equal(t, []int{1001, 1002}, batch.Items)
	assert.Equal(t, []int{3, 5}, batch.Quantities)

	// Everything present is marked collected.
	assert.Equal(t, 2, d.CollectedCount(1))

	// The handshake never repeats.
	require.NoError(t, d.Prime(context.Background(), inventory))
	assert.Len(t, historyFiles(t, root, 1), 1)
	assert.Equal(t, 1, inventory.calls)
}

func TestDebouncer_PrimeFailureAllowsRetry(t *testing.T) {
	d, _, _, root := newTestDebouncer(t)

	inventory := &fakeInventory{err: assert.AnError}
	require.Error(t, d.Prime(context.Background(), inventory))
	assert.Empty(t, historyFiles(t, root, 1))

	inventory.err = nil
	inventory.stacks = []gamedata.ItemStack{{ItemID: 1, Quantity: 1}}
	require.NoError(t, d.Prime(context.Background(), inventory))
	assert.Len(t, historyFiles(t, root, 1), 1)
}

// switchableSlot is a SaveSlotProvider whose active slot can change mid-test.
type switchableSlot struct {
	mu   sync.Mutex
	slot int
}

func (s *switchableSlot) ActiveSlot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot
}

func (s *switchableSlot) Set(slot int) {
	s.mu.Lock()
	s.slot = slot
	s.mu.Unlock()
}

// fakeInventory is an in-memory InventoryReader.
type fakeInventory struct {
	stacks []gamedata.ItemStack
	err    error
	calls  int
}

func (f *fakeInventory) Snapshot(ctx context.Context, saveSlot int) ([]gamedata.ItemStack, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stacks, nil
}
