package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"itemdex/core/gamedata"
	"itemdex/core/paths"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMaster is an in-memory ItemMasterCollection.
type fakeMaster struct {
	defs     []gamedata.ItemDefinition
	ready    bool
	readyAt  int
	askCount int
}

func (f *fakeMaster) Ready() bool {
	if f.ready {
		return true
	}
	f.askCount++
	if f.readyAt > 0 && f.askCount >= f.readyAt {
		f.ready = true
	}
	return f.ready
}

func (f *fakeMaster) Items(ctx context.Context) ([]gamedata.ItemDefinition, error) {
	return f.defs, nil
}

func newTestScanner(t *testing.T, master *fakeMaster) (*Scanner, *Store) {
	t.Helper()
	store := newTestStore(t)
	scanner := NewScanner(master, gamedata.FixedSlot(1), store, zap.NewNop())
	return scanner, store
}

func TestScanner_FullPass(t *testing.T) {
	defs := []gamedata.ItemDefinition{
		{ID: 1001, Name: "Sword", Icon: testIcon()},
		{ID: 1002, Name: "Herb"},
		{ID: 1003, Name: "Shield", Icon: testIcon()},
	}
	scanner, store := newTestScanner(t, &fakeMaster{defs: defs, ready: true})

	summary, err := scanner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Exported)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 2, summary.ImagesExported)
	assert.Equal(t, 1, summary.ImagesSkipped)

	for _, def := range defs {
		_, ok := store.Get(1, def.ID)
		assert.True(t, ok)
	}
}

func TestScanner_SecondPassSkipsUnchanged(t *testing.T) {
	defs := []gamedata.ItemDefinition{{ID: 1001, Name: "Sword"}, {ID: 1002, Name: "Herb"}}
	master := &fakeMaster{defs: defs, ready: true}
	scanner, _ := newTestScanner(t, master)

	_, err := scanner.Run(context.Background())
	require.NoError(t, err)

	// Change one item in place.
	master.defs[0].Value = 999

	summary, err := scanner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exported)
	assert.Equal(t, 1, summary.Skipped)
}

func TestScanner_ErrorOnOneItemDoesNotAbortPass(t *testing.T) {
	defs := []gamedata.ItemDefinition{
		{ID: 10, Name: "Before"},
		{ID: 11, Name: "Broken"},
		{ID: 12, Name: "After"},
	}
	scanner, store := newTestScanner(t, &fakeMaster{defs: defs, ready: true})

	// Occupy item 11's directory path with a plain file so MkdirAll fails.
	blocked := paths.CatalogDir(store.Root(), 1, 11)
	require.NoError(t, os.MkdirAll(filepath.Dir(blocked), 0o755))
	require.NoError(t, os.WriteFile(blocked, []byte("in the way"), 0o644))

	summary, err := scanner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 2, summary.Exported)

	// Items after the failing one were still processed.
	_, ok := store.Get(1, 12)
	assert.True(t, ok)
}

func TestScanner_WaitsForReadyCollection(t *testing.T) {
	defs := []gamedata.ItemDefinition{{ID: 1, Name: "A"}}
	master := &fakeMaster{defs: defs, readyAt: 2}
	scanner, _ := newTestScanner(t, master)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := scanner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exported)
}

func TestScanner_NeverReadyStopsWithContext(t *testing.T) {
	master := &fakeMaster{}
	scanner, _ := newTestScanner(t, master)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := scanner.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
