package catalog

import (
	"context"
	"fmt"
	"time"

	"itemdex/core/gamedata"

	"go.uber.org/zap"
)

// readyPollInterval is how often the scanner re-checks an upstream source
// that is not ready yet.
const readyPollInterval = 500 * time.Millisecond

// Summary holds the running totals of one catalog pass.
type Summary struct {
	Total          int    `json:"total"`
	Exported       int    `json:"exported"`
	Skipped        int    `json:"skipped"`
	Errors         int    `json:"errors"`
	ImagesExported int    `json:"images_exported"`
	ImagesSkipped  int    `json:"images_skipped"`
	SaveSlot       int    `json:"save_slot"`
	StartedAt      string `json:"started_at"`
	FinishedAt     string `json:"finished_at"`
	Duration       string `json:"duration"`
}

// Scanner performs one full, finite pass over the item master collection.
// It is a one-shot unit of work, invoked explicitly, not a polling loop.
type Scanner struct {
	master gamedata.ItemMasterCollection
	slots  gamedata.SaveSlotProvider
	store  *Store
	logger *zap.Logger
	clock  func() time.Time
}

// NewScanner creates a scanner over the given collection and store.
func NewScanner(master gamedata.ItemMasterCollection, slots gamedata.SaveSlotProvider, store *Store, logger *zap.Logger) *Scanner {
	return &Scanner{
		master: master,
		slots:  slots,
		store:  store,
		logger: logger,
		clock:  time.Now,
	}
}

// Run executes the pass and returns its summary. Per-item failures are
// counted and logged; only an unusable upstream (context end, enumeration
// failure) aborts the pass as a whole.
func (s *Scanner) Run(ctx context.Context) (*Summary, error) {
	if err := s.waitReady(ctx); err != nil {
		return nil, err
	}

	started := s.clock()
	saveSlot := s.slots.ActiveSlot()

	if err := s.store.ProvisionShards(saveSlot); err != nil {
		return nil, fmt.Errorf("failed to provision catalog tree: %w", err)
	}

	defs, err := s.master.Items(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		SaveSlot:  saveSlot,
		StartedAt: FormatTime(started),
	}

	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Total++

		exported, iconWritten, err := s.exportOne(ctx, saveSlot, def)
		switch {
		case err != nil:
			summary.Errors++
			s.logger.Error("Item export failed",
				zap.Int("item_id", def.ID), zap.Error(err))
		case !exported:
			summary.Skipped++
		default:
			summary.Exported++
			if iconWritten {
				summary.ImagesExported++
			} else {
				summary.ImagesSkipped++
			}
		}
	}

	finished := s.clock()
	summary.FinishedAt = FormatTime(finished)
	summary.Duration = finished.Sub(started).String()

	s.logger.Info("Catalog pass finished",
		zap.Int("save_slot", saveSlot),
		zap.Int("total", summary.Total),
		zap.Int("exported", summary.Exported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors),
		zap.Int("images_exported", summary.ImagesExported),
		zap.Int("images_skipped", summary.ImagesSkipped),
	)
	return summary, nil
}

// exportOne handles a single item: lookup, change detection, conditional
// write. Unchanged items cause no file touch at all.
func (s *Scanner) exportOne(ctx context.Context, saveSlot int, def gamedata.ItemDefinition) (exported, iconWritten bool, err error) {
	prev, _ := s.store.Get(saveSlot, def.ID)

	detection := Detect(def, prev, s.clock())
	if !detection.Changed {
		return false, false, nil
	}

	iconWritten, err = s.store.Put(ctx, saveSlot, detection.Record, def)
	if err != nil {
		return false, false, err
	}
	return true, iconWritten, nil
}

// waitReady polls the master collection cooperatively until it can be
// enumerated. Upstream-unavailable is never escalated as fatal, only the
// context ending stops the wait.
func (s *Scanner) waitReady(ctx context.Context) error {
	if s.master.Ready() {
		return nil
	}
	s.logger.Info("Item master collection not ready, waiting")

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.master.Ready() {
				return nil
			}
		}
	}
}
