package acquisition

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"itemdex/core/paths"
	"itemdex/core/storage"

	"go.uber.org/zap"
)

// HistoryLog is an append-only writer producing one immutable file per
// flushed batch, named from the batch's timestamp.
//
// Filenames carry second resolution only: two flushes within the same
// wall-clock second for one save slot produce the same name and the second
// write replaces the first. Downstream consumers key on this naming, so the
// scheme is kept as-is despite the hazard.
type HistoryLog struct {
	root   string
	mirror *storage.Mirror
	logger *zap.Logger
}

// NewHistoryLog creates a history log rooted at the data root. mirror may be
// nil.
func NewHistoryLog(root string, mirror *storage.Mirror, logger *zap.Logger) *HistoryLog {
	return &HistoryLog{root: root, mirror: mirror, logger: logger}
}

// Append serializes the batch into a brand-new file. Existing files are never
// edited.
func (h *HistoryLog) Append(ctx context.Context, saveSlot int, at time.Time, batch Batch) error {
	if err := os.MkdirAll(paths.HistoryDir(h.root, saveSlot), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize batch: %w", err)
	}

	path := paths.HistoryPath(h.root, saveSlot, at)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	h.mirror.Upload(ctx, h.root, path)

	h.logger.Debug("History batch written",
		zap.Int("save_slot", saveSlot),
		zap.Int("items", len(batch.Items)),
		zap.String("path", path))
	return nil
}
