package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"itemdex/core/gamedata"
	"itemdex/core/imaging"
	"itemdex/core/paths"
	"itemdex/core/storage"

	"go.uber.org/zap"
)

// Store reads and writes one record per (saveSlot, itemID) under the sharded
// catalog tree. It holds no internal lock: callers must not issue concurrent
// Puts for the same key from different components.
type Store struct {
	root    string
	exec    imaging.Executor
	encoder imaging.Encoder
	mirror  *storage.Mirror
	logger  *zap.Logger
}

// NewStore creates a catalog store rooted at the data root. mirror may be nil.
func NewStore(root string, exec imaging.Executor, encoder imaging.Encoder, mirror *storage.Mirror, logger *zap.Logger) *Store {
	return &Store{
		root:    root,
		exec:    exec,
		encoder: encoder,
		mirror:  mirror,
		logger:  logger,
	}
}

// Root returns the data root the store writes under.
func (s *Store) Root() string { return s.root }

// Get reads the stored record for a key. Missing and malformed files both
// report not-found; malformed files are logged so the forced re-export is
// visible.
func (s *Store) Get(saveSlot, itemID int) (*ItemRecord, bool) {
	path := paths.MetadataPath(s.root, saveSlot, itemID)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed to read catalog record",
				zap.Int("item_id", itemID), zap.Error(err))
		}
		return nil, false
	}

	var record ItemRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.logger.Error("Malformed catalog record, forcing re-export",
			zap.Int("item_id", itemID), zap.Error(err))
		return nil, false
	}
	return &record, true
}

// Put overwrites the record file wholesale and writes the sibling description
// file. When the definition carries a readable icon it is encoded through the
// executor and written as icon.png; iconWritten reports whether that happened.
// Any I/O failure is returned for the caller to count; the caller's scan loop
// continues with the next item.
func (s *Store) Put(ctx context.Context, saveSlot int, record ItemRecord, def gamedata.ItemDefinition) (iconWritten bool, err error) {
	dir := paths.CatalogDir(s.root, saveSlot, record.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	metaPath := paths.MetadataPath(s.root, saveSlot, record.ID)
	if err := s.writeJSON(ctx, metaPath, record); err != nil {
		return false, err
	}

	descPath := paths.DescriptionPath(s.root, saveSlot, record.ID)
	if err := s.writeJSON(ctx, descPath, newDescription(def)); err != nil {
		return false, err
	}

	if !def.Icon.Readable() {
		return false, nil
	}

	var encoded []byte
	var encErr error
	if err := s.exec.Do(ctx, func() {
		encoded, encErr = s.encoder.Encode(def.Icon)
	}); err != nil {
		return false, fmt.Errorf("failed to reach render context: %w", err)
	}
	if encErr != nil {
		// Unreadable pixel data is counted as a skipped image upstream.
		s.logger.Warn("Icon encode failed, skipping image",
			zap.Int("item_id", record.ID), zap.Error(encErr))
		return false, nil
	}

	iconPath := paths.IconPath(s.root, saveSlot, record.ID)
	if err := os.WriteFile(iconPath, encoded, 0o644); err != nil {
		return false, fmt.Errorf("failed to write icon: %w", err)
	}
	s.mirror.Upload(ctx, s.root, iconPath)

	return true, nil
}

// ProvisionShards pre-creates the digit folders for a save slot.
func (s *Store) ProvisionShards(saveSlot int) error {
	return paths.ProvisionShards(s.root, saveSlot)
}

func (s *Store) writeJSON(ctx context.Context, path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.mirror.Upload(ctx, s.root, path)
	return nil
}
