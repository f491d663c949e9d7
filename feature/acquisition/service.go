package acquisition

import (
	"context"
	"sync"

	"itemdex/core/gamedata"

	"go.uber.org/zap"
)

// Service owns the debouncer's lifecycle: the startup handshake, the
// subscriptions to every event source, and the teardown flush.
type Service struct {
	debouncer *Debouncer
	inventory gamedata.InventoryReader
	sources   []EventSource
	logger    *zap.Logger

	mu      sync.Mutex
	started bool
}

// Status is the monitoring surface exposed over HTTP.
type Status struct {
	Started       bool `json:"started"`
	PendingEvents int  `json:"pending_events"`
	SaveSlot      int  `json:"save_slot"`
	Collected     int  `json:"collected"`
}

// NewService creates the acquisition service. inventory may be nil, in which
// case the startup handshake is skipped and incremental events are trusted
// from the start.
func NewService(debouncer *Debouncer, inventory gamedata.InventoryReader, logger *zap.Logger, sources ...EventSource) *Service {
	return &Service{
		debouncer: debouncer,
		inventory: inventory,
		sources:   sources,
		logger:    logger,
	}
}

// Start runs the handshake and subscribes to all event sources. Idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	if s.inventory != nil {
		if err := s.debouncer.Prime(ctx, s.inventory); err != nil {
			// Upstream-unavailable is not fatal; incremental events still flow.
			s.logger.Warn("Startup handshake failed", zap.Error(err))
		}
	} else {
		s.logger.Warn("No inventory reader available, skipping startup handshake")
	}

	for _, src := range s.sources {
		src.Subscribe(s.debouncer.Enqueue)
	}
	s.logger.Info("Acquisition monitoring started", zap.Int("sources", len(s.sources)))
	return nil
}

// Stop unsubscribes from all sources and forces a final synchronous flush so
// nothing pending is lost.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	for _, src := range s.sources {
		src.Unsubscribe()
	}
	s.debouncer.Flush()
	s.logger.Info("Acquisition monitoring stopped")
}

// Status reports the pipeline's current state.
func (s *Service) Status() Status {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	saveSlot := s.debouncer.slots.ActiveSlot()
	return Status{
		Started:       started,
		PendingEvents: s.debouncer.PendingCount(),
		SaveSlot:      saveSlot,
		Collected:     s.debouncer.CollectedCount(saveSlot),
	}
}
