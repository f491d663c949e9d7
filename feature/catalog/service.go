package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrScanInProgress is returned when a pass is requested while one is running.
var ErrScanInProgress = errors.New("catalog scan already in progress")

// Service owns the scanner and keeps the most recent pass summary. Scans run
// on a background goroutine so triggering one never blocks the caller.
type Service struct {
	scanner *Scanner
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
	last    *Summary
}

// NewService creates the catalog service.
func NewService(scanner *Scanner, logger *zap.Logger) *Service {
	return &Service{scanner: scanner, logger: logger}
}

// RunOnce executes a pass synchronously. Used by the one-shot CLI command and
// by scheduled scans.
func (s *Service) RunOnce(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrScanInProgress
	}
	s.running = true
	s.mu.Unlock()

	summary, err := s.scanner.Run(ctx)

	s.mu.Lock()
	s.running = false
	if summary != nil {
		s.last = summary
	}
	s.mu.Unlock()

	return summary, err
}

// TriggerScan starts a pass in the background. Returns false when a pass is
// already running. The pass outlives the caller's request, so it runs under
// its own context.
func (s *Service) TriggerScan() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	go func() {
		if _, err := s.RunOnce(context.Background()); err != nil && err != ErrScanInProgress {
			s.logger.Error("Catalog pass aborted", zap.Error(err))
		}
	}()
	return true
}

// LastSummary returns the most recent completed pass, if any.
func (s *Service) LastSummary() (*Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, false
	}
	summary := *s.last
	return &summary, true
}
