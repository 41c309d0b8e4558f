package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/carnotes-app/carnotes/internal/store"
)

// HousekeepingService periodically deletes refresh-token records that can
// never validate again, so the table does not grow without bound.
type HousekeepingService struct {
	Store      store.Store
	Logger     *slog.Logger
	Interval   time.Duration
	RefreshTTL time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. An interval of 0 or
// less defaults to 1 hour.
func NewHousekeepingService(
	st store.Store,
	logger *slog.Logger,
	interval, refreshTTL time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:      st,
		Logger:     logger,
		Interval:   interval,
		RefreshTTL: refreshTTL,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress cleanup
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once on startup so a restart doesn't wait a full interval.
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes records older than the refresh TTL. Such records back
// tokens that are expired by signature anyway; removing them only changes
// which 401 path a straggler takes.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-s.RefreshTTL)
	if err := s.Store.RefreshTokens().DeleteRefreshTokensCreatedBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete stale refresh token records", "error", err)
		return
	}
	s.Logger.Debug("deleted stale refresh token records", "cutoff", cutoff)
}
