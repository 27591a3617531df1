package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/store"
)

// HousekeepingService periodically removes used and expired magic links so
// the table does not grow without bound. Invitations never expire and are
// kept as an audit trail.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the worker. A non-positive interval
// defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background loop. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress cleanup ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

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

// cleanup drops magic links that are used or expired as of now.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	if err := s.Store.MagicLinks().DeleteStaleMagicLinks(ctx, time.Now()); err != nil {
		s.Logger.Error("failed to clean up magic links", "error", err)
		return
	}
	s.Logger.Debug("housekeeping cleanup complete")
}
