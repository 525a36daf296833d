package service

import (
	"context"
	"time"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
)

// RestockNotifier publishes restock advisories surfaced by a scheduled cycle
type RestockNotifier interface {
	PublishRestockSuggested(ctx context.Context, suggestion RestockSuggestion)
}

// RefreshScheduler refreshes the rotation report periodically and publishes
// high-priority restock advisories. The report is derived data recomputed
// from scratch each cycle, so a failed tick only means the next one starts
// from the same place.
type RefreshScheduler struct {
	service  *RotationService
	advisor  *RestockAdvisor
	notifier RestockNotifier
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewRefreshScheduler creates a new refresh scheduler. advisor and notifier
// may be nil to disable scheduled restock advisories.
func NewRefreshScheduler(svc *RotationService, advisor *RestockAdvisor, notifier RestockNotifier, interval time.Duration, log *logger.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		service:  svc,
		advisor:  advisor,
		notifier: notifier,
		interval: interval,
		logger:   log,
	}
}

// Start starts the scheduler in a background goroutine. An initial refresh
// runs immediately so the service leaves the idle state at startup.
func (s *RefreshScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("rotation refresh scheduler started")

		s.runRefresh(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("rotation refresh scheduler stopped")
				return
			case <-ticker.C:
				s.runRefresh(ctx)
			}
		}
	}()
}

// Stop stops the scheduler goroutine
func (s *RefreshScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *RefreshScheduler) runRefresh(ctx context.Context) {
	start := time.Now()

	report, err := s.service.Refresh(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled rotation refresh failed")
		return
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Int("alerts", len(report.Alerts)).
		Int("suggestions", len(report.Suggestions)).
		Msg("rotation refresh completed")

	s.publishRestockAdvisories(ctx)
}

// publishRestockAdvisories emits an event per high-priority restock
// suggestion. Best-effort, once per cycle.
func (s *RefreshScheduler) publishRestockAdvisories(ctx context.Context) {
	if s.advisor == nil || s.notifier == nil {
		return
	}

	suggestions, err := s.advisor.Suggest(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled restock advisory failed")
		return
	}

	for _, suggestion := range suggestions {
		if suggestion.Priority != PriorityHigh {
			continue
		}
		s.notifier.PublishRestockSuggested(ctx, suggestion)
	}
}
