package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/errors"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
)

// Status is the lifecycle state of the rotation service
type Status string

// Rotation service states
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// RotationReport is the combined output of one refresh cycle. All three
// sections are derived from the same snapshot; the report is replaced
// wholesale on the next cycle and never mutated in place.
type RotationReport struct {
	Alerts      []ExpiryAlert        `json:"alerts"`
	Suggestions []RotationSuggestion `json:"suggestions"`
	Metrics     RotationMetrics      `json:"metrics"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// SnapshotProvider reads the current inventory state
type SnapshotProvider interface {
	FetchExpiringLots(ctx context.Context) ([]repository.LotSnapshot, error)
}

// NotificationSink accepts a batch of critical alerts for delivery.
// Submission is best-effort; the rotation result stands even if it fails.
type NotificationSink interface {
	EnqueueCriticalAlerts(ctx context.Context, alerts []ExpiryAlert) error
}

// ActionAcknowledger records that a suggestion was accepted by an operator
type ActionAcknowledger interface {
	AcknowledgeAction(ctx context.Context, suggestion RotationSuggestion) error
}

// ReportCache stores the latest report for out-of-process readers
type ReportCache interface {
	SetReport(ctx context.Context, report *RotationReport) error
}

// RotationService orchestrates snapshot fetching, alert classification,
// suggestion generation and metrics aggregation
type RotationService struct {
	provider     SnapshotProvider
	sink         NotificationSink
	acknowledger ActionAcknowledger
	cache        ReportCache
	logger       *logger.Logger
	now          func() time.Time

	mu      sync.Mutex
	status  Status
	report  *RotationReport
	lastErr string
	seq     uint64 // id of the most recently started cycle
	applied uint64 // id of the cycle that produced the current result
}

// NewRotationService creates a new rotation service. cache may be nil when
// report caching is disabled.
func NewRotationService(
	provider SnapshotProvider,
	sink NotificationSink,
	acknowledger ActionAcknowledger,
	cache ReportCache,
	log *logger.Logger,
) *RotationService {
	return &RotationService{
		provider:     provider,
		sink:         sink,
		acknowledger: acknowledger,
		cache:        cache,
		logger:       log,
		now:          time.Now,
		status:       StatusIdle,
	}
}

// Refresh fetches a fresh snapshot and recomputes the full report.
//
// The snapshot is fetched exactly once per cycle and shared by all three
// derivations. Overlapping refreshes are not serialized; instead each cycle
// carries a sequence number and only the newest completed cycle may occupy
// the result slot, so a slow in-flight fetch can never clobber a newer one.
func (s *RotationService) Refresh(ctx context.Context) (*RotationReport, error) {
	s.mu.Lock()
	s.seq++
	cycle := s.seq
	s.status = StatusLoading
	s.mu.Unlock()

	lots, err := s.provider.FetchExpiringLots(ctx)
	if err != nil {
		appErr := errors.Wrap(err, "SNAPSHOT_FETCH_FAILED",
			"failed to load inventory snapshot", http.StatusBadGateway)

		s.mu.Lock()
		if cycle > s.applied {
			s.applied = cycle
			s.status = StatusError
			s.lastErr = appErr.Message
			// No stale-while-error: callers see the error, not old data
			s.report = nil
		}
		s.mu.Unlock()

		return nil, appErr
	}

	today := s.now()
	report := &RotationReport{
		Alerts:      ClassifyExpiry(lots, today),
		Suggestions: SuggestRotation(lots, today),
		Metrics:     AggregateMetrics(lots, today),
		GeneratedAt: today.UTC(),
	}

	s.notifyCritical(ctx, report.Alerts)

	s.mu.Lock()
	stale := cycle <= s.applied
	if !stale {
		s.applied = cycle
		s.status = StatusReady
		s.report = report
		s.lastErr = ""
	}
	s.mu.Unlock()

	if !stale && s.cache != nil {
		if err := s.cache.SetReport(ctx, report); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache rotation report")
		}
	}

	return report, nil
}

// notifyCritical submits critical alerts to the notification sink.
// Failures are logged and never abort the refresh cycle.
func (s *RotationService) notifyCritical(ctx context.Context, alerts []ExpiryAlert) {
	critical := make([]ExpiryAlert, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Level == AlertLevelCritical {
			critical = append(critical, alert)
		}
	}

	if len(critical) == 0 {
		return
	}

	if err := s.sink.EnqueueCriticalAlerts(ctx, critical); err != nil {
		s.logger.Error().Err(err).
			Int("alert_count", len(critical)).
			Msg("failed to enqueue critical expiry alerts")
	}
}

// ExecuteAction records operator acceptance of a suggestion. This is an
// advisory acknowledgment only: it never mutates inventory or movements.
// Failures are surfaced per call and leave the service state untouched.
func (s *RotationService) ExecuteAction(ctx context.Context, suggestion RotationSuggestion) error {
	switch suggestion.Action {
	case ActionTransfer, ActionDiscount, ActionDispose, ActionPromote:
	default:
		return errors.BadRequest("unknown rotation action: " + string(suggestion.Action))
	}

	if err := s.acknowledger.AcknowledgeAction(ctx, suggestion); err != nil {
		return errors.Wrap(err, "ACTION_ACK_FAILED",
			"failed to acknowledge rotation action", http.StatusBadGateway)
	}

	s.logger.Info().
		Str("product_id", suggestion.ProductID).
		Str("action", string(suggestion.Action)).
		Int("quantity", suggestion.Quantity).
		Msg("rotation action acknowledged")

	return nil
}

// Current returns the service state, the latest report (nil unless ready)
// and the last error message (empty unless errored).
func (s *RotationService) Current() (Status, *RotationReport, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.report, s.lastErr
}
