package cache

import (
	"context"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
)

// ReportCache stores the latest rotation report so other processes (and
// restarts) can serve it without waiting for a fresh computation.
type ReportCache interface {
	SetReport(ctx context.Context, report *service.RotationReport) error
	GetReport(ctx context.Context) (*service.RotationReport, error)
}

// NoopReportCache is used when Redis is not configured. Writes succeed and
// reads always miss.
type NoopReportCache struct{}

// NewNoopReportCache creates a cache that does nothing
func NewNoopReportCache() *NoopReportCache {
	return &NoopReportCache{}
}

// SetReport discards the report
func (c *NoopReportCache) SetReport(_ context.Context, _ *service.RotationReport) error {
	return nil
}

// GetReport always reports a miss
func (c *NoopReportCache) GetReport(_ context.Context) (*service.RotationReport, error) {
	return nil, nil
}
