package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
)

func TestAggregateMetrics_EmptySnapshot(t *testing.T) {
	m := service.AggregateMetrics(nil, testToday)

	assert.Equal(t, 0, m.TotalExpiringSoon)
	assert.Equal(t, int64(0), m.TotalValueAtRisk)
	assert.Equal(t, 0, m.AvgRotationDays)
	assert.Equal(t, 0, m.SlowMovingProducts)
}

func TestAggregateMetrics_ExpiringSoonWindowIs15Days(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 10, "10", 15, intPtr(1)),
		makeLot("lot-2", "prod-2", 10, "10", 16, intPtr(1)),
	}

	m := service.AggregateMetrics(lots, testToday)

	// The 16-day lot is alert-worthy (info) but outside the metrics window
	assert.Equal(t, 1, m.TotalExpiringSoon)
	assert.Equal(t, int64(100), m.TotalValueAtRisk)
}

func TestAggregateMetrics_ValueAtRiskIncludesExpired(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 5, "12", -2, intPtr(1)),
	}

	m := service.AggregateMetrics(lots, testToday)

	assert.Equal(t, 1, m.TotalExpiringSoon)
	assert.Equal(t, int64(60), m.TotalValueAtRisk)
}

func TestAggregateMetrics_AvgRotationRoundsToNearest(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 10, "10", 100, intPtr(90)),
		makeLot("lot-2", "prod-2", 10, "10", 100, intPtr(5)),
	}

	m := service.AggregateMetrics(lots, testToday)

	// mean(90, 5) = 47.5 rounds to 48
	assert.Equal(t, 48, m.AvgRotationDays)
	assert.Equal(t, 1, m.SlowMovingProducts)
}

func TestAggregateMetrics_MissingLastMovementCountsAsZero(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 10, "10", 100, intPtr(80)),
		makeLot("lot-2", "prod-2", 10, "10", 100, nil),
	}

	m := service.AggregateMetrics(lots, testToday)

	assert.Equal(t, 40, m.AvgRotationDays)
	assert.Equal(t, 1, m.SlowMovingProducts)
}

func TestAggregateMetrics_ReferenceScenario(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 100, "10", 5, intPtr(90)),
		makeLot("lot-2", "prod-1", 50, "10", 40, intPtr(5)),
	}

	m := service.AggregateMetrics(lots, testToday)

	assert.Equal(t, 1, m.TotalExpiringSoon)
	assert.Equal(t, int64(1000), m.TotalValueAtRisk)
	assert.Equal(t, 48, m.AvgRotationDays)
	assert.Equal(t, 1, m.SlowMovingProducts)
}
