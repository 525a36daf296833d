package service

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
)

// RotationMetrics summarizes the rotation health of the whole snapshot
type RotationMetrics struct {
	TotalExpiringSoon  int   `json:"total_expiring_soon"`
	TotalValueAtRisk   int64 `json:"total_value_at_risk"`
	AvgRotationDays    int   `json:"avg_rotation_days"`
	SlowMovingProducts int   `json:"slow_moving_products"`
}

// AggregateMetrics reduces the snapshot to summary statistics in one pass.
// The expiring-soon window (15 days) is independent of the 30-day alert
// horizon: lots counted here may not have produced an alert and vice versa.
func AggregateMetrics(lots []repository.LotSnapshot, today time.Time) RotationMetrics {
	var m RotationMetrics
	valueAtRisk := decimal.Zero
	stalenessTotal := 0

	for _, lot := range lots {
		daysUntil := calendarDaysBetween(today, lot.ExpiryDate)
		if daysUntil <= warningThresholdDays {
			m.TotalExpiringSoon++
			valueAtRisk = valueAtRisk.Add(
				decimal.NewFromInt(int64(lot.QuantityAvailable)).Mul(lot.UnitCost))
		}

		staleness := stalenessDays(today, lot.LastMovementAt)
		stalenessTotal += staleness
		if staleness > slowMoverThresholdDays {
			m.SlowMovingProducts++
		}
	}

	m.TotalValueAtRisk = valueAtRisk.Round(0).IntPart()
	if len(lots) > 0 {
		m.AvgRotationDays = int(math.Round(float64(stalenessTotal) / float64(len(lots))))
	}

	return m
}
