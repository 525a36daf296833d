package service

import (
	"time"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
)

// AlertLevel is the severity tier of an expiry alert
type AlertLevel string

// Alert levels
const (
	AlertLevelCritical AlertLevel = "critical"
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelInfo     AlertLevel = "info"
)

// ExpiryAlert is one lot flagged for near-term expiry. Alerts are recomputed
// from scratch on every refresh and never persisted by this service.
type ExpiryAlert struct {
	ID               string     `json:"id"`
	ProductID        string     `json:"product_id"`
	ProductName      string     `json:"product_name"`
	LocationName     string     `json:"location_name"`
	BatchNumber      *string    `json:"batch_number,omitempty"`
	CurrentQuantity  int        `json:"current_quantity"`
	ExpiryDate       time.Time  `json:"expiry_date"`
	DaysUntilExpiry  int        `json:"days_until_expiry"`
	Level            AlertLevel `json:"alert_level"`
	SuggestedActions []string   `json:"suggested_actions"`
}

// ClassifyExpiry maps each lot to at most one expiry alert. Lots more than
// 30 days out produce no alert; already-expired lots are always critical.
func ClassifyExpiry(lots []repository.LotSnapshot, today time.Time) []ExpiryAlert {
	alerts := make([]ExpiryAlert, 0, len(lots))

	for _, lot := range lots {
		days := calendarDaysBetween(today, lot.ExpiryDate)
		level, ok := levelFor(days)
		if !ok {
			continue
		}

		alerts = append(alerts, ExpiryAlert{
			ID:               lot.LotID,
			ProductID:        lot.ProductID,
			ProductName:      lot.ProductName,
			LocationName:     lot.LocationName,
			BatchNumber:      lot.BatchNumber,
			CurrentQuantity:  lot.QuantityAvailable,
			ExpiryDate:       lot.ExpiryDate,
			DaysUntilExpiry:  days,
			Level:            level,
			SuggestedActions: suggestedActions(level, days),
		})
	}

	return alerts
}

func levelFor(daysUntilExpiry int) (AlertLevel, bool) {
	switch {
	case daysUntilExpiry <= criticalThresholdDays:
		return AlertLevelCritical, true
	case daysUntilExpiry <= warningThresholdDays:
		return AlertLevelWarning, true
	case daysUntilExpiry <= alertHorizonDays:
		return AlertLevelInfo, true
	default:
		return "", false
	}
}

// suggestedActions returns the fixed action texts shown to operators.
// The order is part of the contract with the UI.
func suggestedActions(level AlertLevel, daysUntilExpiry int) []string {
	switch level {
	case AlertLevelCritical:
		if daysUntilExpiry <= 1 {
			return []string{
				"Disposición inmediata si no se puede vender",
				"Descuento de emergencia 50-70%",
			}
		}
		return []string{
			"Transferir a ubicación de mayor rotación",
			"Promoción especial con descuento",
			"Priorizar en próximas ventas",
		}
	case AlertLevelWarning:
		return []string{
			"Planificar promoción para próxima semana",
			"Evaluar transferencia entre ubicaciones",
			"Considerar bundling con otros productos",
		}
	default:
		return []string{
			"Monitorear rotación del producto",
			"Evaluar políticas de reabastecimiento",
		}
	}
}
