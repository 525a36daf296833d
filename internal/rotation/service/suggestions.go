package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
)

// SuggestionAction is the kind of rotation action being recommended
type SuggestionAction string

// Suggestion actions. Dispose is accepted by ExecuteAction as a manual
// escalation from the UI but is never emitted by the automatic rules.
const (
	ActionTransfer SuggestionAction = "transfer"
	ActionDiscount SuggestionAction = "discount"
	ActionDispose  SuggestionAction = "dispose"
	ActionPromote  SuggestionAction = "promote"
)

// SuggestionPriority orders suggestions for the operator
type SuggestionPriority string

// Suggestion priorities
const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

var priorityRank = map[SuggestionPriority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// RotationSuggestion is one recommended rotation action for a product lot
type RotationSuggestion struct {
	ProductID       string             `json:"product_id"`
	ProductName     string             `json:"product_name"`
	LocationID      string             `json:"location_id"`
	LocationName    string             `json:"location_name"`
	Action          SuggestionAction   `json:"action"`
	Priority        SuggestionPriority `json:"priority"`
	Quantity        int                `json:"quantity"`
	Reason          string             `json:"reason"`
	ExpiryDate      time.Time          `json:"expiry_date"`
	FinancialImpact decimal.Decimal    `json:"financial_impact"`
}

// SuggestRotation derives rotation suggestions from the snapshot.
//
// Two independent rules run per product group:
//   - FEFO: a product with several lots whose earliest lot expires within
//     15 days gets one suggestion to rotate that lot out first. Single-lot
//     products never trigger this rule; there is nothing to reorder.
//   - Slow mover: any lot without movement for over 60 days gets a transfer
//     suggestion for half its quantity.
//
// A lot can contribute to both rules in the same cycle.
func SuggestRotation(lots []repository.LotSnapshot, today time.Time) []RotationSuggestion {
	groups := make(map[string][]repository.LotSnapshot)
	for _, lot := range lots {
		groups[lot.ProductID] = append(groups[lot.ProductID], lot)
	}

	productIDs := make([]string, 0, len(groups))
	for id := range groups {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var suggestions []RotationSuggestion

	for _, productID := range productIDs {
		group := groups[productID]

		// FEFO order: earliest expiry first, ties broken by lot id
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].ExpiryDate.Equal(group[j].ExpiryDate) {
				return group[i].ExpiryDate.Before(group[j].ExpiryDate)
			}
			return group[i].LotID < group[j].LotID
		})

		first := group[0]
		daysUntil := calendarDaysBetween(today, first.ExpiryDate)

		if len(group) > 1 && daysUntil <= warningThresholdDays {
			action, priority := ActionPromote, PriorityMedium
			if daysUntil <= criticalThresholdDays {
				action, priority = ActionDiscount, PriorityHigh
			}

			suggestions = append(suggestions, RotationSuggestion{
				ProductID:    first.ProductID,
				ProductName:  first.ProductName,
				LocationID:   first.LocationID,
				LocationName: first.LocationName,
				Action:       action,
				Priority:     priority,
				Quantity:     first.QuantityAvailable,
				Reason:       fmt.Sprintf("Lote vence en %d días. Priorizar según FEFO.", daysUntil),
				ExpiryDate:   first.ExpiryDate,
				FinancialImpact: decimal.NewFromInt(int64(first.QuantityAvailable)).
					Mul(first.UnitCost),
			})
		}

		for _, lot := range group {
			staleness := stalenessDays(today, lot.LastMovementAt)
			if staleness <= slowMoverThresholdDays {
				continue
			}

			half := decimal.NewFromInt(int64(lot.QuantityAvailable)).
				Mul(decimal.NewFromFloat(0.5))

			suggestions = append(suggestions, RotationSuggestion{
				ProductID:       lot.ProductID,
				ProductName:     lot.ProductName,
				LocationID:      lot.LocationID,
				LocationName:    lot.LocationName,
				Action:          ActionTransfer,
				Priority:        PriorityMedium,
				Quantity:        lot.QuantityAvailable / 2,
				Reason:          fmt.Sprintf("Sin movimiento por %d días. Considerar reubicación.", staleness),
				ExpiryDate:      lot.ExpiryDate,
				FinancialImpact: half.Mul(lot.UnitCost),
			})
		}
	}

	// Stable so ties keep the deterministic per-product emission order
	sort.SliceStable(suggestions, func(i, j int) bool {
		return priorityRank[suggestions[i].Priority] > priorityRank[suggestions[j].Priority]
	})

	return suggestions
}
