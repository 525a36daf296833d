package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
)

// RestockSuggestion is one product flagged as below its minimum stock level
type RestockSuggestion struct {
	ProductID        string             `json:"product_id"`
	ProductName      string             `json:"product_name"`
	SKU              string             `json:"sku"`
	CurrentStock     int                `json:"current_stock"`
	MinStockUnits    int                `json:"min_stock_units"`
	SuggestedUnits   int                `json:"suggested_units"`
	SuggestedBatches int                `json:"suggested_batches"`
	Priority         SuggestionPriority `json:"priority"`
	Reason           string             `json:"reason"`
	EstimatedCost    decimal.Decimal    `json:"estimated_cost"`
}

// ProductStockLister reads aggregated product stock positions
type ProductStockLister interface {
	ListProductStock(ctx context.Context) ([]repository.ProductStock, error)
}

// RestockAdvisor computes restock suggestions for products under their
// minimum stock level. Quantities are rounded up to whole production batches.
type RestockAdvisor struct {
	repo   ProductStockLister
	logger *logger.Logger
}

// NewRestockAdvisor creates a new restock advisor
func NewRestockAdvisor(repo ProductStockLister, log *logger.Logger) *RestockAdvisor {
	return &RestockAdvisor{
		repo:   repo,
		logger: log,
	}
}

// Suggest returns restock suggestions ordered by priority, then product name.
// The replenishment target is twice the minimum so a single order covers the
// next cycle instead of landing exactly on the threshold again.
func (a *RestockAdvisor) Suggest(ctx context.Context) ([]RestockSuggestion, error) {
	products, err := a.repo.ListProductStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("restock: list product stock: %w", err)
	}

	suggestions := make([]RestockSuggestion, 0)

	for _, p := range products {
		if p.MinStockUnits <= 0 || p.CurrentStock >= p.MinStockUnits {
			continue
		}

		target := p.MinStockUnits * 2
		shortfall := target - p.CurrentStock

		unitsPerBatch := p.UnitsPerBatch
		if unitsPerBatch <= 0 {
			unitsPerBatch = 1
		}

		batches := (shortfall + unitsPerBatch - 1) / unitsPerBatch
		units := batches * unitsPerBatch

		priority := PriorityMedium
		reason := fmt.Sprintf("Stock bajo mínimo (%d/%d unidades).", p.CurrentStock, p.MinStockUnits)
		switch {
		case p.CurrentStock == 0:
			priority = PriorityHigh
			reason = "Sin stock disponible. Reabastecer de inmediato."
		case p.CurrentStock < p.MinStockUnits/2:
			priority = PriorityHigh
		}

		suggestions = append(suggestions, RestockSuggestion{
			ProductID:        p.ProductID,
			ProductName:      p.ProductName,
			SKU:              p.SKU,
			CurrentStock:     p.CurrentStock,
			MinStockUnits:    p.MinStockUnits,
			SuggestedUnits:   units,
			SuggestedBatches: batches,
			Priority:         priority,
			Reason:           reason,
			EstimatedCost:    decimal.NewFromInt(int64(units)).Mul(p.UnitCost),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return priorityRank[suggestions[i].Priority] > priorityRank[suggestions[j].Priority]
		}
		return suggestions[i].ProductName < suggestions[j].ProductName
	})

	return suggestions, nil
}
