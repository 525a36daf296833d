package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/database"
)

// ProductStock is the aggregated stock position of one active product
type ProductStock struct {
	ProductID     string          `db:"product_id" json:"product_id"`
	ProductName   string          `db:"product_name" json:"product_name"`
	SKU           string          `db:"sku" json:"sku"`
	MinStockUnits int             `db:"min_stock_units" json:"min_stock_units"`
	UnitsPerBatch int             `db:"units_per_batch" json:"units_per_batch"`
	UnitCost      decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	CurrentStock  int             `db:"current_stock" json:"current_stock"`
}

// RestockRepository reads product stock positions for restock suggestions
type RestockRepository struct {
	db *database.DB
}

// NewRestockRepository creates a new restock repository
func NewRestockRepository(db *database.DB) *RestockRepository {
	return &RestockRepository{db: db}
}

// ListProductStock returns the stock position of every active product,
// summed across all lots and locations.
func (r *RestockRepository) ListProductStock(ctx context.Context) ([]ProductStock, error) {
	query := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.sku,
			p.min_stock_units,
			p.units_per_batch,
			COALESCE(p.unit_cost, 0) AS unit_cost,
			COALESCE(SUM(il.quantity_available), 0) AS current_stock
		FROM products p
		LEFT JOIN inventory_lots il ON il.product_id = p.id
		WHERE p.is_active = TRUE
		GROUP BY p.id, p.name, p.sku, p.min_stock_units, p.units_per_batch, p.unit_cost
		ORDER BY p.name ASC
	`

	var products []ProductStock
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}

	return products, nil
}
