package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/database"
)

// LotSnapshot is one inventory lot as read for rotation analysis.
// Only lots with a known expiry date and stock on hand are returned;
// unit cost defaults to zero when the product has no cost recorded.
type LotSnapshot struct {
	LotID             string          `db:"lot_id" json:"lot_id"`
	ProductID         string          `db:"product_id" json:"product_id"`
	ProductName       string          `db:"product_name" json:"product_name"`
	UnitCost          decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	LocationID        string          `db:"location_id" json:"location_id"`
	LocationName      string          `db:"location_name" json:"location_name"`
	BatchNumber       *string         `db:"batch_number" json:"batch_number,omitempty"`
	QuantityAvailable int             `db:"quantity_available" json:"quantity_available"`
	ExpiryDate        time.Time       `db:"expiry_date" json:"expiry_date"`
	LastMovementAt    *time.Time      `db:"last_movement_at" json:"last_movement_at,omitempty"`
}

// SnapshotRepository reads the current inventory state with product and
// location joins
type SnapshotRepository struct {
	db *database.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// FetchExpiringLots returns all lots with a non-null expiry date and positive
// available quantity, earliest expiry first.
func (r *SnapshotRepository) FetchExpiringLots(ctx context.Context) ([]LotSnapshot, error) {
	query := `
		SELECT
			il.id AS lot_id,
			p.id AS product_id,
			p.name AS product_name,
			COALESCE(p.unit_cost, 0) AS unit_cost,
			l.id AS location_id,
			l.name AS location_name,
			il.batch_number,
			il.quantity_available,
			il.expiry_date,
			il.last_movement_at
		FROM inventory_lots il
		JOIN products p ON p.id = il.product_id
		JOIN locations l ON l.id = il.location_id
		WHERE il.expiry_date IS NOT NULL
		  AND il.quantity_available > 0
		ORDER BY il.expiry_date ASC, il.id ASC
	`

	var lots []LotSnapshot
	if err := r.db.SelectContext(ctx, &lots, query); err != nil {
		return nil, err
	}

	return lots, nil
}
