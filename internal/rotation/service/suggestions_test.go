package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/testutil"
)

func makeLot(lotID, productID string, qty int, cost string, expiryDays int, movedDaysAgo *int) repository.LotSnapshot {
	lot := repository.LotSnapshot{
		LotID:             lotID,
		ProductID:         productID,
		ProductName:       "Gomitas " + productID,
		UnitCost:          testutil.MustDecimal(cost),
		LocationID:        "loc-1",
		LocationName:      "Bodega Central",
		QuantityAvailable: qty,
		ExpiryDate:        testToday.AddDate(0, 0, expiryDays),
	}
	if movedDaysAgo != nil {
		lot.LastMovementAt = testutil.TimePtr(testToday.AddDate(0, 0, -*movedDaysAgo))
	}
	return lot
}

func intPtr(i int) *int { return &i }

func TestSuggestRotation_FEFORequiresMultipleLots(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 50, "10", 5, intPtr(2)),
	}

	suggestions := service.SuggestRotation(lots, testToday)

	assert.Empty(t, suggestions)
}

func TestSuggestRotation_FEFODiscountForCriticalLot(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-2", "prod-1", 80, "10", 40, intPtr(2)),
		makeLot("lot-1", "prod-1", 30, "10", 5, intPtr(2)),
	}

	suggestions := service.SuggestRotation(lots, testToday)

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, service.ActionDiscount, s.Action)
	assert.Equal(t, service.PriorityHigh, s.Priority)
	assert.Equal(t, 30, s.Quantity) // earliest lot drives the suggestion
	assert.Equal(t, "Lote vence en 5 días. Priorizar según FEFO.", s.Reason)
	assert.True(t, s.FinancialImpact.Equal(testutil.MustDecimal("300")))
}

func TestSuggestRotation_FEFOPromoteForWarningLot(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 30, "10", 12, intPtr(2)),
		makeLot("lot-2", "prod-1", 80, "10", 40, intPtr(2)),
	}

	suggestions := service.SuggestRotation(lots, testToday)

	require.Len(t, suggestions, 1)
	assert.Equal(t, service.ActionPromote, suggestions[0].Action)
	assert.Equal(t, service.PriorityMedium, suggestions[0].Priority)
}

func TestSuggestRotation_FEFOTieBrokenByLotID(t *testing.T) {
	// Same expiry date: the lexicographically smaller lot id wins
	lots := []repository.LotSnapshot{
		makeLot("lot-b", "prod-1", 80, "10", 5, intPtr(2)),
		makeLot("lot-a", "prod-1", 30, "10", 5, intPtr(2)),
	}

	suggestions := service.SuggestRotation(lots, testToday)

	require.Len(t, suggestions, 1)
	assert.Equal(t, 30, suggestions[0].Quantity)
}

func TestSuggestRotation_SlowMoverTransfer(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 7, "4", 200, intPtr(75)),
	}

	suggestions := service.SuggestRotation(lots, testToday)

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, service.ActionTransfer, s.Action)
	assert.Equal(t, service.PriorityMedium, s.Priority)
	assert.Equal(t, 3, s.Quantity) // floor(7/2)
	assert.Equal(t, "Sin movimiento por 75 días. Considerar reubicación.", s.Reason)
	// Impact is computed on the exact half, not the floored quantity
	assert.True(t, s.FinancialImpact.Equal(testutil.MustDecimal("14")))
}

func TestSuggestRotation_SlowMoverBoundary(t *testing.T) {
	exactly60 := service.SuggestRotation([]repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 10, "5", 200, intPtr(60)),
	}, testToday)
	assert.Empty(t, exactly60)

	over60 := service.SuggestRotation([]repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 10, "5", 200, intPtr(61)),
	}, testToday)
	assert.Len(t, over60, 1)
}

func TestSuggestRotation_MissingLastMovementIsNotStale(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 10, "5", 200, nil),
	}

	suggestions := service.SuggestRotation(lots, testToday)

	assert.Empty(t, suggestions)
}

func TestSuggestRotation_LotCanTriggerBothRules(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-1", 100, "10", 5, intPtr(90)),
		makeLot("lot-2", "prod-1", 50, "10", 40, intPtr(5)),
	}

	suggestions := service.SuggestRotation(lots, testToday)

	require.Len(t, suggestions, 2)

	// High priority FEFO suggestion sorts first
	assert.Equal(t, service.ActionDiscount, suggestions[0].Action)
	assert.Equal(t, service.PriorityHigh, suggestions[0].Priority)
	assert.Equal(t, 100, suggestions[0].Quantity)
	assert.True(t, suggestions[0].FinancialImpact.Equal(testutil.MustDecimal("1000")))

	assert.Equal(t, service.ActionTransfer, suggestions[1].Action)
	assert.Equal(t, 50, suggestions[1].Quantity)
	assert.True(t, suggestions[1].FinancialImpact.Equal(testutil.MustDecimal("500")))
}

func TestSuggestRotation_DoesNotMutateInput(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-2", "prod-1", 80, "10", 40, intPtr(2)),
		makeLot("lot-1", "prod-1", 30, "10", 5, intPtr(2)),
	}

	service.SuggestRotation(lots, testToday)

	assert.Equal(t, "lot-2", lots[0].LotID)
	assert.Equal(t, "lot-1", lots[1].LotID)
}

func TestSuggestRotation_DeterministicAcrossProducts(t *testing.T) {
	lots := []repository.LotSnapshot{
		makeLot("lot-1", "prod-b", 10, "5", 200, intPtr(70)),
		makeLot("lot-2", "prod-a", 10, "5", 200, intPtr(70)),
		makeLot("lot-3", "prod-c", 10, "5", 200, intPtr(70)),
	}

	first := service.SuggestRotation(lots, testToday)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, service.SuggestRotation(lots, testToday))
	}

	// Products are processed in sorted order
	require.Len(t, first, 3)
	assert.Equal(t, "prod-a", first[0].ProductID)
	assert.Equal(t, "prod-b", first[1].ProductID)
	assert.Equal(t, "prod-c", first[2].ProductID)
}
