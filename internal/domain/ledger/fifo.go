package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotDraw describes one lot's contribution to a FIFO consumption plan.
type LotDraw struct {
	LotID          uuid.UUID
	UnitCost       decimal.Decimal
	Quantity       decimal.Decimal
	TotalCost      decimal.Decimal
	RemainingInLot decimal.Decimal
	FullyConsumed  bool
}

// SortLotsFIFO orders lots oldest acquisition first. Ties on acquisition date
// fall back to creation time so the draw order stays deterministic.
func SortLotsFIFO(lots []*StockLot) {
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].AcquiredAt.Equal(lots[j].AcquiredAt) {
			return lots[i].AcquiredAt.Before(lots[j].AcquiredAt)
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
}

// AvailableQuantity sums the quantity held across the given lots,
// skipping archived and empty lots.
func AvailableQuantity(lots []*StockLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		if lot.HasStock() {
			total = total.Add(lot.Quantity)
		}
	}
	return total
}

// ResolveFIFO plans the consumption of the requested quantity against the
// given lots, oldest acquisition first. Each draw keeps the drawn lot's own
// unit cost; costs are never averaged across lots. The plan does not mutate
// the lots. If the lots cannot cover the request, an InsufficientStockError
// is returned and no partial plan is produced.
//
// The caller must pass lots from a single (product, warehouse) scope.
func ResolveFIFO(lots []*StockLot, requested decimal.Decimal, productID, warehouseID uuid.UUID) ([]LotDraw, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, &InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Available:   AvailableQuantity(lots),
			Requested:   requested,
		}
	}

	available := make([]*StockLot, 0, len(lots))
	for _, lot := range lots {
		if lot.HasStock() {
			available = append(available, lot)
		}
	}
	SortLotsFIFO(available)

	total := AvailableQuantity(available)
	if total.LessThan(requested) {
		return nil, NewInsufficientStockError(productID, warehouseID, total, requested)
	}

	draws := make([]LotDraw, 0, len(available))
	remaining := requested
	for _, lot := range available {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(lot.Quantity, remaining)
		left := lot.Quantity.Sub(take)
		draws = append(draws, LotDraw{
			LotID:          lot.ID,
			UnitCost:       lot.UnitCost,
			Quantity:       take,
			TotalCost:      take.Mul(lot.UnitCost),
			RemainingInLot: left,
			FullyConsumed:  left.IsZero(),
		})
		remaining = remaining.Sub(take)
	}

	return draws, nil
}

// TotalDrawCost sums the cost across a consumption plan.
func TotalDrawCost(draws []LotDraw) decimal.Decimal {
	total := decimal.Zero
	for _, d := range draws {
		total = total.Add(d.TotalCost)
	}
	return total
}
