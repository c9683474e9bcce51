package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/shared"
)

// StockLot is a quantity of one product acquired at a specific unit cost and
// held in a specific warehouse. Lots are uniquely keyed by
// (product, warehouse, unit cost) while non-archived: receiving more stock at
// an existing cost increments the existing lot rather than creating a
// duplicate. A lot that reaches zero quantity remains as an empty record.
type StockLot struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lot_key,priority:1,where:archived = false;index:idx_stock_lot_product"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lot_key,priority:2;index:idx_stock_lot_warehouse"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;uniqueIndex:idx_stock_lot_key,priority:3"`
	AcquiredAt  time.Time       `gorm:"type:timestamptz;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Archived    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot creates a new stock lot
func NewStockLot(productID, warehouseID uuid.UUID, unitCost, quantity decimal.Decimal, acquiredAt time.Time) (*StockLot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if acquiredAt.IsZero() {
		acquiredAt = time.Now()
	}

	return &StockLot{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		UnitCost:    unitCost,
		AcquiredAt:  acquiredAt,
		Quantity:    quantity,
		Archived:    false,
	}, nil
}

// HasStock returns true if the lot has available quantity
func (l *StockLot) HasStock() bool {
	return !l.Archived && l.Quantity.GreaterThan(decimal.Zero)
}

// MatchesKey returns true if the lot carries stock of the given product at the
// given unit cost in the given warehouse
func (l *StockLot) MatchesKey(productID, warehouseID uuid.UUID, unitCost decimal.Decimal) bool {
	return !l.Archived &&
		l.ProductID == productID &&
		l.WarehouseID == warehouseID &&
		l.UnitCost.Equal(unitCost)
}

// Add increases the lot quantity
func (l *StockLot) Add(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	l.Quantity = l.Quantity.Add(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// Deduct decreases the lot quantity. The quantity never goes negative; a lot
// drained to zero stays in place as an empty record.
func (l *StockLot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(l.Quantity) {
		return shared.NewDomainError("LOT_UNDERFLOW", "Cannot deduct more than the lot holds")
	}
	l.Quantity = l.Quantity.Sub(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// Archive marks the lot as archived, removing it from FIFO consideration
func (l *StockLot) Archive() {
	l.Archived = true
	l.UpdatedAt = time.Now()
}

// TotalValue returns the value held in this lot
func (l *StockLot) TotalValue() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}
