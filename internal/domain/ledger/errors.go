package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/shared"
)

// InsufficientStockError is the expected business failure of consume-side
// operations: the warehouse does not hold enough of the product. It carries
// the available and requested quantities so callers can render a precise
// message. It is not a system fault and must leave no partial state behind.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s in warehouse %s: %s available, %s requested",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

// Unwrap allows errors.Is(err, shared.ErrInsufficientStock)
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(productID, warehouseID uuid.UUID, available, requested decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   available,
		Requested:   requested,
	}
}
