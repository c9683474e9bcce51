package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/shared"
)

// StockLotRepository defines persistence for stock lots
type StockLotRepository interface {
	// FindByID finds a lot by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLot, error)

	// FindByProductAndWarehouse returns all non-archived lots holding the
	// product in the warehouse, including empty ones
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) ([]*StockLot, error)

	// FindByKey finds the non-archived lot with the exact
	// (product, warehouse, unit cost) key, or returns shared.ErrNotFound
	FindByKey(ctx context.Context, productID, warehouseID uuid.UUID, unitCost decimal.Decimal) (*StockLot, error)

	// FindByProduct returns all non-archived lots of the product across warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*StockLot, error)

	// FindAll returns lots matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*StockLot, int64, error)

	// Create inserts a new lot
	Create(ctx context.Context, lot *StockLot) error

	// Save updates an existing lot
	Save(ctx context.Context, lot *StockLot) error

	// SumQuantityByProduct sums lot quantities for a product across all
	// warehouses, ignoring archived lots
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)

	// SumQuantityByProductAndWarehouse sums lot quantities for a product
	// in one warehouse, ignoring archived lots
	SumQuantityByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (decimal.Decimal, error)
}

// MovementFilter narrows stock movement queries
type MovementFilter struct {
	ProductID    *uuid.UUID
	WarehouseID  *uuid.UUID
	MovementType *MovementType
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

// StockMovementRepository defines persistence for the append-only movement log.
// Movements are never updated or deleted.
type StockMovementRepository interface {
	// FindByID finds a movement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindAll returns movements matching the filter, newest event first
	FindAll(ctx context.Context, filter MovementFilter) ([]*StockMovement, int64, error)

	// FindByProduct returns all movements of a product, newest event first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error)

	// Create appends a movement
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends several movements at once
	CreateBatch(ctx context.Context, movements []*StockMovement) error
}
