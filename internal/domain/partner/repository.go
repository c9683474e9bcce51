package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocklot/backend/internal/domain/shared"
)

// WarehouseRepository defines persistence for warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Warehouse, int64, error)
	Create(ctx context.Context, warehouse *Warehouse) error
	Save(ctx context.Context, warehouse *Warehouse) error
	// Exists reports whether a non-archived warehouse with the ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Supplier, int64, error)
	Create(ctx context.Context, supplier *Supplier) error
	Save(ctx context.Context, supplier *Supplier) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Customer, int64, error)
	Create(ctx context.Context, customer *Customer) error
	Save(ctx context.Context, customer *Customer) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
