package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocklot/backend/internal/domain/shared"
)

// ProductRepository defines persistence for products
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByBarcode finds a non-archived product by barcode
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindAll returns products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*Product, int64, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Save updates a product unconditionally
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product only if the stored version matches
	// the version the product was read at. Returns
	// shared.ErrConcurrencyConflict when another writer got there first.
	SaveWithLock(ctx context.Context, product *Product) error

	// ExistsByBarcode reports whether a non-archived product with the
	// barcode exists, excluding the given ID
	ExistsByBarcode(ctx context.Context, barcode string, excludeID uuid.UUID) (bool, error)
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Category, int64, error)
	Create(ctx context.Context, category *Category) error
	Save(ctx context.Context, category *Category) error
}
