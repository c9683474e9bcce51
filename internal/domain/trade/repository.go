package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocklot/backend/internal/domain/shared"
)

// PurchaseRepository defines persistence for purchase orders
type PurchaseRepository interface {
	// FindByID finds a purchase with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindAll returns non-deleted purchases matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*Purchase, int64, error)

	// Create inserts the header and its items
	Create(ctx context.Context, purchase *Purchase) error

	// Save updates the header
	Save(ctx context.Context, purchase *Purchase) error
}

// SaleInvoiceRepository defines persistence for sale invoices
type SaleInvoiceRepository interface {
	// FindByID finds an invoice with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*SaleInvoice, error)

	// FindAll returns non-archived invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*SaleInvoice, int64, error)

	// Create inserts the header and its lines
	Create(ctx context.Context, invoice *SaleInvoice) error

	// Save updates the header
	Save(ctx context.Context, invoice *SaleInvoice) error
}
