package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/domain/trade"
)

// GormSaleInvoiceRepository implements SaleInvoiceRepository using GORM
type GormSaleInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSaleInvoiceRepository creates a new GormSaleInvoiceRepository
func NewGormSaleInvoiceRepository(db *gorm.DB) *GormSaleInvoiceRepository {
	return &GormSaleInvoiceRepository{db: db}
}

// FindByID finds an invoice with its lines
func (r *GormSaleInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleInvoice, error) {
	var invoice trade.SaleInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll returns non-archived invoices matching the filter
func (r *GormSaleInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.SaleInvoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.SaleInvoice{}).Where("archived = ?", false)

	if filter.Search != "" {
		query = query.Where("ref_number LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "date_from":
			query = query.Where("date >= ?", value)
		case "date_to":
			query = query.Where("date <= ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []*trade.SaleInvoice
	if err := applyPaging(query.Preload("Lines"), filter, "date DESC, created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Create inserts the header and its lines
func (r *GormSaleInvoiceRepository) Create(ctx context.Context, invoice *trade.SaleInvoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// Save updates the header. Lines freeze the FIFO draws of the sale and are
// never rewritten.
func (r *GormSaleInvoiceRepository) Save(ctx context.Context, invoice *trade.SaleInvoice) error {
	return r.db.WithContext(ctx).Omit("Lines").Save(invoice).Error
}

// Ensure GormSaleInvoiceRepository implements SaleInvoiceRepository
var _ trade.SaleInvoiceRepository = (*GormSaleInvoiceRepository)(nil)
