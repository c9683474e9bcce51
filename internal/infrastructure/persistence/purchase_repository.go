package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/domain/trade"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase with its items
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAll returns non-deleted purchases matching the filter
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Purchase{}).Where("deleted = ?", false)

	if filter.Search != "" {
		query = query.Where("ref_number LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
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

	var purchases []*trade.Purchase
	if err := applyPaging(query.Preload("Items"), filter, "date DESC, created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// Create inserts the header and its items
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// Save updates the header. Items are immutable once the purchase is created;
// only header fields like the deleted flag change afterwards.
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Omit("Items").Save(purchase).Error
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
