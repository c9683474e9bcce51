package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/shared"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// The movement log is append-only; there are no update or delete paths.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByID finds a movement by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
	var movement ledger.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindAll returns movements matching the filter, newest event first
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter ledger.MovementFilter) ([]*ledger.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.StockMovement{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("from_warehouse_id = ? OR to_warehouse_id = ?", *filter.WarehouseID, *filter.WarehouseID)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", string(*filter.MovementType))
	}
	if filter.DateFrom != nil {
		query = query.Where("event_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("event_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var movements []*ledger.StockMovement
	if err := query.Order("event_date DESC, created_at DESC").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// FindByProduct returns all movements of a product, newest event first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*ledger.StockMovement, error) {
	var movements []*ledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("event_date DESC, created_at DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Create appends a movement
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *ledger.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateBatch appends several movements at once
func (r *GormStockMovementRepository) CreateBatch(ctx context.Context, movements []*ledger.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ ledger.StockMovementRepository = (*GormStockMovementRepository)(nil)
