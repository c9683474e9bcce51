package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/shared"
)

// GormStockLotRepository implements StockLotRepository using GORM
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockLot, error) {
	var lot ledger.StockLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByProductAndWarehouse returns all non-archived lots of the product in
// the warehouse, oldest acquisition first. Empty lots are included; FIFO
// resolution skips them itself.
func (r *GormStockLotRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) ([]*ledger.StockLot, error) {
	var lots []*ledger.StockLot
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ? AND archived = ?", productID, warehouseID, false).
		Order("acquired_at ASC, created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByKey finds the non-archived lot with the exact
// (product, warehouse, unit cost) key
func (r *GormStockLotRepository) FindByKey(ctx context.Context, productID, warehouseID uuid.UUID, unitCost decimal.Decimal) (*ledger.StockLot, error) {
	var lot ledger.StockLot
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ? AND unit_cost = ? AND archived = ?",
			productID, warehouseID, unitCost, false).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByProduct returns all non-archived lots of the product across warehouses
func (r *GormStockLotRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*ledger.StockLot, error) {
	var lots []*ledger.StockLot
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND archived = ?", productID, false).
		Order("acquired_at ASC, created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAll returns lots matching the filter
func (r *GormStockLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*ledger.StockLot, int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.StockLot{}).Where("archived = ?", false)
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("quantity > 0")
			}
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lots []*ledger.StockLot
	if err := applyPaging(query, filter, "acquired_at ASC, created_at ASC").Find(&lots).Error; err != nil {
		return nil, 0, err
	}
	return lots, total, nil
}

// Create inserts a new lot
func (r *GormStockLotRepository) Create(ctx context.Context, lot *ledger.StockLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// Save updates an existing lot
func (r *GormStockLotRepository) Save(ctx context.Context, lot *ledger.StockLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// SumQuantityByProduct sums non-archived lot quantities across all warehouses
func (r *GormStockLotRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	return r.sumQuantity(ctx, r.db.WithContext(ctx).
		Model(&ledger.StockLot{}).
		Where("product_id = ? AND archived = ?", productID, false))
}

// SumQuantityByProductAndWarehouse sums non-archived lot quantities in one warehouse
func (r *GormStockLotRepository) SumQuantityByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	return r.sumQuantity(ctx, r.db.WithContext(ctx).
		Model(&ledger.StockLot{}).
		Where("product_id = ? AND warehouse_id = ? AND archived = ?", productID, warehouseID, false))
}

func (r *GormStockLotRepository) sumQuantity(ctx context.Context, query *gorm.DB) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := query.Select("COALESCE(SUM(quantity), 0) as total").Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormStockLotRepository implements StockLotRepository
var _ ledger.StockLotRepository = (*GormStockLotRepository)(nil)
