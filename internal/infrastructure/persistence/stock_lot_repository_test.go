package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/shared"
)

func seedLot(t *testing.T, db *gorm.DB, productID, warehouseID uuid.UUID, cost string, qty int64, acquiredAt time.Time) *ledger.StockLot {
	t.Helper()
	lot, err := ledger.NewStockLot(productID, warehouseID,
		decimal.RequireFromString(cost), decimal.NewFromInt(qty), acquiredAt)
	require.NoError(t, err)
	require.NoError(t, NewGormStockLotRepository(db).Create(context.Background(), lot))
	return lot
}

func TestGormStockLotRepository_FindByKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLotRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	warehouseID := uuid.New()
	seedLot(t, db, productID, warehouseID, "10.00", 5, time.Now())

	t.Run("matches the exact unit cost", func(t *testing.T) {
		lot, err := repo.FindByKey(ctx, productID, warehouseID, decimal.RequireFromString("10.00"))
		require.NoError(t, err)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("different cost is a different key", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, productID, warehouseID, decimal.RequireFromString("10.50"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("different warehouse is a different key", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, productID, uuid.New(), decimal.RequireFromString("10.00"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("archived lot is invisible", func(t *testing.T) {
		lot, err := repo.FindByKey(ctx, productID, warehouseID, decimal.RequireFromString("10.00"))
		require.NoError(t, err)
		lot.Archive()
		require.NoError(t, repo.Save(ctx, lot))

		_, err = repo.FindByKey(ctx, productID, warehouseID, decimal.RequireFromString("10.00"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("archived lot frees the key for a new live lot", func(t *testing.T) {
		// Uniqueness is scoped to non-archived lots, like product barcodes.
		fresh := seedLot(t, db, productID, warehouseID, "10.00", 3, time.Now())

		lot, err := repo.FindByKey(ctx, productID, warehouseID, decimal.RequireFromString("10.00"))
		require.NoError(t, err)
		assert.Equal(t, fresh.ID, lot.ID)
	})
}

func TestGormStockLotRepository_FindByProductAndWarehouse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLotRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	warehouseID := uuid.New()
	base := time.Now().Add(-72 * time.Hour)

	seedLot(t, db, productID, warehouseID, "12.00", 10, base.Add(48*time.Hour))
	seedLot(t, db, productID, warehouseID, "10.00", 5, base)
	seedLot(t, db, productID, warehouseID, "11.00", 0, base.Add(24*time.Hour))
	seedLot(t, db, productID, uuid.New(), "10.00", 99, base) // other warehouse

	t.Run("returns lots oldest acquisition first, empty included", func(t *testing.T) {
		lots, err := repo.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		require.Len(t, lots, 3)
		assert.True(t, lots[0].UnitCost.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, lots[1].UnitCost.Equal(decimal.RequireFromString("11.00")))
		assert.True(t, lots[2].UnitCost.Equal(decimal.RequireFromString("12.00")))
	})
}

func TestGormStockLotRepository_Sums(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLotRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	mainWH := uuid.New()
	otherWH := uuid.New()

	seedLot(t, db, productID, mainWH, "10.00", 5, time.Now())
	seedLot(t, db, productID, mainWH, "12.00", 3, time.Now())
	seedLot(t, db, productID, otherWH, "10.00", 7, time.Now())
	dead := seedLot(t, db, productID, mainWH, "15.00", 100, time.Now())
	dead.Archive()
	require.NoError(t, repo.Save(ctx, dead))

	t.Run("per warehouse", func(t *testing.T) {
		sum, err := repo.SumQuantityByProductAndWarehouse(ctx, productID, mainWH)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(8)), "got %s", sum)
	})

	t.Run("across warehouses", func(t *testing.T) {
		sum, err := repo.SumQuantityByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(15)), "got %s", sum)
	})

	t.Run("product with no lots sums to zero", func(t *testing.T) {
		sum, err := repo.SumQuantityByProduct(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}

func TestGormStockLotRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLotRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	warehouseID := uuid.New()
	seedLot(t, db, productID, warehouseID, "10.00", 5, time.Now())
	seedLot(t, db, productID, warehouseID, "11.00", 0, time.Now())
	seedLot(t, db, uuid.New(), warehouseID, "10.00", 2, time.Now())

	t.Run("filters by product", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["product_id"] = productID
		lots, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, lots, 2)
	})

	t.Run("has_stock hides drained lots", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["product_id"] = productID
		filter.Filters["has_stock"] = true
		lots, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, lots, 1)
		assert.True(t, lots[0].Quantity.Equal(decimal.NewFromInt(5)))
	})
}
