package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/domain/shared/valueobject"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection keeps all sessions on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, barcode string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, barcode, valueobject.NewMoneyUSD(decimal.NewFromInt(20)))
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

func seedWarehouse(t *testing.T, db *gorm.DB, name string) *partner.Warehouse {
	t.Helper()
	warehouse, err := partner.NewWarehouse(name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormWarehouseRepository(db).Create(context.Background(), warehouse))
	return warehouse
}
