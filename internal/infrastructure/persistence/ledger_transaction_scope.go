package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/stocklot/backend/internal/application/ledger"
	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/trade"
)

// GormTransactionScope implements the ledger's TransactionScope using GORM
// transactions. Every stock mutation and its trade document commit or roll
// back as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. An error
// from the function rolls the transaction back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// LotRepo returns the stock lot repository scoped to the current transaction
func (r *gormTransactionalRepositories) LotRepo() ledger.StockLotRepository {
	return NewGormStockLotRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() ledger.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// PurchaseRepo returns the purchase repository scoped to the current transaction
func (r *gormTransactionalRepositories) PurchaseRepo() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

// SaleInvoiceRepo returns the sale invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) SaleInvoiceRepo() trade.SaleInvoiceRepository {
	return NewGormSaleInvoiceRepository(r.tx)
}

var _ appledger.TransactionScope = (*GormTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
