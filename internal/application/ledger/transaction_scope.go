package ledger

import (
	"context"

	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger stores within one
// transaction. Every stock mutation touches three of them: the product
// aggregate, the lots, and the append-only movement log. Reading lots and
// applying the FIFO plan must happen through the same instance so no other
// writer can invalidate the plan between resolution and deduction.
//
// The trade repositories are included so a purchase or sale document and
// the stock effects it causes commit as one unit - a purchase is never left
// half-applied, and a failed sale line leaves no invoice behind.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// LotRepo returns the stock lot repository scoped to the current transaction
	LotRepo() ledger.StockLotRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() ledger.StockMovementRepository
	// PurchaseRepo returns the purchase repository scoped to the current transaction
	PurchaseRepo() trade.PurchaseRepository
	// SaleInvoiceRepo returns the sale invoice repository scoped to the current transaction
	SaleInvoiceRepo() trade.SaleInvoiceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	lotRepo      ledger.StockLotRepository
	movementRepo ledger.StockMovementRepository
	purchaseRepo trade.PurchaseRepository
	saleRepo     trade.SaleInvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	lotRepo ledger.StockLotRepository,
	movementRepo ledger.StockMovementRepository,
	purchaseRepo trade.PurchaseRepository,
	saleRepo trade.SaleInvoiceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// LotRepo returns the stock lot repository.
func (s *NoOpTransactionScope) LotRepo() ledger.StockLotRepository {
	return s.lotRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() ledger.StockMovementRepository {
	return s.movementRepo
}

// PurchaseRepo returns the purchase repository.
func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseRepository {
	return s.purchaseRepo
}

// SaleInvoiceRepo returns the sale invoice repository.
func (s *NoOpTransactionScope) SaleInvoiceRepo() trade.SaleInvoiceRepository {
	return s.saleRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
