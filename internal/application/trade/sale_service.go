package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/application/ledger"
	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/domain/trade"
)

// SaleService orchestrates sales. Every requested line is consumed FIFO and
// each lot draw becomes one denormalized invoice line freezing the product
// metadata and the cost actually drawn. The whole sale is all-or-nothing:
// one short line rolls back every other line and no invoice is created.
type SaleService struct {
	ledger        *ledger.LedgerService
	saleRepo      trade.SaleInvoiceRepository
	customerRepo  partner.CustomerRepository
	warehouseRepo partner.WarehouseRepository
	refGen        RefNumberGenerator
	idempotency   shared.IdempotencyStore
	idemCfg       shared.IdempotencyConfig
	logger        *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	ledgerService *ledger.LedgerService,
	saleRepo trade.SaleInvoiceRepository,
	customerRepo partner.CustomerRepository,
	warehouseRepo partner.WarehouseRepository,
	refGen RefNumberGenerator,
	logger *zap.Logger,
) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		ledger:        ledgerService,
		saleRepo:      saleRepo,
		customerRepo:  customerRepo,
		warehouseRepo: warehouseRepo,
		refGen:        refGen,
		idemCfg:       shared.DefaultIdempotencyConfig(),
		logger:        logger,
	}
}

// SetIdempotencyStore enables double-submit protection for creates
func (s *SaleService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemCfg = cfg
}

// CreateSale fulfills every line FIFO and writes the invoice in one
// transaction, returning the invoice ID. Fails with InsufficientStockError
// naming the first short product.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (uuid.UUID, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return uuid.Nil, err
	}
	if err := s.checkIdempotency(ctx, req.IdempotencyKey); err != nil {
		return uuid.Nil, err
	}

	refNumber := s.refGen.Next("INV")

	var invoiceID uuid.UUID
	err := s.ledger.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		// Built fresh on every attempt: a conflict retry re-resolves the
		// FIFO plan and re-captures the snapshots.
		invoice, err := trade.NewSaleInvoice(req.CustomerID, req.WarehouseID, refNumber,
			req.PaymentStatus, req.PaymentMethod, req.Actor)
		if err != nil {
			return err
		}

		for _, line := range req.Lines {
			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}

			movements, draws, err := s.ledger.ConsumeInTx(ctx, repos, ledger.ConsumeStockRequest{
				ProductID:   line.ProductID,
				WarehouseID: req.WarehouseID,
				Quantity:    line.Quantity,
				Note:        refNumber,
				Actor:       req.Actor,
			})
			if err != nil {
				return err
			}

			for i, draw := range draws {
				movementID := movements[i].ID
				if err := invoice.AddLine(trade.LineSnapshot{
					ProductID:      product.ID,
					ProductName:    product.Name,
					ProductBarcode: product.Barcode,
					ProductImage:   product.ImageURL,
					Quantity:       draw.Quantity,
					UnitCost:       draw.UnitCost,
					UnitPrice:      line.UnitPrice,
					Discount:       line.Discount,
					MovementID:     &movementID,
				}); err != nil {
					return err
				}
			}
		}

		if err := invoice.Finalize(req.Discount, req.Tax); err != nil {
			return err
		}
		if err := repos.SaleInvoiceRepo().Create(ctx, invoice); err != nil {
			return err
		}
		invoiceID = invoice.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("sale created",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("ref_number", refNumber),
		zap.Int("lines", len(req.Lines)))
	return invoiceID, nil
}

// GetSale returns an invoice with its lines
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*trade.SaleInvoice, error) {
	return s.saleRepo.FindByID(ctx, id)
}

// ListSales returns non-archived invoices
func (s *SaleService) ListSales(ctx context.Context, filter shared.Filter) ([]*trade.SaleInvoice, int64, error) {
	return s.saleRepo.FindAll(ctx, filter)
}

// UpdatePaymentStatus changes an invoice's payment state
func (s *SaleService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status trade.PaymentStatus) error {
	invoice, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := invoice.UpdatePaymentStatus(status); err != nil {
		return err
	}
	return s.saleRepo.Save(ctx, invoice)
}

// ArchiveSale soft-deletes an invoice. Stock effects are not reversed.
func (s *SaleService) ArchiveSale(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := invoice.Archive(); err != nil {
		return err
	}
	return s.saleRepo.Save(ctx, invoice)
}

func (s *SaleService) validateCreate(ctx context.Context, req CreateSaleRequest) error {
	if len(req.Lines) == 0 {
		return shared.NewDomainError("EMPTY_SALE", "Sale must have at least one line")
	}
	for _, line := range req.Lines {
		if line.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() || line.Discount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Price and discount cannot be negative")
		}
	}
	if !req.PaymentStatus.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Invalid payment status")
	}
	if !req.PaymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	exists, err := s.customerRepo.Exists(ctx, req.CustomerID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	}
	exists, err = s.warehouseRepo.Exists(ctx, req.WarehouseID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("WAREHOUSE_NOT_FOUND", "Warehouse not found")
	}
	return nil
}

func (s *SaleService) checkIdempotency(ctx context.Context, key string) error {
	if s.idempotency == nil || !s.idemCfg.Enabled || key == "" {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, "sale:"+key, s.idemCfg.TTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable", zap.Error(err))
		return nil
	}
	if !fresh {
		return shared.NewDomainError("DUPLICATE_REQUEST", "This request was already processed")
	}
	return nil
}
