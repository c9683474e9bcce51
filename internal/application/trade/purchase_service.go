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

// PurchaseService orchestrates purchase orders: every item receipt plus the
// header write commit as one atomic unit, so a purchase is never left
// half-applied.
type PurchaseService struct {
	ledger        *ledger.LedgerService
	purchaseRepo  trade.PurchaseRepository
	supplierRepo  partner.SupplierRepository
	warehouseRepo partner.WarehouseRepository
	refGen        RefNumberGenerator
	idempotency   shared.IdempotencyStore
	idemCfg       shared.IdempotencyConfig
	logger        *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	ledgerService *ledger.LedgerService,
	purchaseRepo trade.PurchaseRepository,
	supplierRepo partner.SupplierRepository,
	warehouseRepo partner.WarehouseRepository,
	refGen RefNumberGenerator,
	logger *zap.Logger,
) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		ledger:        ledgerService,
		purchaseRepo:  purchaseRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		refGen:        refGen,
		idemCfg:       shared.DefaultIdempotencyConfig(),
		logger:        logger,
	}
}

// SetIdempotencyStore enables double-submit protection for creates
func (s *PurchaseService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemCfg = cfg
}

// CreatePurchase receives every item into stock and writes the purchase
// document in one transaction. Items sharing a product and unit cost are
// coalesced into a single lot increment so they cannot race each other
// inside the transaction.
func (s *PurchaseService) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (uuid.UUID, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return uuid.Nil, err
	}
	if err := s.checkIdempotency(ctx, "purchase:"+req.IdempotencyKey, req.IdempotencyKey); err != nil {
		return uuid.Nil, err
	}

	refNumber := s.refGen.Next("PO")
	receipts := coalesceItems(req.Items)

	var purchaseID uuid.UUID
	err := s.ledger.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		purchase, err := trade.NewPurchase(req.SupplierID, req.WarehouseID, refNumber, req.Date, req.Actor)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := purchase.AddItem(item.ProductID, item.Quantity, item.UnitCost); err != nil {
				return err
			}
		}
		if err := purchase.SetCharges(req.Discount, req.Tax); err != nil {
			return err
		}

		for _, receipt := range receipts {
			_, err := s.ledger.ReceiveInTx(ctx, repos, ledger.ReceiveStockRequest{
				ProductID:   receipt.ProductID,
				WarehouseID: req.WarehouseID,
				Quantity:    receipt.Quantity,
				UnitCost:    receipt.UnitCost,
				Note:        refNumber,
				Actor:       req.Actor,
			})
			if err != nil {
				return err
			}
		}

		if err := repos.PurchaseRepo().Create(ctx, purchase); err != nil {
			return err
		}
		purchaseID = purchase.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("purchase created",
		zap.String("purchase_id", purchaseID.String()),
		zap.String("ref_number", refNumber),
		zap.Int("items", len(req.Items)))
	return purchaseID, nil
}

// GetPurchase returns a purchase with its items
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	return s.purchaseRepo.FindByID(ctx, id)
}

// ListPurchases returns non-deleted purchases
func (s *PurchaseService) ListPurchases(ctx context.Context, filter shared.Filter) ([]*trade.Purchase, int64, error) {
	return s.purchaseRepo.FindAll(ctx, filter)
}

// DeletePurchase soft-deletes a purchase. The lots and movements its
// receipt produced are kept; removal is a bookkeeping flag, not a reversal.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := purchase.SoftDelete(); err != nil {
		return err
	}
	return s.purchaseRepo.Save(ctx, purchase)
}

func (s *PurchaseService) validateCreate(ctx context.Context, req CreatePurchaseRequest) error {
	if len(req.Items) == 0 {
		return shared.NewDomainError("EMPTY_PURCHASE", "Purchase must have at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		if item.UnitCost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Item unit cost cannot be negative")
		}
	}

	exists, err := s.supplierRepo.Exists(ctx, req.SupplierID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
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

func (s *PurchaseService) checkIdempotency(ctx context.Context, scopedKey, rawKey string) error {
	if s.idempotency == nil || !s.idemCfg.Enabled || rawKey == "" {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, scopedKey, s.idemCfg.TTL)
	if err != nil {
		// The store being unreachable must not block trading.
		s.logger.Warn("idempotency store unavailable", zap.Error(err))
		return nil
	}
	if !fresh {
		return shared.NewDomainError("DUPLICATE_REQUEST", "This request was already processed")
	}
	return nil
}

type coalescedReceipt struct {
	ProductID uuid.UUID
	UnitCost  decimal.Decimal
	Quantity  decimal.Decimal
}

// coalesceItems merges items with the same product and unit cost, keeping
// first-seen order.
func coalesceItems(items []PurchaseItemRequest) []coalescedReceipt {
	type key struct {
		productID uuid.UUID
		cost      string
	}
	index := make(map[key]int, len(items))
	out := make([]coalescedReceipt, 0, len(items))
	for _, item := range items {
		k := key{item.ProductID, item.UnitCost.String()}
		if i, ok := index[k]; ok {
			out[i].Quantity = out[i].Quantity.Add(item.Quantity)
			continue
		}
		index[k] = len(out)
		out = append(out, coalescedReceipt{
			ProductID: item.ProductID,
			UnitCost:  item.UnitCost,
			Quantity:  item.Quantity,
		})
	}
	return out
}
