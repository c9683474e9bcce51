package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/domain/shared"
)

// MaxConflictRetries bounds how many times a stock operation is retried
// after an optimistic-lock conflict before failing.
const MaxConflictRetries = 3

// LedgerService is the transactional stock mutator. Every stock change runs
// as one atomic unit: product aggregate update, lot update(s), and movement
// record(s) commit together or not at all. Concurrent writers against the
// same product are serialized by the product aggregate's version check; a
// conflicting commit rolls back and the whole operation is retried with
// fresh state, bounded by MaxConflictRetries.
//
// The FIFO plan is always resolved inside the same transaction that applies
// it, so no other writer can invalidate the plan between resolution and
// deduction.
type LedgerService struct {
	scope         TransactionScope
	productRepo   catalog.ProductRepository
	lotRepo       ledger.StockLotRepository
	movementRepo  ledger.StockMovementRepository
	warehouseRepo partner.WarehouseRepository
	logger        *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	productRepo catalog.ProductRepository,
	lotRepo ledger.StockLotRepository,
	movementRepo ledger.StockMovementRepository,
	warehouseRepo partner.WarehouseRepository,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		scope:         scope,
		productRepo:   productRepo,
		lotRepo:       lotRepo,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
		logger:        logger,
	}
}

// Execute runs fn inside one retried transaction. Orchestrators use this to
// compose several receive/consume calls plus their own document writes into
// a single atomic unit. fn must be safe to re-run: it is re-invoked with
// fresh state after a write conflict.
func (s *LedgerService) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return s.withRetry(ctx, fn)
}

// ReceiveStock brings quantity into a warehouse at a unit cost, incrementing
// or creating the matching lot, and returns the movement ID.
func (s *LedgerService) ReceiveStock(ctx context.Context, req ReceiveStockRequest) (uuid.UUID, error) {
	if err := s.validateReceive(req); err != nil {
		return uuid.Nil, err
	}
	if err := s.requireWarehouse(ctx, req.WarehouseID); err != nil {
		return uuid.Nil, err
	}

	var movementID uuid.UUID
	err := s.withRetry(ctx, func(repos TransactionalRepositories) error {
		movement, err := s.ReceiveInTx(ctx, repos, req)
		if err != nil {
			return err
		}
		movementID = movement.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("stock received",
		zap.String("product_id", req.ProductID.String()),
		zap.String("warehouse_id", req.WarehouseID.String()),
		zap.String("quantity", req.Quantity.String()))
	return movementID, nil
}

// ConsumeStock draws quantity out of a warehouse FIFO, oldest lot first, and
// returns one movement ID per lot draw. Fails atomically with
// InsufficientStockError when the warehouse cannot cover the request.
func (s *LedgerService) ConsumeStock(ctx context.Context, req ConsumeStockRequest) ([]uuid.UUID, error) {
	if err := s.validateConsume(req); err != nil {
		return nil, err
	}
	if err := s.requireWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	var movementIDs []uuid.UUID
	err := s.withRetry(ctx, func(repos TransactionalRepositories) error {
		movements, _, err := s.ConsumeInTx(ctx, repos, req)
		if err != nil {
			return err
		}
		movementIDs = movementIDs[:0]
		for _, m := range movements {
			movementIDs = append(movementIDs, m.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movementIDs, nil
}

// TransferStock moves quantity between warehouses preserving each drawn
// lot's cost basis. The product aggregate is unchanged.
func (s *LedgerService) TransferStock(ctx context.Context, req TransferStockRequest) ([]uuid.UUID, error) {
	if err := s.validateTransfer(req); err != nil {
		return nil, err
	}
	if err := s.requireWarehouse(ctx, req.FromWarehouseID); err != nil {
		return nil, err
	}
	if err := s.requireWarehouse(ctx, req.ToWarehouseID); err != nil {
		return nil, err
	}

	var movementIDs []uuid.UUID
	err := s.withRetry(ctx, func(repos TransactionalRepositories) error {
		movements, err := s.TransferInTx(ctx, repos, req)
		if err != nil {
			return err
		}
		movementIDs = movementIDs[:0]
		for _, m := range movements {
			movementIDs = append(movementIDs, m.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movementIDs, nil
}

// AdjustStock manually corrects stock up or down and returns the single
// adjustment movement ID.
func (s *LedgerService) AdjustStock(ctx context.Context, req AdjustStockRequest) (uuid.UUID, error) {
	if err := s.validateAdjust(req); err != nil {
		return uuid.Nil, err
	}
	if err := s.requireWarehouse(ctx, req.WarehouseID); err != nil {
		return uuid.Nil, err
	}

	var movementID uuid.UUID
	err := s.withRetry(ctx, func(repos TransactionalRepositories) error {
		movement, err := s.AdjustInTx(ctx, repos, req)
		if err != nil {
			return err
		}
		movementID = movement.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return movementID, nil
}

// ReceiveInTx applies a receive within an already-open transaction
func (s *LedgerService) ReceiveInTx(ctx context.Context, repos TransactionalRepositories, req ReceiveStockRequest) (*ledger.StockMovement, error) {
	product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	lot, created, err := s.findOrCreateLot(ctx, repos, req.ProductID, req.WarehouseID, req.UnitCost, req.Quantity)
	if err != nil {
		return nil, err
	}

	stockBefore := product.CurrentStock
	if err := product.IncreaseStock(req.Quantity); err != nil {
		return nil, err
	}
	if err := product.SetCostRecommend(req.UnitCost); err != nil {
		return nil, err
	}

	if err := s.saveLot(ctx, repos, lot, created); err != nil {
		return nil, err
	}
	if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	movement, err := ledger.NewStockMovement(req.ProductID, ledger.MovementTypeStockIn,
		req.Quantity, req.UnitCost, stockBefore, product.CurrentStock)
	if err != nil {
		return nil, err
	}
	movement.WithToWarehouse(req.WarehouseID).
		WithLot(lot.ID).
		WithNote(req.Note).
		WithActor(req.Actor)

	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// ConsumeInTx applies a FIFO consume within an already-open transaction,
// returning one movement per lot draw plus the draws themselves so callers
// can snapshot the cost basis of each.
func (s *LedgerService) ConsumeInTx(ctx context.Context, repos TransactionalRepositories, req ConsumeStockRequest) ([]*ledger.StockMovement, []ledger.LotDraw, error) {
	product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}

	lots, err := repos.LotRepo().FindByProductAndWarehouse(ctx, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, nil, err
	}

	draws, err := ledger.ResolveFIFO(lots, req.Quantity, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, nil, err
	}

	lotsByID := make(map[uuid.UUID]*ledger.StockLot, len(lots))
	for _, lot := range lots {
		lotsByID[lot.ID] = lot
	}
	for _, draw := range draws {
		lot := lotsByID[draw.LotID]
		if err := lot.Deduct(draw.Quantity); err != nil {
			return nil, nil, err
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return nil, nil, err
		}
	}

	stockBefore := product.CurrentStock
	if err := product.DecreaseStock(req.Quantity); err != nil {
		return nil, nil, err
	}
	if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
		return nil, nil, err
	}

	movements := make([]*ledger.StockMovement, 0, len(draws))
	running := stockBefore
	for _, draw := range draws {
		after := running.Sub(draw.Quantity)
		movement, err := ledger.NewStockMovement(req.ProductID, ledger.MovementTypeStockOut,
			draw.Quantity, draw.UnitCost, running, after)
		if err != nil {
			return nil, nil, err
		}
		movement.WithFromWarehouse(req.WarehouseID).
			WithLot(draw.LotID).
			WithNote(req.Note).
			WithActor(req.Actor)
		movements = append(movements, movement)
		running = after
	}

	if err := repos.MovementRepo().CreateBatch(ctx, movements); err != nil {
		return nil, nil, err
	}
	return movements, draws, nil
}

// TransferInTx applies a warehouse transfer within an already-open
// transaction. Each source draw lands in a destination lot at the same unit
// cost, keeping the source lot's acquisition date so FIFO age carries across
// warehouses. The aggregate is unchanged; the version still bumps so
// concurrent writers of the same product serialize.
func (s *LedgerService) TransferInTx(ctx context.Context, repos TransactionalRepositories, req TransferStockRequest) ([]*ledger.StockMovement, error) {
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}

	product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	sourceLots, err := repos.LotRepo().FindByProductAndWarehouse(ctx, req.ProductID, req.FromWarehouseID)
	if err != nil {
		return nil, err
	}

	draws, err := ledger.ResolveFIFO(sourceLots, req.Quantity, req.ProductID, req.FromWarehouseID)
	if err != nil {
		return nil, err
	}

	lotsByID := make(map[uuid.UUID]*ledger.StockLot, len(sourceLots))
	for _, lot := range sourceLots {
		lotsByID[lot.ID] = lot
	}

	for _, draw := range draws {
		source := lotsByID[draw.LotID]
		if err := source.Deduct(draw.Quantity); err != nil {
			return nil, err
		}
		if err := repos.LotRepo().Save(ctx, source); err != nil {
			return nil, err
		}

		dest, err := repos.LotRepo().FindByKey(ctx, req.ProductID, req.ToWarehouseID, draw.UnitCost)
		switch {
		case err == nil:
			if err := dest.Add(draw.Quantity); err != nil {
				return nil, err
			}
			if err := repos.LotRepo().Save(ctx, dest); err != nil {
				return nil, err
			}
		case errors.Is(err, shared.ErrNotFound):
			dest, err = ledger.NewStockLot(req.ProductID, req.ToWarehouseID, draw.UnitCost, draw.Quantity, source.AcquiredAt)
			if err != nil {
				return nil, err
			}
			if err := repos.LotRepo().Create(ctx, dest); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	product.Touch()
	if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	// Stock moves, not destroyed: before and after snapshots are the
	// unchanged aggregate at transfer time.
	movements := make([]*ledger.StockMovement, 0, len(draws))
	for _, draw := range draws {
		movement, err := ledger.NewStockMovement(req.ProductID, ledger.MovementTypeTransfer,
			draw.Quantity, draw.UnitCost, product.CurrentStock, product.CurrentStock)
		if err != nil {
			return nil, err
		}
		movement.WithFromWarehouse(req.FromWarehouseID).
			WithToWarehouse(req.ToWarehouseID).
			WithLot(draw.LotID).
			WithNote(req.Note).
			WithActor(req.Actor)
		movements = append(movements, movement)
	}

	if err := repos.MovementRepo().CreateBatch(ctx, movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// AdjustInTx applies a manual correction within an already-open transaction.
// Up behaves like a receive without touching the recommended cost; down
// behaves like a consume without a sale. Either way exactly one adjustment
// movement is written.
func (s *LedgerService) AdjustInTx(ctx context.Context, repos TransactionalRepositories, req AdjustStockRequest) (*ledger.StockMovement, error) {
	product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if req.Direction == AdjustUp {
		unitCost := req.UnitCost
		if unitCost.IsZero() {
			unitCost = product.CostRecommend
		}

		lot, created, err := s.findOrCreateLot(ctx, repos, req.ProductID, req.WarehouseID, unitCost, req.Quantity)
		if err != nil {
			return nil, err
		}

		stockBefore := product.CurrentStock
		if err := product.IncreaseStock(req.Quantity); err != nil {
			return nil, err
		}
		if err := s.saveLot(ctx, repos, lot, created); err != nil {
			return nil, err
		}
		if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
			return nil, err
		}

		movement, err := ledger.NewStockMovement(req.ProductID, ledger.MovementTypeAdjustment,
			req.Quantity, unitCost, stockBefore, product.CurrentStock)
		if err != nil {
			return nil, err
		}
		movement.WithToWarehouse(req.WarehouseID).
			WithLot(lot.ID).
			WithNote(req.Note).
			WithActor(req.Actor)
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return nil, err
		}
		return movement, nil
	}

	lots, err := repos.LotRepo().FindByProductAndWarehouse(ctx, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	draws, err := ledger.ResolveFIFO(lots, req.Quantity, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	lotsByID := make(map[uuid.UUID]*ledger.StockLot, len(lots))
	for _, lot := range lots {
		lotsByID[lot.ID] = lot
	}
	for _, draw := range draws {
		lot := lotsByID[draw.LotID]
		if err := lot.Deduct(draw.Quantity); err != nil {
			return nil, err
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return nil, err
		}
	}

	stockBefore := product.CurrentStock
	if err := product.DecreaseStock(req.Quantity); err != nil {
		return nil, err
	}
	if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	// One movement for the whole correction; its unit cost is the
	// effective FIFO cost of the drained quantity.
	totalCost := ledger.TotalDrawCost(draws)
	effectiveCost := totalCost.Div(req.Quantity)
	movement, err := ledger.NewStockMovement(req.ProductID, ledger.MovementTypeAdjustment,
		req.Quantity, effectiveCost, stockBefore, product.CurrentStock)
	if err != nil {
		return nil, err
	}
	movement.WithFromWarehouse(req.WarehouseID).
		WithNote(req.Note).
		WithActor(req.Actor)
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// RecomputeProductStock repairs the derived aggregate by summing the
// product's non-archived lots and returns the recomputed value.
func (s *LedgerService) RecomputeProductStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var recomputed decimal.Decimal
	err := s.withRetry(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		sum, err := repos.LotRepo().SumQuantityByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := product.SetStock(sum); err != nil {
			return err
		}
		if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
			return err
		}
		recomputed = sum
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("product stock recomputed",
		zap.String("product_id", productID.String()),
		zap.String("current_stock", recomputed.String()))
	return recomputed, nil
}

// ListLots returns lot views, optionally narrowed to a product and/or warehouse
func (s *LedgerService) ListLots(ctx context.Context, productID, warehouseID *uuid.UUID) ([]LotView, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "acquired_at"
	filter.OrderDir = "asc"
	if productID != nil {
		filter.Filters["product_id"] = *productID
	}
	if warehouseID != nil {
		filter.Filters["warehouse_id"] = *warehouseID
	}

	lots, _, err := s.lotRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]LotView, 0, len(lots))
	for _, lot := range lots {
		views = append(views, NewLotView(lot))
	}
	return views, nil
}

// ListMovements returns movement views matching the filter, newest first
func (s *LedgerService) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]MovementView, int64, error) {
	movements, total, err := s.movementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]MovementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, NewMovementView(m))
	}
	return views, total, nil
}

// GetProductAggregate returns the cheap aggregate read for one product
func (s *LedgerService) GetProductAggregate(ctx context.Context, productID uuid.UUID) (*ProductAggregateView, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductAggregateView{
		ProductID:     product.ID,
		Name:          product.Name,
		CurrentStock:  product.CurrentStock,
		CostRecommend: product.CostRecommend,
	}, nil
}

func (s *LedgerService) withRetry(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	var err error
	for attempt := 1; attempt <= MaxConflictRetries; attempt++ {
		err = s.scope.Execute(ctx, fn)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Warn("stock operation hit a write conflict",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", MaxConflictRetries))
	}
	return shared.NewDomainError("OPERATION_FAILED", "Operation failed due to concurrent updates, please retry")
}

func (s *LedgerService) findOrCreateLot(ctx context.Context, repos TransactionalRepositories, productID, warehouseID uuid.UUID, unitCost, quantity decimal.Decimal) (lot *ledger.StockLot, created bool, err error) {
	lot, err = repos.LotRepo().FindByKey(ctx, productID, warehouseID, unitCost)
	switch {
	case err == nil:
		if err := lot.Add(quantity); err != nil {
			return nil, false, err
		}
		return lot, false, nil
	case errors.Is(err, shared.ErrNotFound):
		lot, err = ledger.NewStockLot(productID, warehouseID, unitCost, quantity, time.Now())
		if err != nil {
			return nil, false, err
		}
		return lot, true, nil
	default:
		return nil, false, err
	}
}

func (s *LedgerService) saveLot(ctx context.Context, repos TransactionalRepositories, lot *ledger.StockLot, created bool) error {
	if created {
		return repos.LotRepo().Create(ctx, lot)
	}
	return repos.LotRepo().Save(ctx, lot)
}

func (s *LedgerService) requireWarehouse(ctx context.Context, warehouseID uuid.UUID) error {
	exists, err := s.warehouseRepo.Exists(ctx, warehouseID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("WAREHOUSE_NOT_FOUND", "Warehouse not found")
	}
	return nil
}

func (s *LedgerService) validateReceive(req ReceiveStockRequest) error {
	if req.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if req.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if req.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	return nil
}

func (s *LedgerService) validateConsume(req ConsumeStockRequest) error {
	if req.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if req.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

func (s *LedgerService) validateTransfer(req TransferStockRequest) error {
	if req.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if req.FromWarehouseID == uuid.Nil || req.ToWarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse IDs cannot be empty")
	}
	if req.FromWarehouseID == req.ToWarehouseID {
		return shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

func (s *LedgerService) validateAdjust(req AdjustStockRequest) error {
	if req.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if req.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !req.Direction.IsValid() {
		return shared.NewDomainError("INVALID_DIRECTION", "Adjustment direction must be up or down")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if req.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	return nil
}
