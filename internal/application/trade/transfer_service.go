package trade

import (
	"context"

	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/application/ledger"
)

// TransferService is a thin orchestrator over the ledger's transfer
// operation. It stamps each transfer with a document number so the
// resulting movements can be traced back to one request.
type TransferService struct {
	ledger *ledger.LedgerService
	refGen RefNumberGenerator
	logger *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(ledgerService *ledger.LedgerService, refGen RefNumberGenerator, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		ledger: ledgerService,
		refGen: refGen,
		logger: logger,
	}
}

// CreateTransfer moves stock between two warehouses, preserving each drawn
// lot's cost basis. Same-warehouse requests are rejected before any write.
func (s *TransferService) CreateTransfer(ctx context.Context, req CreateTransferRequest) (*TransferResult, error) {
	refNumber := s.refGen.Next("TRF")
	note := req.Note
	if note == "" {
		note = refNumber
	}

	movementIDs, err := s.ledger.TransferStock(ctx, ledger.TransferStockRequest{
		ProductID:       req.ProductID,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        req.Quantity,
		Note:            note,
		Actor:           req.Actor,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer created",
		zap.String("ref_number", refNumber),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("movements", len(movementIDs)))
	return &TransferResult{
		RefNumber:   refNumber,
		MovementIDs: movementIDs,
	}, nil
}
