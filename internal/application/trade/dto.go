package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/trade"
)

// RefNumberGenerator produces unique human-readable document numbers
// (e.g. PO-1893421356781568, INV-1893421401236480).
type RefNumberGenerator interface {
	Next(prefix string) string
}

// PurchaseItemRequest is one requested purchase line
type PurchaseItemRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// CreatePurchaseRequest describes a purchase order to receive
type CreatePurchaseRequest struct {
	SupplierID  uuid.UUID
	WarehouseID uuid.UUID
	Date        time.Time
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	Actor       string
	// IdempotencyKey guards against double submission. Empty disables the check.
	IdempotencyKey string
	Items          []PurchaseItemRequest
}

// SaleLineRequest is one requested sale line. It may end up as several
// invoice lines when the FIFO draw spans lots.
type SaleLineRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	// Discount is per unit
	Discount decimal.Decimal
}

// CreateSaleRequest describes a sale to fulfill
type CreateSaleRequest struct {
	CustomerID     uuid.UUID
	WarehouseID    uuid.UUID
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	PaymentStatus  trade.PaymentStatus
	PaymentMethod  trade.PaymentMethod
	Actor          string
	IdempotencyKey string
	Lines          []SaleLineRequest
}

// CreateTransferRequest describes a stock move between warehouses
type CreateTransferRequest struct {
	ProductID       uuid.UUID
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        decimal.Decimal
	Note            string
	Actor           string
}

// TransferResult carries the document number and the movements a transfer produced
type TransferResult struct {
	RefNumber   string      `json:"ref_number"`
	MovementIDs []uuid.UUID `json:"movement_ids"`
}
