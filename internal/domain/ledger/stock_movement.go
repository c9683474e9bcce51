package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/shared"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeStockIn records stock entering inventory (purchase receipt, adjustment up)
	MovementTypeStockIn MovementType = "stock_in"
	// MovementTypeStockOut records stock leaving inventory (sale fulfillment, adjustment down)
	MovementTypeStockOut MovementType = "stock_out"
	// MovementTypeAdjustment records a manual correction of stock
	MovementTypeAdjustment MovementType = "adjustment"
	// MovementTypeReturn records returned stock
	MovementTypeReturn MovementType = "return"
	// MovementTypeTransfer records stock moved between warehouses
	MovementTypeTransfer MovementType = "transfer"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeStockIn, MovementTypeStockOut, MovementTypeAdjustment,
		MovementTypeReturn, MovementTypeTransfer:
		return true
	}
	return false
}

// StockMovement is an immutable audit record of one inventory-affecting
// event. Once written, movements are never mutated or deleted - corrections
// are made with new movements. One FIFO lot draw during a sale or transfer
// produces exactly one movement row, so a single sale line spanning two lots
// yields two movements.
type StockMovement struct {
	shared.BaseEntity
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_product"`
	MovementType    MovementType    `gorm:"type:varchar(20);not null;index:idx_stock_mv_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction determined by type
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cost basis: the drawn lot's own unit cost
	TotalCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitCost
	FromWarehouseID *uuid.UUID      `gorm:"type:uuid;index"`             // Source warehouse (outbound/transfer)
	ToWarehouseID   *uuid.UUID      `gorm:"type:uuid;index"`             // Destination warehouse (inbound/transfer)
	LotID           *uuid.UUID      `gorm:"type:uuid;index"`             // The lot this movement drew from or fed into
	StockBefore     decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Product aggregate before the event
	StockAfter      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Product aggregate after the event
	Note            string          `gorm:"type:varchar(255)"`           // Free-text note / document reference
	Actor           string          `gorm:"type:varchar(100)"`           // Who performed the operation
	EventDate       time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_mv_date"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(
	productID uuid.UUID,
	movementType MovementType,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	stockBefore decimal.Decimal,
	stockAfter decimal.Decimal,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		MovementType: movementType,
		Quantity:     quantity,
		UnitCost:     unitCost,
		TotalCost:    quantity.Mul(unitCost),
		StockBefore:  stockBefore,
		StockAfter:   stockAfter,
		EventDate:    time.Now(),
	}, nil
}

// WithFromWarehouse sets the source warehouse
func (m *StockMovement) WithFromWarehouse(warehouseID uuid.UUID) *StockMovement {
	m.FromWarehouseID = &warehouseID
	return m
}

// WithToWarehouse sets the destination warehouse
func (m *StockMovement) WithToWarehouse(warehouseID uuid.UUID) *StockMovement {
	m.ToWarehouseID = &warehouseID
	return m
}

// WithLot sets the lot the movement drew from or fed into
func (m *StockMovement) WithLot(lotID uuid.UUID) *StockMovement {
	m.LotID = &lotID
	return m
}

// WithNote sets the free-text note
func (m *StockMovement) WithNote(note string) *StockMovement {
	m.Note = note
	return m
}

// WithActor sets the actor who performed the operation
func (m *StockMovement) WithActor(actor string) *StockMovement {
	m.Actor = actor
	return m
}

// WithEventDate sets the event date
func (m *StockMovement) WithEventDate(date time.Time) *StockMovement {
	m.EventDate = date
	return m
}

// IsInbound returns true if the movement increases the aggregate
func (m *StockMovement) IsInbound() bool {
	return m.MovementType == MovementTypeStockIn || m.MovementType == MovementTypeReturn
}

// IsOutbound returns true if the movement decreases the aggregate
func (m *StockMovement) IsOutbound() bool {
	return m.MovementType == MovementTypeStockOut
}

// SignedQuantity returns the quantity with sign based on movement type.
// Transfers and aggregate-neutral adjustments derive their sign from the
// before/after snapshots instead.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	switch {
	case m.IsInbound():
		return m.Quantity
	case m.IsOutbound():
		return m.Quantity.Neg()
	default:
		return m.StockAfter.Sub(m.StockBefore)
	}
}
