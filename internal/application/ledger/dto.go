package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/ledger"
)

// AdjustDirection tells an adjustment which way stock moves
type AdjustDirection string

const (
	AdjustUp   AdjustDirection = "up"
	AdjustDown AdjustDirection = "down"
)

// IsValid returns true if the direction is valid
func (d AdjustDirection) IsValid() bool {
	return d == AdjustUp || d == AdjustDown
}

// ReceiveStockRequest describes a purchase receipt or return into a warehouse
type ReceiveStockRequest struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Note        string
	Actor       string
}

// ConsumeStockRequest describes an outbound draw from a warehouse
type ConsumeStockRequest struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Quantity    decimal.Decimal
	Note        string
	Actor       string
}

// TransferStockRequest describes a move between two warehouses
type TransferStockRequest struct {
	ProductID       uuid.UUID
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        decimal.Decimal
	Note            string
	Actor           string
}

// AdjustStockRequest describes a manual stock correction
type AdjustStockRequest struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Direction   AdjustDirection
	Quantity    decimal.Decimal
	// UnitCost applies to upward adjustments only. Zero means "use the
	// product's recommended cost".
	UnitCost decimal.Decimal
	Note     string
	Actor    string
}

// LotView is the read model for a stock lot
type LotView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	AcquiredAt  time.Time       `json:"acquired_at"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// NewLotView builds the read model from a lot
func NewLotView(lot *ledger.StockLot) LotView {
	return LotView{
		ID:          lot.ID,
		ProductID:   lot.ProductID,
		WarehouseID: lot.WarehouseID,
		UnitCost:    lot.UnitCost,
		AcquiredAt:  lot.AcquiredAt,
		Quantity:    lot.Quantity,
		TotalValue:  lot.TotalValue(),
	}
}

// MovementView is the read model for a stock movement
type MovementView struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	FromWarehouseID *uuid.UUID      `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   *uuid.UUID      `json:"to_warehouse_id,omitempty"`
	LotID           *uuid.UUID      `json:"lot_id,omitempty"`
	StockBefore     decimal.Decimal `json:"stock_before"`
	StockAfter      decimal.Decimal `json:"stock_after"`
	Note            string          `json:"note,omitempty"`
	Actor           string          `json:"actor,omitempty"`
	EventDate       time.Time       `json:"event_date"`
}

// NewMovementView builds the read model from a movement
func NewMovementView(m *ledger.StockMovement) MovementView {
	return MovementView{
		ID:              m.ID,
		ProductID:       m.ProductID,
		MovementType:    m.MovementType.String(),
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		TotalCost:       m.TotalCost,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		LotID:           m.LotID,
		StockBefore:     m.StockBefore,
		StockAfter:      m.StockAfter,
		Note:            m.Note,
		Actor:           m.Actor,
		EventDate:       m.EventDate,
	}
}

// ProductAggregateView is the cheap aggregate read for one product
type ProductAggregateView struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	CostRecommend decimal.Decimal `json:"cost_recommend"`
}
