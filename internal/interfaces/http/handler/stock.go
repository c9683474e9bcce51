package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appledger "github.com/stocklot/backend/internal/application/ledger"
	"github.com/stocklot/backend/internal/application/report"
	apptrade "github.com/stocklot/backend/internal/application/trade"
	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/interfaces/http/middleware"
)

// StockHandler exposes the ledger operations: receipts, consumption,
// transfers, adjustments, and the lot and movement read models.
type StockHandler struct {
	BaseHandler
	ledger    *appledger.LedgerService
	transfers *apptrade.TransferService
	exports   *report.MovementExportService
}

// NewStockHandler creates a StockHandler
func NewStockHandler(
	ledgerService *appledger.LedgerService,
	transferService *apptrade.TransferService,
	exportService *report.MovementExportService,
	logger *zap.Logger,
) *StockHandler {
	return &StockHandler{
		BaseHandler: NewBaseHandler(logger),
		ledger:      ledgerService,
		transfers:   transferService,
		exports:     exportService,
	}
}

// ReceiveStockRequest is the request body for a manual stock receipt
type ReceiveStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Note        string          `json:"note" binding:"max=255"`
}

// ConsumeStockRequest is the request body for a manual outbound draw
type ConsumeStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Note        string          `json:"note" binding:"max=255"`
}

// TransferStockRequest is the request body for a warehouse transfer
type TransferStockRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Note            string          `json:"note" binding:"max=255"`
}

// AdjustStockRequest is the request body for a stock correction
type AdjustStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Direction   string          `json:"direction" binding:"required,oneof=up down"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Note        string          `json:"note" binding:"max=255"`
}

// Receive handles POST /stock/receive
func (h *StockHandler) Receive(c *gin.Context) {
	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movementID, err := h.ledger.ReceiveStock(c.Request.Context(), appledger.ReceiveStockRequest{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		Note:        req.Note,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, gin.H{"movement_id": movementID})
}

// Consume handles POST /stock/consume
func (h *StockHandler) Consume(c *gin.Context) {
	var req ConsumeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movementIDs, err := h.ledger.ConsumeStock(c.Request.Context(), appledger.ConsumeStockRequest{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
		Note:        req.Note,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, gin.H{"movement_ids": movementIDs})
}

// Transfer handles POST /stock/transfer
func (h *StockHandler) Transfer(c *gin.Context) {
	var req TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.transfers.CreateTransfer(c.Request.Context(), apptrade.CreateTransferRequest{
		ProductID:       req.ProductID,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        req.Quantity,
		Note:            req.Note,
		Actor:           middleware.GetActor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Adjust handles POST /stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movementID, err := h.ledger.AdjustStock(c.Request.Context(), appledger.AdjustStockRequest{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Direction:   appledger.AdjustDirection(req.Direction),
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		Note:        req.Note,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, gin.H{"movement_id": movementID})
}

// ListLots handles GET /stock/lots
func (h *StockHandler) ListLots(c *gin.Context) {
	productID, ok := parseUUIDQuery(c, "product_id")
	if !ok {
		return
	}
	warehouseID, ok := parseUUIDQuery(c, "warehouse_id")
	if !ok {
		return
	}

	lots, err := h.ledger.ListLots(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, lots)
}

// ListMovements handles GET /stock/movements
func (h *StockHandler) ListMovements(c *gin.Context) {
	filter, ok := h.movementFilter(c)
	if !ok {
		return
	}

	movements, total, err := h.ledger.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, movements, filter.Page, filter.PageSize, total)
}

// ExportMovements handles GET /stock/movements/export and streams an
// Excel workbook of the matching movements.
func (h *StockHandler) ExportMovements(c *gin.Context) {
	filter, ok := h.movementFilter(c)
	if !ok {
		return
	}

	f, err := h.exports.ExportMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("movements-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("movement export write failed", zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// GetProductStock handles GET /stock/products/:id
func (h *StockHandler) GetProductStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.ledger.GetProductAggregate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, view)
}

// RecomputeProductStock handles POST /stock/products/:id/recompute. It
// rebuilds the product's aggregate stock from its lots.
func (h *StockHandler) RecomputeProductStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	stock, err := h.ledger.RecomputeProductStock(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"product_id": id, "current_stock": stock})
}

func (h *StockHandler) movementFilter(c *gin.Context) (ledger.MovementFilter, bool) {
	var filter ledger.MovementFilter

	productID, ok := parseUUIDQuery(c, "product_id")
	if !ok {
		return filter, false
	}
	warehouseID, ok := parseUUIDQuery(c, "warehouse_id")
	if !ok {
		return filter, false
	}
	dateFrom, ok := parseDateQuery(c, "date_from")
	if !ok {
		return filter, false
	}
	dateTo, ok := parseDateQuery(c, "date_to")
	if !ok {
		return filter, false
	}

	var paging struct {
		Page     int `form:"page,default=1" binding:"omitempty,min=1"`
		PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&paging); err != nil {
		h.BadRequest(c, err.Error())
		return filter, false
	}

	filter = ledger.MovementFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		Page:        paging.Page,
		PageSize:    paging.PageSize,
	}

	if raw := c.Query("movement_type"); raw != "" {
		mType := ledger.MovementType(raw)
		if !mType.IsValid() {
			h.BadRequest(c, "unknown movement_type")
			return filter, false
		}
		filter.MovementType = &mType
	}
	return filter, true
}
