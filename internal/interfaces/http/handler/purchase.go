package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apptrade "github.com/stocklot/backend/internal/application/trade"
	"github.com/stocklot/backend/internal/interfaces/http/dto"
	"github.com/stocklot/backend/internal/interfaces/http/middleware"
)

// idempotencyKeyHeader lets clients guard create endpoints against
// double submission. Empty disables the check.
const idempotencyKeyHeader = "Idempotency-Key"

// PurchaseHandler exposes purchase order endpoints
type PurchaseHandler struct {
	BaseHandler
	purchases *apptrade.PurchaseService
}

// NewPurchaseHandler creates a PurchaseHandler
func NewPurchaseHandler(purchaseService *apptrade.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: NewBaseHandler(logger),
		purchases:   purchaseService,
	}
}

// CreatePurchaseItem is one requested purchase line
type CreatePurchaseItem struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseBody is the request body for creating a purchase
type CreatePurchaseBody struct {
	SupplierID  uuid.UUID            `json:"supplier_id" binding:"required"`
	WarehouseID uuid.UUID            `json:"warehouse_id" binding:"required"`
	Date        *time.Time           `json:"date"`
	Discount    decimal.Decimal      `json:"discount"`
	Tax         decimal.Decimal      `json:"tax"`
	Items       []CreatePurchaseItem `json:"items" binding:"required,min=1,dive"`
}

// Create handles POST /purchases. The receipt of every item and the
// document write commit as one transaction.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var body CreatePurchaseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date := time.Now()
	if body.Date != nil {
		date = *body.Date
	}

	items := make([]apptrade.PurchaseItemRequest, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, apptrade.PurchaseItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	purchaseID, err := h.purchases.CreatePurchase(c.Request.Context(), apptrade.CreatePurchaseRequest{
		SupplierID:     body.SupplierID,
		WarehouseID:    body.WarehouseID,
		Date:           date,
		Discount:       body.Discount,
		Tax:            body.Tax,
		Actor:          middleware.GetActor(c),
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
		Items:          items,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	purchase, err := h.purchases.GetPurchase(c.Request.Context(), purchaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ToPurchaseResponse(purchase))
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	purchase, err := h.purchases.GetPurchase(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToPurchaseResponse(purchase))
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	supplierID, ok := parseUUIDQuery(c, "supplier_id")
	if !ok {
		return
	}
	if supplierID != nil {
		filter.Filters["supplier_id"] = *supplierID
	}
	warehouseID, ok := parseUUIDQuery(c, "warehouse_id")
	if !ok {
		return
	}
	if warehouseID != nil {
		filter.Filters["warehouse_id"] = *warehouseID
	}
	if dateFrom, ok := parseDateQuery(c, "date_from"); !ok {
		return
	} else if dateFrom != nil {
		filter.Filters["date_from"] = *dateFrom
	}
	if dateTo, ok := parseDateQuery(c, "date_to"); !ok {
		return
	} else if dateTo != nil {
		filter.Filters["date_to"] = *dateTo
	}

	purchases, total, err := h.purchases.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, ToPurchaseResponses(purchases), filter.Page, filter.PageSize, total)
}

// Delete handles DELETE /purchases/:id. The purchase is flagged as
// deleted; its stock effects are not reversed.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.purchases.DeletePurchase(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
