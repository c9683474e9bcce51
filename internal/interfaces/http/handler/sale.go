package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apptrade "github.com/stocklot/backend/internal/application/trade"
	"github.com/stocklot/backend/internal/domain/trade"
	"github.com/stocklot/backend/internal/interfaces/http/dto"
	"github.com/stocklot/backend/internal/interfaces/http/middleware"
)

// SaleHandler exposes sale invoice endpoints
type SaleHandler struct {
	BaseHandler
	sales *apptrade.SaleService
}

// NewSaleHandler creates a SaleHandler
func NewSaleHandler(saleService *apptrade.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		BaseHandler: NewBaseHandler(logger),
		sales:       saleService,
	}
}

// CreateSaleLine is one requested sale line
type CreateSaleLine struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleBody is the request body for creating a sale
type CreateSaleBody struct {
	CustomerID    uuid.UUID        `json:"customer_id" binding:"required"`
	WarehouseID   uuid.UUID        `json:"warehouse_id" binding:"required"`
	Discount      decimal.Decimal  `json:"discount"`
	Tax           decimal.Decimal  `json:"tax"`
	PaymentStatus string           `json:"payment_status" binding:"required,payment_status"`
	PaymentMethod string           `json:"payment_method" binding:"required,payment_method"`
	Lines         []CreateSaleLine `json:"lines" binding:"required,min=1,dive"`
}

// Create handles POST /sales. Stock is drawn FIFO inside the same
// transaction that writes the invoice; an overdraw on any line rolls
// back the whole sale.
func (h *SaleHandler) Create(c *gin.Context) {
	var body CreateSaleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]apptrade.SaleLineRequest, 0, len(body.Lines))
	for _, line := range body.Lines {
		lines = append(lines, apptrade.SaleLineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
		})
	}

	invoiceID, err := h.sales.CreateSale(c.Request.Context(), apptrade.CreateSaleRequest{
		CustomerID:     body.CustomerID,
		WarehouseID:    body.WarehouseID,
		Discount:       body.Discount,
		Tax:            body.Tax,
		PaymentStatus:  trade.PaymentStatus(body.PaymentStatus),
		PaymentMethod:  trade.PaymentMethod(body.PaymentMethod),
		Actor:          middleware.GetActor(c),
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
		Lines:          lines,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	invoice, err := h.sales.GetSale(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ToSaleInvoiceResponse(invoice))
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	invoice, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToSaleInvoiceResponse(invoice))
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	customerID, ok := parseUUIDQuery(c, "customer_id")
	if !ok {
		return
	}
	if customerID != nil {
		filter.Filters["customer_id"] = *customerID
	}
	warehouseID, ok := parseUUIDQuery(c, "warehouse_id")
	if !ok {
		return
	}
	if warehouseID != nil {
		filter.Filters["warehouse_id"] = *warehouseID
	}
	if status := c.Query("payment_status"); status != "" {
		filter.Filters["payment_status"] = status
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

	invoices, total, err := h.sales.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, ToSaleInvoiceResponses(invoices), filter.Page, filter.PageSize, total)
}

// UpdatePaymentStatusBody is the request body for a payment status change
type UpdatePaymentStatusBody struct {
	PaymentStatus string `json:"payment_status" binding:"required,payment_status"`
}

// UpdatePaymentStatus handles PUT /sales/:id/payment-status
func (h *SaleHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body UpdatePaymentStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.sales.UpdatePaymentStatus(c.Request.Context(), id, trade.PaymentStatus(body.PaymentStatus)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Archive handles DELETE /sales/:id. The invoice is hidden from lists;
// the stock it consumed stays consumed.
func (h *SaleHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.sales.ArchiveSale(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
