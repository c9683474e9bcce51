package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apppartner "github.com/stocklot/backend/internal/application/partner"
	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/interfaces/http/dto"
)

// PartnerHandler exposes warehouses, suppliers, and customers. The three
// share the same create/update/archive/list shape.
type PartnerHandler struct {
	BaseHandler
	partners *apppartner.PartnerService
}

// NewPartnerHandler creates a PartnerHandler
func NewPartnerHandler(partnerService *apppartner.PartnerService, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{
		BaseHandler: NewBaseHandler(logger),
		partners:    partnerService,
	}
}

// WarehouseBody is the request body for creating or updating a warehouse
type WarehouseBody struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"omitempty,max=255"`
}

// ContactBody is the request body for suppliers and customers
type ContactBody struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Email   string `json:"email" binding:"omitempty,email,max=100"`
	Address string `json:"address" binding:"omitempty,max=255"`
}

// WarehouseResponse is a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactResponse is a supplier or customer in API responses
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

func toWarehouseResponse(w *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		Archived:  w.Archived,
		CreatedAt: w.CreatedAt,
	}
}

func toSupplierResponse(s *partner.Supplier) ContactResponse {
	return ContactResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Archived:  s.Archived,
		CreatedAt: s.CreatedAt,
	}
}

func toCustomerResponse(c *partner.Customer) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Archived:  c.Archived,
		CreatedAt: c.CreatedAt,
	}
}

// CreateWarehouse handles POST /warehouses
func (h *PartnerHandler) CreateWarehouse(c *gin.Context) {
	var body WarehouseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.partners.CreateWarehouse(c.Request.Context(), body.Name, body.Address)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toWarehouseResponse(warehouse))
}

// UpdateWarehouse handles PUT /warehouses/:id
func (h *PartnerHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body WarehouseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.partners.UpdateWarehouse(c.Request.Context(), id, body.Name, body.Address)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toWarehouseResponse(warehouse))
}

// ArchiveWarehouse handles DELETE /warehouses/:id
func (h *PartnerHandler) ArchiveWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.partners.ArchiveWarehouse(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListWarehouses handles GET /warehouses
func (h *PartnerHandler) ListWarehouses(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	warehouses, total, err := h.partners.ListWarehouses(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	out := make([]WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, toWarehouseResponse(w))
	}
	h.Paginated(c, out, filter.Page, filter.PageSize, total)
}

// CreateSupplier handles POST /suppliers
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var body ContactBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.partners.CreateSupplier(c.Request.Context(), body.Name, body.Phone, body.Email, body.Address)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toSupplierResponse(supplier))
}

// UpdateSupplier handles PUT /suppliers/:id
func (h *PartnerHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body ContactBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.partners.UpdateSupplier(c.Request.Context(), id, body.Name, body.Phone, body.Email, body.Address)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toSupplierResponse(supplier))
}

// ArchiveSupplier handles DELETE /suppliers/:id
func (h *PartnerHandler) ArchiveSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.partners.ArchiveSupplier(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSuppliers handles GET /suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	suppliers, total, err := h.partners.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	out := make([]ContactResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	h.Paginated(c, out, filter.Page, filter.PageSize, total)
}

// CreateCustomer handles POST /customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var body ContactBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.partners.CreateCustomer(c.Request.Context(), body.Name, body.Phone, body.Email, body.Address)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toCustomerResponse(customer))
}

// UpdateCustomer handles PUT /customers/:id
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body ContactBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.partners.UpdateCustomer(c.Request.Context(), id, body.Name, body.Phone, body.Email, body.Address)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(customer))
}

// ArchiveCustomer handles DELETE /customers/:id
func (h *PartnerHandler) ArchiveCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.partners.ArchiveCustomer(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListCustomers handles GET /customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	customers, total, err := h.partners.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	out := make([]ContactResponse, 0, len(customers))
	for _, cust := range customers {
		out = append(out, toCustomerResponse(cust))
	}
	h.Paginated(c, out, filter.Page, filter.PageSize, total)
}
