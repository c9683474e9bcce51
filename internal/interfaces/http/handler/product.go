package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appcatalog "github.com/stocklot/backend/internal/application/catalog"
	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/interfaces/http/dto"
)

// ProductHandler exposes catalog product endpoints. Stock fields on the
// responses are read-only aggregates owned by the ledger.
type ProductHandler struct {
	BaseHandler
	catalog *appcatalog.CatalogService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(catalogService *appcatalog.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalogService,
	}
}

// ProductBody is the request body for creating or updating a product
type ProductBody struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Barcode      string          `json:"barcode" binding:"required,min=1,max=50"`
	ImageURL     string          `json:"image_url" binding:"omitempty,max=500"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CategoryID   *uuid.UUID      `json:"category_id"`
}

// ProductResponse is a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	ImageURL      string          `json:"image_url,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	CostRecommend decimal.Decimal `json:"cost_recommend"`
	Archived      bool            `json:"archived"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse maps a product to its response shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		ImageURL:      p.ImageURL,
		CategoryID:    p.CategoryID,
		SellingPrice:  p.SellingPrice,
		CurrentStock:  p.CurrentStock,
		CostRecommend: p.CostRecommend,
		Archived:      p.Archived,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var body ProductBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), appcatalog.CreateProductRequest{
		Name:         body.Name,
		Barcode:      body.Barcode,
		ImageURL:     body.ImageURL,
		SellingPrice: body.SellingPrice,
		CategoryID:   body.CategoryID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ToProductResponse(product))
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body ProductBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, appcatalog.UpdateProductRequest{
		Name:         body.Name,
		Barcode:      body.Barcode,
		ImageURL:     body.ImageURL,
		SellingPrice: body.SellingPrice,
		CategoryID:   body.CategoryID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToProductResponse(product))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToProductResponse(product))
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	categoryID, ok := parseUUIDQuery(c, "category_id")
	if !ok {
		return
	}
	if categoryID != nil {
		filter.Filters["category_id"] = *categoryID
	}
	if c.Query("archived") == "true" {
		filter.Filters["archived"] = true
	}
	if c.Query("has_stock") == "true" {
		filter.Filters["has_stock"] = true
	}

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	h.Paginated(c, out, filter.Page, filter.PageSize, total)
}

// Archive handles DELETE /products/:id. Archiving frees the barcode for
// reuse and hides the product from default listings.
func (h *ProductHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalog.ArchiveProduct(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
