package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appcatalog "github.com/stocklot/backend/internal/application/catalog"
	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/interfaces/http/dto"
)

// CategoryHandler exposes product category endpoints
type CategoryHandler struct {
	BaseHandler
	catalog *appcatalog.CatalogService
}

// NewCategoryHandler creates a CategoryHandler
func NewCategoryHandler(catalogService *appcatalog.CatalogService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalogService,
	}
}

// CategoryBody is the request body for creating or renaming a category
type CategoryBody struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CategoryResponse is a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryResponse(cat *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		Archived:  cat.Archived,
		CreatedAt: cat.CreatedAt,
	}
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var body CategoryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), body.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toCategoryResponse(category))
}

// Rename handles PUT /categories/:id
func (h *CategoryHandler) Rename(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body CategoryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.catalog.RenameCategory(c.Request.Context(), id, body.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toCategoryResponse(category))
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := req.ToFilter()

	categories, total, err := h.catalog.ListCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toCategoryResponse(cat))
	}
	h.Paginated(c, out, filter.Page, filter.PageSize, total)
}

// Archive handles DELETE /categories/:id. Products keep their category
// reference; archived categories simply stop appearing in listings.
func (h *CategoryHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalog.ArchiveCategory(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
