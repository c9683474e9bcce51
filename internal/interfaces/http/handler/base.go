package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/interfaces/http/dto"
	"github.com/stocklot/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides the response helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseHandler{logger: logger}
}

// Success writes a 200 with the data envelope
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.SuccessResponse(data))
}

// Created writes a 201 with the data envelope
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.SuccessResponse(data))
}

// NoContent writes a 204
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 with data and pagination metadata
func (h *BaseHandler) Paginated(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, dto.ListResponse(data, dto.NewMeta(page, pageSize, total)))
}

// BadRequest writes a 400 validation error
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeValidation, message))
}

// HandleDomainError maps a service error to an HTTP response. Expected
// business failures are logged at debug only; anything unrecognized is a
// 500 and logged as an error with the request ID.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var stockErr *ledger.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponseWithDetails(
			"INSUFFICIENT_STOCK", stockErr.Error(), gin.H{
				"product_id":   stockErr.ProductID,
				"warehouse_id": stockErr.WarehouseID,
				"available":    stockErr.Available,
				"requested":    stockErr.Requested,
			}))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			h.logger.Error("domain invariant violated",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.String("code", domainErr.Code),
				zap.Error(err))
		}
		c.JSON(status, dto.ErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	h.logger.Error("unhandled error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse(dto.ErrCodeInternalError, "Internal server error"))
}
