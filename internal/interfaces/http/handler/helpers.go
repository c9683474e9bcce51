package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocklot/backend/internal/interfaces/http/dto"
)

// parseIDParam parses the :id path parameter. On failure it writes the 400
// itself and returns false.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeInvalidID, "Invalid ID format"))
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDQuery parses an optional UUID query parameter. A missing
// parameter yields (nil, true); a malformed one yields (nil, false).
func parseUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeInvalidID, "Invalid "+name+" format"))
		return nil, false
	}
	return &id, true
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeValidation, name+" must be YYYY-MM-DD"))
		return nil, false
	}
	return &d, true
}
