package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/shared"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	h := NewBaseHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.HandleDomainError(c, err)
	return w
}

func TestHandleDomainError(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		w := handleError(t, shared.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("concurrency conflict maps to 409", func(t *testing.T) {
		w := handleError(t, shared.ErrConcurrencyConflict)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation code maps to 400", func(t *testing.T) {
		w := handleError(t, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("insufficient stock carries quantities", func(t *testing.T) {
		stockErr := ledger.NewInsufficientStockError(uuid.New(), uuid.New(),
			decimal.NewFromInt(3), decimal.NewFromInt(10))
		w := handleError(t, stockErr)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Code    string `json:"code"`
				Details struct {
					Available string `json:"available"`
					Requested string `json:"requested"`
				} `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "INSUFFICIENT_STOCK", body.Error.Code)
		assert.Equal(t, "3", body.Error.Details.Available)
		assert.Equal(t, "10", body.Error.Details.Requested)
	})

	t.Run("unknown error maps to 500", func(t *testing.T) {
		w := handleError(t, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	})
}
