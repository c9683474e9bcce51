package handler_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseEndpoints(t *testing.T) {
	s := newTestServer(t)
	product := seedTestProduct(t, s.db, "Widget", "8000000000001")
	warehouse := seedTestWarehouse(t, s.db, "Main")
	supplier := seedTestSupplier(t, s.db, "Acme Wholesale")

	var purchaseID string

	t.Run("create receives stock and returns the document", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/purchases", map[string]interface{}{
			"supplier_id":  supplier.ID,
			"warehouse_id": warehouse.ID,
			"items": []map[string]interface{}{
				{"product_id": product.ID, "quantity": "10", "unit_cost": "4.00"},
				{"product_id": product.ID, "quantity": "5", "unit_cost": "4.50"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data struct {
			ID        string          `json:"id"`
			RefNumber string          `json:"ref_number"`
			Total     decimal.Decimal `json:"total"`
			Items     []struct {
				LineTotal decimal.Decimal `json:"line_total"`
			} `json:"items"`
		}
		decodeData(t, w, &data)
		purchaseID = data.ID
		assert.NotEmpty(t, data.RefNumber)
		assert.Len(t, data.Items, 2)
		assert.True(t, data.Total.Equal(decimal.RequireFromString("62.50")), "got %s", data.Total)
	})

	t.Run("get returns the purchase", func(t *testing.T) {
		w := s.request(t, http.MethodGet, "/api/v1/purchases/"+purchaseID, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("list includes it", func(t *testing.T) {
		w := s.request(t, http.MethodGet, "/api/v1/purchases", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), purchaseID)
		assert.Contains(t, w.Body.String(), `"total":1`)
	})

	t.Run("empty item list fails binding", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/purchases", map[string]interface{}{
			"supplier_id":  supplier.ID,
			"warehouse_id": warehouse.ID,
			"items":        []map[string]interface{}{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete hides it from the list", func(t *testing.T) {
		w := s.request(t, http.MethodDelete, "/api/v1/purchases/"+purchaseID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.request(t, http.MethodGet, "/api/v1/purchases", nil)
		assert.NotContains(t, w.Body.String(), purchaseID)
	})
}

func TestSaleEndpoints(t *testing.T) {
	s := newTestServer(t)
	product := seedTestProduct(t, s.db, "Widget", "8000000000002")
	warehouse := seedTestWarehouse(t, s.db, "Main")
	supplier := seedTestSupplier(t, s.db, "Acme Wholesale")
	customer := seedTestCustomer(t, s.db, "Walk-in")

	w := s.request(t, http.MethodPost, "/api/v1/purchases", map[string]interface{}{
		"supplier_id":  supplier.ID,
		"warehouse_id": warehouse.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": "10", "unit_cost": "4.00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saleID string

	t.Run("create draws stock and snapshots the cost basis", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/sales", map[string]interface{}{
			"customer_id":    customer.ID,
			"warehouse_id":   warehouse.ID,
			"payment_status": "paid",
			"payment_method": "cash",
			"lines": []map[string]interface{}{
				{"product_id": product.ID, "quantity": "3", "unit_price": "9.00"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data struct {
			ID    string `json:"id"`
			Lines []struct {
				ProductName string          `json:"product_name"`
				UnitCost    decimal.Decimal `json:"unit_cost"`
			} `json:"lines"`
			Total decimal.Decimal `json:"total"`
		}
		decodeData(t, w, &data)
		saleID = data.ID
		require.Len(t, data.Lines, 1)
		assert.Equal(t, "Widget", data.Lines[0].ProductName)
		assert.True(t, data.Lines[0].UnitCost.Equal(decimal.RequireFromString("4.00")))
		assert.True(t, data.Total.Equal(decimal.NewFromInt(27)), "got %s", data.Total)
	})

	t.Run("overdraw rolls back with 422", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/sales", map[string]interface{}{
			"customer_id":    customer.ID,
			"warehouse_id":   warehouse.ID,
			"payment_status": "paid",
			"payment_method": "cash",
			"lines": []map[string]interface{}{
				{"product_id": product.ID, "quantity": "100", "unit_price": "9.00"},
			},
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_STOCK")
	})

	t.Run("payment status transitions", func(t *testing.T) {
		w := s.request(t, http.MethodPut, "/api/v1/sales/"+saleID+"/payment-status",
			map[string]interface{}{"payment_status": "partial"})
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = s.request(t, http.MethodGet, "/api/v1/sales/"+saleID, nil)
		assert.Contains(t, w.Body.String(), `"payment_status":"partial"`)
	})

	t.Run("invalid payment status is a 400", func(t *testing.T) {
		w := s.request(t, http.MethodPut, "/api/v1/sales/"+saleID+"/payment-status",
			map[string]interface{}{"payment_status": "iou"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("archive hides the invoice", func(t *testing.T) {
		w := s.request(t, http.MethodDelete, "/api/v1/sales/"+saleID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.request(t, http.MethodGet, "/api/v1/sales", nil)
		assert.NotContains(t, w.Body.String(), saleID)
	})
}

func TestSaleEndpoints_Idempotency(t *testing.T) {
	s := newTestServer(t)
	product := seedTestProduct(t, s.db, "Widget", "8000000000003")
	warehouse := seedTestWarehouse(t, s.db, "Main")
	supplier := seedTestSupplier(t, s.db, "Acme Wholesale")
	customer := seedTestCustomer(t, s.db, "Walk-in")

	w := s.request(t, http.MethodPost, "/api/v1/purchases", map[string]interface{}{
		"supplier_id":  supplier.ID,
		"warehouse_id": warehouse.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": "10", "unit_cost": "4.00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	saleBody := map[string]interface{}{
		"customer_id":    customer.ID,
		"warehouse_id":   warehouse.ID,
		"payment_status": "paid",
		"payment_method": "cash",
		"lines": []map[string]interface{}{
			{"product_id": product.ID, "quantity": "2", "unit_price": "9.00"},
		},
	}
	headers := map[string]string{"Idempotency-Key": "pos-terminal-1-tx-42"}

	w = s.requestWithHeaders(t, http.MethodPost, "/api/v1/sales", saleBody, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("replay with the same key is a 409", func(t *testing.T) {
		w := s.requestWithHeaders(t, http.MethodPost, "/api/v1/sales", saleBody, headers)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "DUPLICATE_REQUEST")
	})

	t.Run("stock was drawn exactly once", func(t *testing.T) {
		w := s.request(t, http.MethodGet, "/api/v1/stock/products/"+product.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			CurrentStock decimal.Decimal `json:"current_stock"`
		}
		decodeData(t, w, &data)
		assert.True(t, data.CurrentStock.Equal(decimal.NewFromInt(8)), "got %s", data.CurrentStock)
	})
}
