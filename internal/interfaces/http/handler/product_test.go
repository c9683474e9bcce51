package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)

	var productID string

	t.Run("create", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
			"name":          "Blue Mug",
			"barcode":       "4006381333931",
			"selling_price": "12.50",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			CurrentStock string `json:"current_stock"`
		}
		decodeData(t, w, &data)
		productID = data.ID
		assert.Equal(t, "Blue Mug", data.Name)
		assert.Equal(t, "0", data.CurrentStock)
	})

	t.Run("duplicate barcode is a 409", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
			"name":          "Another Mug",
			"barcode":       "4006381333931",
			"selling_price": "9.00",
		})
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "BARCODE_TAKEN")
	})

	t.Run("update", func(t *testing.T) {
		w := s.request(t, http.MethodPut, "/api/v1/products/"+productID, map[string]interface{}{
			"name":          "Blue Mug XL",
			"barcode":       "4006381333931",
			"selling_price": "14.00",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Blue Mug XL")
	})

	t.Run("missing name fails binding", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
			"barcode":       "1234567890123",
			"selling_price": "1.00",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("archive frees the barcode", func(t *testing.T) {
		w := s.request(t, http.MethodDelete, "/api/v1/products/"+productID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.request(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
			"name":          "Reissued Mug",
			"barcode":       "4006381333931",
			"selling_price": "10.00",
		})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		w := s.request(t, http.MethodGet, "/api/v1/products/00000000-0000-0000-0000-000000000001", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		w := s.request(t, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCategoryAndPartnerEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("category lifecycle", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Drinkware"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data struct {
			ID string `json:"id"`
		}
		decodeData(t, w, &data)

		w = s.request(t, http.MethodPut, "/api/v1/categories/"+data.ID, map[string]interface{}{"name": "Kitchenware"})
		require.Equal(t, http.StatusOK, w.Code)

		w = s.request(t, http.MethodGet, "/api/v1/categories", nil)
		assert.Contains(t, w.Body.String(), "Kitchenware")
	})

	t.Run("warehouse lifecycle", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/warehouses", map[string]interface{}{
			"name":    "Backroom",
			"address": "12 Main St",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data struct {
			ID string `json:"id"`
		}
		decodeData(t, w, &data)

		w = s.request(t, http.MethodDelete, "/api/v1/warehouses/"+data.ID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.request(t, http.MethodGet, "/api/v1/warehouses", nil)
		assert.NotContains(t, w.Body.String(), "Backroom")
	})

	t.Run("supplier validation", func(t *testing.T) {
		w := s.request(t, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{
			"name":  "Acme",
			"email": "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.request(t, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{
			"name":  "Acme",
			"email": "sales@acme.example",
		})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("customer listing searches by name", func(t *testing.T) {
		for _, name := range []string{"Ada Lovelace", "Grace Hopper"} {
			w := s.request(t, http.MethodPost, "/api/v1/customers", map[string]interface{}{"name": name})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		w := s.request(t, http.MethodGet, "/api/v1/customers?search=Ada", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ada Lovelace")
		assert.NotContains(t, w.Body.String(), "Grace Hopper")
	})
}
