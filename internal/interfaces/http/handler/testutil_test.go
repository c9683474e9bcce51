package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appcatalog "github.com/stocklot/backend/internal/application/catalog"
	appledger "github.com/stocklot/backend/internal/application/ledger"
	apppartner "github.com/stocklot/backend/internal/application/partner"
	"github.com/stocklot/backend/internal/application/report"
	apptrade "github.com/stocklot/backend/internal/application/trade"
	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/domain/shared/valueobject"
	"github.com/stocklot/backend/internal/infrastructure/cache"
	"github.com/stocklot/backend/internal/infrastructure/persistence"
	"github.com/stocklot/backend/internal/interfaces/http/handler"
	"github.com/stocklot/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sequentialRefGen struct {
	n int
}

func (g *sequentialRefGen) Next(prefix string) string {
	g.n++
	return prefix + "-" + string(rune('A'+g.n))
}

// testServer wires the full stack on an in-memory database
type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
	ledger *appledger.LedgerService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, persistence.AutoMigrate(db))

	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	warehouseRepo := persistence.NewGormWarehouseRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	lotRepo := persistence.NewGormStockLotRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	purchaseRepo := persistence.NewGormPurchaseRepository(db)
	saleRepo := persistence.NewGormSaleInvoiceRepository(db)

	scope := persistence.NewGormTransactionScope(db)
	ledgerService := appledger.NewLedgerService(scope, productRepo, lotRepo, movementRepo, warehouseRepo, nil)
	refGen := &sequentialRefGen{}

	idemStore := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idemStore.Close() })

	purchaseService := apptrade.NewPurchaseService(ledgerService, purchaseRepo, supplierRepo, warehouseRepo, refGen, nil)
	purchaseService.SetIdempotencyStore(idemStore, shared.DefaultIdempotencyConfig())
	saleService := apptrade.NewSaleService(ledgerService, saleRepo, customerRepo, warehouseRepo, refGen, nil)
	saleService.SetIdempotencyStore(idemStore, shared.DefaultIdempotencyConfig())

	handlers := router.Handlers{
		System:   handler.NewSystemHandler(nil, "test", nil),
		Product:  handler.NewProductHandler(appcatalog.NewCatalogService(productRepo, categoryRepo, nil), nil),
		Category: handler.NewCategoryHandler(appcatalog.NewCatalogService(productRepo, categoryRepo, nil), nil),
		Partner:  handler.NewPartnerHandler(apppartner.NewPartnerService(warehouseRepo, supplierRepo, customerRepo, nil), nil),
		Stock: handler.NewStockHandler(ledgerService,
			apptrade.NewTransferService(ledgerService, refGen, nil),
			report.NewMovementExportService(movementRepo, nil), nil),
		Purchase: handler.NewPurchaseHandler(purchaseService, nil),
		Sale:     handler.NewSaleHandler(saleService, nil),
	}

	engine := router.New(router.Config{Mode: gin.TestMode, Version: "test"}, handlers, nil)
	return &testServer{engine: engine, db: db, ledger: ledgerService}
}

func (s *testServer) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	return s.requestWithHeaders(t, method, path, body, nil)
}

func (s *testServer) requestWithHeaders(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "tester")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "body: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func seedTestProduct(t *testing.T, db *gorm.DB, name, barcode string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, barcode, valueobject.NewMoneyUSD(decimal.NewFromInt(25)))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

func seedTestWarehouse(t *testing.T, db *gorm.DB, name string) *partner.Warehouse {
	t.Helper()
	warehouse, err := partner.NewWarehouse(name, "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormWarehouseRepository(db).Create(context.Background(), warehouse))
	return warehouse
}

func seedTestSupplier(t *testing.T, db *gorm.DB, name string) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(name)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormSupplierRepository(db).Create(context.Background(), supplier))
	return supplier
}

func seedTestCustomer(t *testing.T, db *gorm.DB, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(name)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(db).Create(context.Background(), customer))
	return customer
}
