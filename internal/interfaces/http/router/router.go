package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applogger "github.com/stocklot/backend/internal/infrastructure/logger"
	"github.com/stocklot/backend/internal/interfaces/http/handler"
	"github.com/stocklot/backend/internal/interfaces/http/middleware"
)

// Config holds router-level settings
type Config struct {
	Mode           string
	Version        string
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Handlers bundles every handler the router mounts
type Handlers struct {
	System   *handler.SystemHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Partner  *handler.PartnerHandler
	Stock    *handler.StockHandler
	Purchase *handler.PurchaseHandler
	Sale     *handler.SaleHandler
}

// New builds the gin engine with all middleware and routes mounted
func New(cfg Config, h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(applogger.GinMiddleware(logger))
	r.Use(applogger.Recovery(logger))
	r.Use(middleware.Secure())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: cfg.AllowedHeaders,
	}))
	r.Use(middleware.Actor())

	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)

	v1 := r.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", h.Product.Create)
			products.GET("", h.Product.List)
			products.GET("/:id", h.Product.Get)
			products.PUT("/:id", h.Product.Update)
			products.DELETE("/:id", h.Product.Archive)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", h.Category.Create)
			categories.GET("", h.Category.List)
			categories.PUT("/:id", h.Category.Rename)
			categories.DELETE("/:id", h.Category.Archive)
		}

		warehouses := v1.Group("/warehouses")
		{
			warehouses.POST("", h.Partner.CreateWarehouse)
			warehouses.GET("", h.Partner.ListWarehouses)
			warehouses.PUT("/:id", h.Partner.UpdateWarehouse)
			warehouses.DELETE("/:id", h.Partner.ArchiveWarehouse)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", h.Partner.CreateSupplier)
			suppliers.GET("", h.Partner.ListSuppliers)
			suppliers.PUT("/:id", h.Partner.UpdateSupplier)
			suppliers.DELETE("/:id", h.Partner.ArchiveSupplier)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", h.Partner.CreateCustomer)
			customers.GET("", h.Partner.ListCustomers)
			customers.PUT("/:id", h.Partner.UpdateCustomer)
			customers.DELETE("/:id", h.Partner.ArchiveCustomer)
		}

		stock := v1.Group("/stock")
		{
			stock.POST("/receive", h.Stock.Receive)
			stock.POST("/consume", h.Stock.Consume)
			stock.POST("/transfer", h.Stock.Transfer)
			stock.POST("/adjust", h.Stock.Adjust)
			stock.GET("/lots", h.Stock.ListLots)
			stock.GET("/movements", h.Stock.ListMovements)
			stock.GET("/movements/export", h.Stock.ExportMovements)
			stock.GET("/products/:id", h.Stock.GetProductStock)
			stock.POST("/products/:id/recompute", h.Stock.RecomputeProductStock)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", h.Purchase.Create)
			purchases.GET("", h.Purchase.List)
			purchases.GET("/:id", h.Purchase.Get)
			purchases.DELETE("/:id", h.Purchase.Delete)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", h.Sale.Create)
			sales.GET("", h.Sale.List)
			sales.GET("/:id", h.Sale.Get)
			sales.PUT("/:id/payment-status", h.Sale.UpdatePaymentStatus)
			sales.DELETE("/:id", h.Sale.Archive)
		}
	}

	return r
}
