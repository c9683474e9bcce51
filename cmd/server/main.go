package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcatalog "github.com/stocklot/backend/internal/application/catalog"
	appledger "github.com/stocklot/backend/internal/application/ledger"
	apppartner "github.com/stocklot/backend/internal/application/partner"
	"github.com/stocklot/backend/internal/application/report"
	apptrade "github.com/stocklot/backend/internal/application/trade"
	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/infrastructure/cache"
	"github.com/stocklot/backend/internal/infrastructure/config"
	"github.com/stocklot/backend/internal/infrastructure/idgen"
	"github.com/stocklot/backend/internal/infrastructure/logger"
	"github.com/stocklot/backend/internal/infrastructure/persistence"
	"github.com/stocklot/backend/internal/interfaces/http/handler"
	"github.com/stocklot/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Production schemas are managed by cmd/migrate; AutoMigrate keeps
	// development setups zero-step.
	if cfg.App.Env != "production" {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			return err
		}
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	lotRepo := persistence.NewGormStockLotRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	saleRepo := persistence.NewGormSaleInvoiceRepository(db.DB)

	refGen, err := idgen.NewSnowflakeRefGenerator(cfg.Ref.NodeID)
	if err != nil {
		return err
	}

	var idemStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		idemStore, err = cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		log.Info("idempotency store: redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore()
		log.Info("idempotency store: in-memory")
	}
	defer func() { _ = idemStore.Close() }()

	scope := persistence.NewGormTransactionScope(db.DB)
	ledgerService := appledger.NewLedgerService(scope, productRepo, lotRepo, movementRepo, warehouseRepo, log)
	catalogService := appcatalog.NewCatalogService(productRepo, categoryRepo, log)
	partnerService := apppartner.NewPartnerService(warehouseRepo, supplierRepo, customerRepo, log)
	transferService := apptrade.NewTransferService(ledgerService, refGen, log)
	exportService := report.NewMovementExportService(movementRepo, log)

	idemCfg := shared.IdempotencyConfig{TTL: cfg.Idempotency.TTL, Enabled: true}
	purchaseService := apptrade.NewPurchaseService(ledgerService, purchaseRepo, supplierRepo, warehouseRepo, refGen, log)
	purchaseService.SetIdempotencyStore(idemStore, idemCfg)
	saleService := apptrade.NewSaleService(ledgerService, saleRepo, customerRepo, warehouseRepo, refGen, log)
	saleService.SetIdempotencyStore(idemStore, idemCfg)

	engine := router.New(router.Config{
		Mode:           ginMode(cfg.App.Env),
		Version:        version,
		AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowedMethods: cfg.HTTP.CORSAllowMethods,
		AllowedHeaders: cfg.HTTP.CORSAllowHeaders,
	}, router.Handlers{
		System:   handler.NewSystemHandler(db, version, log),
		Product:  handler.NewProductHandler(catalogService, log),
		Category: handler.NewCategoryHandler(catalogService, log),
		Partner:  handler.NewPartnerHandler(partnerService, log),
		Stock:    handler.NewStockHandler(ledgerService, transferService, exportService, log),
		Purchase: handler.NewPurchaseHandler(purchaseService, log),
		Sale:     handler.NewSaleHandler(saleService, log),
	}, log)

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func ginMode(env string) string {
	if env == "production" {
		return "release"
	}
	return "debug"
}
