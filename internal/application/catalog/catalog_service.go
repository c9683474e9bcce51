package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/domain/shared/valueobject"
)

// CreateProductRequest describes a new catalog product
type CreateProductRequest struct {
	Name         string
	Barcode      string
	ImageURL     string
	SellingPrice decimal.Decimal
	CategoryID   *uuid.UUID
}

// UpdateProductRequest describes a product edit. Stock fields are not
// editable here; they belong to the ledger.
type UpdateProductRequest struct {
	Name         string
	Barcode      string
	ImageURL     string
	SellingPrice decimal.Decimal
	CategoryID   *uuid.UUID
}

// CatalogService manages products and categories. It never touches stock:
// products are created with zero stock and stock enters only through the
// ledger's receive and adjust operations.
type CatalogService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateProduct creates a product with zero stock
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	taken, err := s.productRepo.ExistsByBarcode(ctx, req.Barcode, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("BARCODE_TAKEN", "A product with this barcode already exists")
	}

	product, err := catalog.NewProduct(req.Name, req.Barcode, valueobject.NewMoneyUSD(req.SellingPrice))
	if err != nil {
		return nil, err
	}
	product.ImageURL = req.ImageURL
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		product.SetCategory(req.CategoryID)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("barcode", product.Barcode))
	return product, nil
}

// UpdateProduct edits catalog fields only
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.productRepo.ExistsByBarcode(ctx, req.Barcode, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("BARCODE_TAKEN", "A product with this barcode already exists")
	}

	if err := product.Update(req.Name, req.Barcode, req.ImageURL, valueobject.NewMoneyUSD(req.SellingPrice)); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
	}
	product.SetCategory(req.CategoryID)

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns one product
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts returns products matching the filter
func (s *CatalogService) ListProducts(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	return s.productRepo.FindAll(ctx, filter)
}

// ArchiveProduct soft-deletes a product
func (s *CatalogService) ArchiveProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := product.Archive(); err != nil {
		return err
	}
	return s.productRepo.SaveWithLock(ctx, product)
}

// CreateCategory creates a category
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	category, err := catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// RenameCategory renames a category
func (s *CatalogService) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ArchiveCategory soft-deletes a category
func (s *CatalogService) ArchiveCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	category.Archive()
	return s.categoryRepo.Save(ctx, category)
}

// ListCategories returns categories matching the filter
func (s *CatalogService) ListCategories(ctx context.Context, filter shared.Filter) ([]*catalog.Category, int64, error) {
	return s.categoryRepo.FindAll(ctx, filter)
}
