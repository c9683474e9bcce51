package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/domain/shared/valueobject"
)

// Product is a sellable item and the aggregate root of the stock ledger.
// CurrentStock is a derived cache: it must always equal the sum of the
// product's non-archived lot quantities across all warehouses, and it is
// mutated only inside the ledger's transactional operations, never by
// handlers or CRUD code.
type Product struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null"`
	Barcode       string          `gorm:"type:varchar(50);uniqueIndex:idx_product_barcode,where:archived = false"`
	ImageURL      string          `gorm:"type:varchar(500)"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Derived aggregate, ledger-owned
	CostRecommend decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Last purchase unit cost, advisory
	Archived      bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with zero stock
func NewProduct(name, barcode string, sellingPrice valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateBarcode(barcode); err != nil {
		return nil, err
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Barcode:           barcode,
		SellingPrice:      sellingPrice.Amount(),
		CurrentStock:      decimal.Zero,
		CostRecommend:     decimal.Zero,
		Archived:          false,
	}, nil
}

// Update updates the product's catalog fields
func (p *Product) Update(name, barcode, imageURL string, sellingPrice valueobject.Money) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateBarcode(barcode); err != nil {
		return err
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	p.Name = name
	p.Barcode = barcode
	p.ImageURL = imageURL
	p.SellingPrice = sellingPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IncreaseStock raises the derived aggregate. Called only by the ledger
// inside a transaction.
func (p *Product) IncreaseStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.CurrentStock = p.CurrentStock.Add(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// DecreaseStock lowers the derived aggregate. Called only by the ledger
// inside a transaction; the ledger has already proven sufficient lot stock.
func (p *Product) DecreaseStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(p.CurrentStock) {
		return shared.NewDomainError("STOCK_UNDERFLOW", "Aggregate stock cannot go negative")
	}
	p.CurrentStock = p.CurrentStock.Sub(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetStock overwrites the derived aggregate with a recomputed sum of lots.
// Used by the reconciliation routine.
func (p *Product) SetStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock cannot be negative")
	}
	p.CurrentStock = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetCostRecommend records the latest purchase unit cost. It always rides
// inside a receive whose stock mutation already bumped the version, so it
// must not bump it again.
func (p *Product) SetCostRecommend(unitCost decimal.Decimal) error {
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	p.CostRecommend = unitCost
	p.UpdatedAt = time.Now()
	return nil
}

// Touch bumps the version without changing catalog fields. Used when the
// ledger serializes lot mutations through the product aggregate even though
// the aggregate quantity is unchanged, e.g. during transfers.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Archive soft-deletes the product
func (p *Product) Archive() error {
	if p.Archived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Product is already archived")
	}
	p.Archived = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Unarchive restores an archived product
func (p *Product) Unarchive() error {
	if !p.Archived {
		return shared.NewDomainError("NOT_ARCHIVED", "Product is not archived")
	}
	p.Archived = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// GetSellingPriceMoney returns the selling price as a Money value object
func (p *Product) GetSellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.SellingPrice)
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateBarcode(barcode string) error {
	if barcode == "" {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}
	return nil
}
