package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/shared"
)

// Purchase is a purchase order header. Its items are written once at
// creation. Soft-deleting a purchase retains it for audit and does not
// reverse the lots and movements its receipt produced.
type Purchase struct {
	shared.BaseAggregateRoot
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"` // Destination
	RefNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date        time.Time       `gorm:"type:timestamptz;not null"`
	SubTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Actor       string          `gorm:"type:varchar(100)"`
	Deleted     bool            `gorm:"not null;default:false"`
	Items       []PurchaseItem  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem is one line of a purchase order
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewPurchase creates a purchase order header
func NewPurchase(supplierID, warehouseID uuid.UUID, refNumber string, date time.Time, actor string) (*Purchase, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if refNumber == "" {
		return nil, shared.NewDomainError("INVALID_REF", "Reference number cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		WarehouseID:       warehouseID,
		RefNumber:         refNumber,
		Date:              date,
		SubTotal:          decimal.Zero,
		Discount:          decimal.Zero,
		Tax:               decimal.Zero,
		Total:             decimal.Zero,
		Actor:             actor,
	}, nil
}

// AddItem appends a line and keeps the totals consistent
func (p *Purchase) AddItem(productID uuid.UUID, quantity, unitCost decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	item := PurchaseItem{
		BaseEntity: shared.NewBaseEntity(),
		PurchaseID: p.ID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitCost:   unitCost,
		LineTotal:  quantity.Mul(unitCost),
	}
	p.Items = append(p.Items, item)
	p.recalculate()
	return nil
}

// SetCharges sets discount and tax and recomputes the total
func (p *Purchase) SetCharges(discount, tax decimal.Decimal) error {
	if discount.IsNegative() || tax.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Discount and tax cannot be negative")
	}
	p.Discount = discount
	p.Tax = tax
	p.recalculate()
	return nil
}

func (p *Purchase) recalculate() {
	subTotal := decimal.Zero
	for _, item := range p.Items {
		subTotal = subTotal.Add(item.LineTotal)
	}
	p.SubTotal = subTotal
	p.Total = subTotal.Sub(p.Discount).Add(p.Tax)
	p.UpdatedAt = time.Now()
}

// SoftDelete flags the purchase as logically removed. Stock effects stay.
func (p *Purchase) SoftDelete() error {
	if p.Deleted {
		return shared.NewDomainError("ALREADY_DELETED", "Purchase is already deleted")
	}
	p.Deleted = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// HasItems returns true if the purchase has at least one line
func (p *Purchase) HasItems() bool {
	return len(p.Items) > 0
}
