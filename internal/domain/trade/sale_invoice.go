package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/shared"
)

// PaymentStatus represents the payment state of a sale invoice
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
)

// IsValid returns true if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusPartial:
		return true
	}
	return false
}

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCredit   PaymentMethod = "credit"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// SaleInvoice is a sale header with denormalized line snapshots. Invoices
// are financial records: each line freezes the product metadata and the
// cost actually drawn at the time of sale, so later catalog edits never
// change what an invoice says.
type SaleInvoice struct {
	shared.BaseAggregateRoot
	CustomerID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	WarehouseID   uuid.UUID         `gorm:"type:uuid;not null;index"` // Source
	RefNumber     string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date          time.Time         `gorm:"type:timestamptz;not null"`
	SubTotal      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Tax           decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus PaymentStatus     `gorm:"type:varchar(20);not null"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null"`
	Actor         string            `gorm:"type:varchar(100)"`
	Archived      bool              `gorm:"not null;default:false"`
	Lines         []SaleInvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SaleInvoice) TableName() string {
	return "sale_invoices"
}

// SaleInvoiceLine is one FIFO draw captured as an invoice line. A requested
// sale line that spans two lots appears here as two rows, each carrying the
// cost basis of the lot it was drawn from.
type SaleInvoiceLine struct {
	shared.BaseEntity
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName    string          `gorm:"type:varchar(200);not null"` // Snapshot at sale time
	ProductBarcode string          `gorm:"type:varchar(50)"`           // Snapshot at sale time
	ProductImage   string          `gorm:"type:varchar(500)"`          // Snapshot at sale time
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cost basis from the drawn lot
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Per-unit discount
	LineTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MovementID     *uuid.UUID      `gorm:"type:uuid;index"` // The stock movement this draw produced
}

// TableName returns the table name for GORM
func (SaleInvoiceLine) TableName() string {
	return "sale_invoice_lines"
}

// LineSnapshot carries the frozen product metadata for one FIFO draw
type LineSnapshot struct {
	ProductID      uuid.UUID
	ProductName    string
	ProductBarcode string
	ProductImage   string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	UnitPrice      decimal.Decimal
	Discount       decimal.Decimal
	MovementID     *uuid.UUID
}

// NewSaleInvoice creates a sale invoice header
func NewSaleInvoice(customerID, warehouseID uuid.UUID, refNumber string, status PaymentStatus, method PaymentMethod, actor string) (*SaleInvoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if refNumber == "" {
		return nil, shared.NewDomainError("INVALID_REF", "Reference number cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Invalid payment status")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	return &SaleInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		WarehouseID:       warehouseID,
		RefNumber:         refNumber,
		Date:              time.Now(),
		SubTotal:          decimal.Zero,
		Discount:          decimal.Zero,
		Tax:               decimal.Zero,
		Total:             decimal.Zero,
		PaymentStatus:     status,
		PaymentMethod:     method,
		Actor:             actor,
	}, nil
}

// AddLine appends one draw snapshot. LineTotal uses the sale price net of
// the per-unit discount; the cost basis is carried separately for margin
// reporting.
func (s *SaleInvoice) AddLine(snap LineSnapshot) error {
	if snap.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if snap.ProductName == "" {
		return shared.NewDomainError("INVALID_SNAPSHOT", "Product name snapshot cannot be empty")
	}
	if snap.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if snap.UnitCost.IsNegative() || snap.UnitPrice.IsNegative() || snap.Discount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Cost, price and discount cannot be negative")
	}

	line := SaleInvoiceLine{
		BaseEntity:     shared.NewBaseEntity(),
		InvoiceID:      s.ID,
		ProductID:      snap.ProductID,
		ProductName:    snap.ProductName,
		ProductBarcode: snap.ProductBarcode,
		ProductImage:   snap.ProductImage,
		Quantity:       snap.Quantity,
		UnitCost:       snap.UnitCost,
		UnitPrice:      snap.UnitPrice,
		Discount:       snap.Discount,
		LineTotal:      snap.UnitPrice.Sub(snap.Discount).Mul(snap.Quantity),
		MovementID:     snap.MovementID,
	}
	s.Lines = append(s.Lines, line)
	return nil
}

// Finalize computes sub_total and total once all lines are in place.
// SubTotal sums price*quantity before per-unit discounts; the invoice-level
// discount and tax then produce the total.
func (s *SaleInvoice) Finalize(discount, tax decimal.Decimal) error {
	if discount.IsNegative() || tax.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Discount and tax cannot be negative")
	}
	subTotal := decimal.Zero
	for _, line := range s.Lines {
		subTotal = subTotal.Add(line.UnitPrice.Mul(line.Quantity))
	}
	s.SubTotal = subTotal
	s.Discount = discount
	s.Tax = tax
	s.Total = subTotal.Sub(discount).Add(tax)
	s.UpdatedAt = time.Now()
	return nil
}

// UpdatePaymentStatus changes the payment state
func (s *SaleInvoice) UpdatePaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Invalid payment status")
	}
	s.PaymentStatus = status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Archive soft-deletes the invoice. Stock effects stay.
func (s *SaleInvoice) Archive() error {
	if s.Archived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Invoice is already archived")
	}
	s.Archived = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// TotalCostBasis sums quantity*cost across lines for margin reporting
func (s *SaleInvoice) TotalCostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Quantity.Mul(line.UnitCost))
	}
	return total
}

// GrossMargin returns total revenue minus total cost basis
func (s *SaleInvoice) GrossMargin() decimal.Decimal {
	return s.Total.Sub(s.TotalCostBasis())
}
