package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/trade"
)

// PurchaseItemResponse is one purchase line in API responses
type PurchaseItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PurchaseResponse is a purchase document in API responses
type PurchaseResponse struct {
	ID          uuid.UUID              `json:"id"`
	SupplierID  uuid.UUID              `json:"supplier_id"`
	WarehouseID uuid.UUID              `json:"warehouse_id"`
	RefNumber   string                 `json:"ref_number"`
	Date        time.Time              `json:"date"`
	SubTotal    decimal.Decimal        `json:"sub_total"`
	Discount    decimal.Decimal        `json:"discount"`
	Tax         decimal.Decimal        `json:"tax"`
	Total       decimal.Decimal        `json:"total"`
	Actor       string                 `json:"actor,omitempty"`
	Items       []PurchaseItemResponse `json:"items"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ToPurchaseResponse maps a purchase aggregate to its response shape
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, PurchaseItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			LineTotal: item.LineTotal,
		})
	}
	return PurchaseResponse{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		WarehouseID: p.WarehouseID,
		RefNumber:   p.RefNumber,
		Date:        p.Date,
		SubTotal:    p.SubTotal,
		Discount:    p.Discount,
		Tax:         p.Tax,
		Total:       p.Total,
		Actor:       p.Actor,
		Items:       items,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPurchaseResponses maps a purchase list
func ToPurchaseResponses(purchases []*trade.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, ToPurchaseResponse(p))
	}
	return out
}

// SaleLineResponse is one invoice line in API responses. Product fields
// are snapshots taken at sale time, not live catalog data.
type SaleLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductBarcode string          `json:"product_barcode,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Discount       decimal.Decimal `json:"discount"`
	LineTotal      decimal.Decimal `json:"line_total"`
	MovementID     *uuid.UUID      `json:"movement_id,omitempty"`
}

// SaleInvoiceResponse is a sale invoice in API responses
type SaleInvoiceResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	WarehouseID   uuid.UUID          `json:"warehouse_id"`
	RefNumber     string             `json:"ref_number"`
	Date          time.Time          `json:"date"`
	SubTotal      decimal.Decimal    `json:"sub_total"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	PaymentStatus string             `json:"payment_status"`
	PaymentMethod string             `json:"payment_method"`
	Actor         string             `json:"actor,omitempty"`
	Lines         []SaleLineResponse `json:"lines"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToSaleInvoiceResponse maps a sale invoice aggregate to its response shape
func ToSaleInvoiceResponse(s *trade.SaleInvoice) SaleInvoiceResponse {
	lines := make([]SaleLineResponse, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, SaleLineResponse{
			ID:             line.ID,
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			ProductBarcode: line.ProductBarcode,
			Quantity:       line.Quantity,
			UnitCost:       line.UnitCost,
			UnitPrice:      line.UnitPrice,
			Discount:       line.Discount,
			LineTotal:      line.LineTotal,
			MovementID:     line.MovementID,
		})
	}
	return SaleInvoiceResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		WarehouseID:   s.WarehouseID,
		RefNumber:     s.RefNumber,
		Date:          s.Date,
		SubTotal:      s.SubTotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentStatus: string(s.PaymentStatus),
		PaymentMethod: string(s.PaymentMethod),
		Actor:         s.Actor,
		Lines:         lines,
		CreatedAt:     s.CreatedAt,
	}
}

// ToSaleInvoiceResponses maps an invoice list
func ToSaleInvoiceResponses(invoices []*trade.SaleInvoice) []SaleInvoiceResponse {
	out := make([]SaleInvoiceResponse, 0, len(invoices))
	for _, s := range invoices {
		out = append(out, ToSaleInvoiceResponse(s))
	}
	return out
}
