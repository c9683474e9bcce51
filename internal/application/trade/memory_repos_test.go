package trade

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/domain/shared"
	"github.com/stocklot/backend/internal/domain/trade"
)

// Minimal in-memory repositories for orchestrator tests. Rollback semantics
// are exercised against a real database in the persistence tests; here the
// fakes share pointers and apply writes immediately.

type seqRefGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqRefGen) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", prefix, g.n)
}

type memIdemStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{seen: make(map[string]bool)}
}

func (s *memIdemStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *memIdemStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key], nil
}

func (s *memIdemStore) Close() error { return nil }

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) FindByBarcode(_ context.Context, barcode string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode && !p.Archived {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]*catalog.Product, int64, error) {
	return nil, 0, nil
}

func (r *memProductRepo) Create(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	return r.Create(context.Background(), p)
}

func (r *memProductRepo) SaveWithLock(_ context.Context, p *catalog.Product) error {
	return r.Create(context.Background(), p)
}

func (r *memProductRepo) ExistsByBarcode(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
	return false, nil
}

type memLotRepo struct {
	mu   sync.Mutex
	lots map[uuid.UUID]*ledger.StockLot
}

func newMemLotRepo() *memLotRepo {
	return &memLotRepo{lots: make(map[uuid.UUID]*ledger.StockLot)}
}

func (r *memLotRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return lot, nil
}

func (r *memLotRepo) FindByProductAndWarehouse(_ context.Context, productID, warehouseID uuid.UUID) ([]*ledger.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.StockLot
	for _, lot := range r.lots {
		if lot.ProductID == productID && lot.WarehouseID == warehouseID && !lot.Archived {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *memLotRepo) FindByKey(_ context.Context, productID, warehouseID uuid.UUID, unitCost decimal.Decimal) (*ledger.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lot := range r.lots {
		if lot.MatchesKey(productID, warehouseID, unitCost) {
			return lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLotRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]*ledger.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.StockLot
	for _, lot := range r.lots {
		if lot.ProductID == productID && !lot.Archived {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *memLotRepo) FindAll(_ context.Context, _ shared.Filter) ([]*ledger.StockLot, int64, error) {
	return nil, 0, nil
}

func (r *memLotRepo) Create(_ context.Context, lot *ledger.StockLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = lot
	return nil
}

func (r *memLotRepo) Save(_ context.Context, lot *ledger.StockLot) error {
	return r.Create(context.Background(), lot)
}

func (r *memLotRepo) SumQuantityByProduct(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, lot := range r.lots {
		if lot.ProductID == productID && !lot.Archived {
			sum = sum.Add(lot.Quantity)
		}
	}
	return sum, nil
}

func (r *memLotRepo) SumQuantityByProductAndWarehouse(_ context.Context, productID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, lot := range r.lots {
		if lot.ProductID == productID && lot.WarehouseID == warehouseID && !lot.Archived {
			sum = sum.Add(lot.Quantity)
		}
	}
	return sum, nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []*ledger.StockMovement
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindAll(_ context.Context, _ ledger.MovementFilter) ([]*ledger.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.movements, int64(len(r.movements)), nil
}

func (r *memMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]*ledger.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) Create(_ context.Context, m *ledger.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, m)
	return nil
}

func (r *memMovementRepo) CreateBatch(_ context.Context, ms []*ledger.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, ms...)
	return nil
}

type memWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*partner.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{warehouses: make(map[uuid.UUID]*partner.Warehouse)}
}

func (r *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return w, nil
}

func (r *memWarehouseRepo) FindAll(_ context.Context, _ shared.Filter) ([]*partner.Warehouse, int64, error) {
	return nil, 0, nil
}

func (r *memWarehouseRepo) Create(_ context.Context, w *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) Save(_ context.Context, w *partner.Warehouse) error {
	return r.Create(context.Background(), w)
}

func (r *memWarehouseRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	return ok && !w.Archived, nil
}

type memSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*partner.Supplier
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]*partner.Supplier, int64, error) {
	return nil, 0, nil
}

func (r *memSupplierRepo) Create(_ context.Context, s *partner.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = s
	return nil
}

func (r *memSupplierRepo) Save(_ context.Context, s *partner.Supplier) error {
	return r.Create(context.Background(), s)
}

func (r *memSupplierRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	return ok && !s.Archived, nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*partner.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *memCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]*partner.Customer, int64, error) {
	return nil, 0, nil
}

func (r *memCustomerRepo) Create(_ context.Context, c *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = c
	return nil
}

func (r *memCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	return r.Create(context.Background(), c)
}

func (r *memCustomerRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	return ok && !c.Archived, nil
}

type memPurchaseRepo struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]*trade.Purchase
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{purchases: make(map[uuid.UUID]*trade.Purchase)}
}

func (r *memPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memPurchaseRepo) FindAll(_ context.Context, _ shared.Filter) ([]*trade.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*trade.Purchase
	for _, p := range r.purchases {
		if !p.Deleted {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memPurchaseRepo) Create(_ context.Context, p *trade.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases[p.ID] = p
	return nil
}

func (r *memPurchaseRepo) Save(_ context.Context, p *trade.Purchase) error {
	return r.Create(context.Background(), p)
}

type memSaleRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*trade.SaleInvoice
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{invoices: make(map[uuid.UUID]*trade.SaleInvoice)}
}

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.SaleInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return inv, nil
}

func (r *memSaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]*trade.SaleInvoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*trade.SaleInvoice
	for _, inv := range r.invoices {
		if !inv.Archived {
			out = append(out, inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memSaleRepo) Create(_ context.Context, inv *trade.SaleInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = inv
	return nil
}

func (r *memSaleRepo) Save(_ context.Context, inv *trade.SaleInvoice) error {
	return r.Create(context.Background(), inv)
}

// Interface conformance
var (
	_ catalog.ProductRepository      = (*memProductRepo)(nil)
	_ ledger.StockLotRepository      = (*memLotRepo)(nil)
	_ ledger.StockMovementRepository = (*memMovementRepo)(nil)
	_ partner.WarehouseRepository    = (*memWarehouseRepo)(nil)
	_ partner.SupplierRepository     = (*memSupplierRepo)(nil)
	_ partner.CustomerRepository     = (*memCustomerRepo)(nil)
	_ trade.PurchaseRepository       = (*memPurchaseRepo)(nil)
	_ trade.SaleInvoiceRepository    = (*memSaleRepo)(nil)
	_ shared.IdempotencyStore        = (*memIdemStore)(nil)
	_ RefNumberGenerator             = (*seqRefGen)(nil)
)
