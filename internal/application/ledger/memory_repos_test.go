package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocklot/backend/internal/domain/catalog"
	"github.com/stocklot/backend/internal/domain/ledger"
	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/domain/shared"
)

// In-memory repositories backing the service tests. The product repo hands
// out copies and keeps the committed row to itself, so its conditional save
// can enforce the same version predicate as the SQL implementation. Lots and
// movements share pointers with the caller for easy inspection.

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	// saveConflicts makes the next N conditional saves fail
	saveConflicts int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func copyProduct(p *catalog.Product) *catalog.Product {
	cp := *p
	return &cp
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyProduct(p), nil
}

func (r *memProductRepo) FindByBarcode(_ context.Context, barcode string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode && !p.Archived {
			return copyProduct(p), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]*catalog.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, copyProduct(p))
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Create(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = copyProduct(p)
	return nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = copyProduct(p)
	return nil
}

// SaveWithLock mirrors the SQL predicate: the write lands only when the
// committed row still carries version-1.
func (r *memProductRepo) SaveWithLock(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveConflicts > 0 {
		r.saveConflicts--
		return shared.ErrConcurrencyConflict
	}
	stored, ok := r.products[p.ID]
	if !ok || stored.Version != p.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.products[p.ID] = copyProduct(p)
	return nil
}

func (r *memProductRepo) ExistsByBarcode(_ context.Context, barcode string, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode && !p.Archived && p.ID != excludeID {
			return true, nil
		}
	}
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
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ledger.StockLot, 0, len(r.lots))
	for _, lot := range r.lots {
		out = append(out, lot)
	}
	return out, int64(len(out)), nil
}

func (r *memLotRepo) Create(_ context.Context, lot *ledger.StockLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = lot
	return nil
}

func (r *memLotRepo) Save(_ context.Context, lot *ledger.StockLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = lot
	return nil
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

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
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

func (r *memMovementRepo) FindAll(_ context.Context, filter ledger.MovementFilter) ([]*ledger.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.StockMovement
	for _, m := range r.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.MovementType != nil && m.MovementType != *filter.MovementType {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
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
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*partner.Warehouse, 0, len(r.warehouses))
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	return out, int64(len(out)), nil
}

func (r *memWarehouseRepo) Create(_ context.Context, w *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) Save(_ context.Context, w *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	return ok && !w.Archived, nil
}

// Interface conformance
var (
	_ catalog.ProductRepository      = (*memProductRepo)(nil)
	_ ledger.StockLotRepository      = (*memLotRepo)(nil)
	_ ledger.StockMovementRepository = (*memMovementRepo)(nil)
	_ partner.WarehouseRepository    = (*memWarehouseRepo)(nil)
)
