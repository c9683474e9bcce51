package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/domain/partner"
	"github.com/stocklot/backend/internal/domain/shared"
)

// PartnerService manages warehouses, suppliers and customers. These are
// archiving CRUD collaborators of the ledger; none of them carry lot or
// concurrency logic.
type PartnerService struct {
	warehouseRepo partner.WarehouseRepository
	supplierRepo  partner.SupplierRepository
	customerRepo  partner.CustomerRepository
	logger        *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(
	warehouseRepo partner.WarehouseRepository,
	supplierRepo partner.SupplierRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *PartnerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerService{
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		customerRepo:  customerRepo,
		logger:        logger,
	}
}

// CreateWarehouse creates a warehouse
func (s *PartnerService) CreateWarehouse(ctx context.Context, name, address string) (*partner.Warehouse, error) {
	warehouse, err := partner.NewWarehouse(name, address)
	if err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// UpdateWarehouse edits a warehouse
func (s *PartnerService) UpdateWarehouse(ctx context.Context, id uuid.UUID, name, address string) (*partner.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := warehouse.Update(name, address); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// ArchiveWarehouse soft-deletes a warehouse. Existing lots keep referencing
// it for history; archived warehouses only stop accepting new operations.
func (s *PartnerService) ArchiveWarehouse(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	warehouse.Archive()
	return s.warehouseRepo.Save(ctx, warehouse)
}

// ListWarehouses returns warehouses matching the filter
func (s *PartnerService) ListWarehouses(ctx context.Context, filter shared.Filter) ([]*partner.Warehouse, int64, error) {
	return s.warehouseRepo.FindAll(ctx, filter)
}

// CreateSupplier creates a supplier
func (s *PartnerService) CreateSupplier(ctx context.Context, name, phone, email, address string) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(name)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(name, phone, email, address); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UpdateSupplier edits a supplier
func (s *PartnerService) UpdateSupplier(ctx context.Context, id uuid.UUID, name, phone, email, address string) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(name, phone, email, address); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// ArchiveSupplier soft-deletes a supplier
func (s *PartnerService) ArchiveSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	supplier.Archive()
	return s.supplierRepo.Save(ctx, supplier)
}

// ListSuppliers returns suppliers matching the filter
func (s *PartnerService) ListSuppliers(ctx context.Context, filter shared.Filter) ([]*partner.Supplier, int64, error) {
	return s.supplierRepo.FindAll(ctx, filter)
}

// CreateCustomer creates a customer
func (s *PartnerService) CreateCustomer(ctx context.Context, name, phone, email, address string) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(name)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(name, phone, email, address); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer edits a customer
func (s *PartnerService) UpdateCustomer(ctx context.Context, id uuid.UUID, name, phone, email, address string) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(name, phone, email, address); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ArchiveCustomer soft-deletes a customer
func (s *PartnerService) ArchiveCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	customer.Archive()
	return s.customerRepo.Save(ctx, customer)
}

// ListCustomers returns customers matching the filter
func (s *PartnerService) ListCustomers(ctx context.Context, filter shared.Filter) ([]*partner.Customer, int64, error) {
	return s.customerRepo.FindAll(ctx, filter)
}
