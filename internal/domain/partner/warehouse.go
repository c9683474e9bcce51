package partner

import (
	"time"

	"github.com/stocklot/backend/internal/domain/shared"
)

// Warehouse is a physical stock location. Lots are scoped to a warehouse;
// transfers move stock between two of them.
type Warehouse struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(100);not null"`
	Address  string `gorm:"type:varchar(255)"`
	Archived bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(name, address string) (*Warehouse, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 100 characters")
	}
	return &Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Address:    address,
	}, nil
}

// Update changes the warehouse details
func (w *Warehouse) Update(name, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	w.Name = name
	w.Address = address
	w.UpdatedAt = time.Now()
	return nil
}

// Archive soft-deletes the warehouse
func (w *Warehouse) Archive() {
	w.Archived = true
	w.UpdatedAt = time.Now()
}
