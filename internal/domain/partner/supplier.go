package partner

import (
	"time"

	"github.com/stocklot/backend/internal/domain/shared"
)

// Supplier is a party stock is purchased from
type Supplier struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null"`
	Phone    string `gorm:"type:varchar(30)"`
	Email    string `gorm:"type:varchar(100)"`
	Address  string `gorm:"type:varchar(255)"`
	Archived bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Update changes the supplier contact details
func (s *Supplier) Update(name, phone, email, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	s.Name = name
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.UpdatedAt = time.Now()
	return nil
}

// Archive soft-deletes the supplier
func (s *Supplier) Archive() {
	s.Archived = true
	s.UpdatedAt = time.Now()
}
