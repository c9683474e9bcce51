package partner

import (
	"time"

	"github.com/stocklot/backend/internal/domain/shared"
)

// Customer is a party stock is sold to
type Customer struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null"`
	Phone    string `gorm:"type:varchar(30)"`
	Email    string `gorm:"type:varchar(100)"`
	Address  string `gorm:"type:varchar(255)"`
	Archived bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(name string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Update changes the customer contact details
func (c *Customer) Update(name, phone, email, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.UpdatedAt = time.Now()
	return nil
}

// Archive soft-deletes the customer
func (c *Customer) Archive() {
	c.Archived = true
	c.UpdatedAt = time.Now()
}
