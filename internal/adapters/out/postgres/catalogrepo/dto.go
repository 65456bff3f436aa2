// Package catalogrepo backs the Catalog port with the products table.
package catalogrepo

import (
	"github.com/google/uuid"
)

// ProductDTO represents the database structure for catalog products.
type ProductDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID uuid.UUID `gorm:"type:uuid;index"`
	Name       string
	Price      float64
	Stock      int
	IsActive   bool
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}
