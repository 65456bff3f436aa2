package catalogrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCatalog implements the Catalog port using GORM. Stock adjustments run
// outside the order transaction on purpose: the order flow treats them as a
// follow-up step, not part of the committed mutation.
type GormCatalog struct {
	db *gorm.DB
}

// NewGormCatalog creates a new GORM catalog adapter.
func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// FindActiveProduct returns the product if it exists and is active.
func (c *GormCatalog) FindActiveProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	if err := id.Validate(); err != nil {
		return ports.Product{}, err
	}

	var dto ProductDTO
	result := c.db.WithContext(ctx).Where("id = ? AND is_active = ?", id.Bytes(), true).Limit(1).Find(&dto)
	if result.Error != nil {
		return ports.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Product{}, errs.NewObjectNotFoundError("product", id.String())
	}

	productID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Product{}, err
	}
	merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return ports.Product{}, err
	}

	return ports.Product{
		ID:         productID,
		MerchantID: merchantID,
		Name:       dto.Name,
		Price:      dto.Price,
		Stock:      dto.Stock,
		IsActive:   dto.IsActive,
	}, nil
}

// AdjustStock changes the product's stock level by delta. The decrement is
// guarded in the WHERE clause so stock can never go negative, even under
// concurrent checkouts.
func (c *GormCatalog) AdjustStock(ctx context.Context, id kernel.UUID, delta int) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := c.db.WithContext(ctx)

	query := db.Model(&ProductDTO{}).Where("id = ?", id.Bytes())
	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}

	result := query.Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&ProductDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("product", id.String())
		}
		return errs.NewConflictError("insufficient stock")
	}

	return nil
}
