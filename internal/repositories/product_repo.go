package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// GetByIDs returns the products that exist among ids. Missing ids are
	// silently skipped; callers compare lengths to detect them.
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}
