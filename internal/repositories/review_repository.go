package repositories

import (
	"context"

	"storefront/internal/models"
)

// ReviewRepository defines the interface for product review data access.
// Reviews are returned with their user and product loaded.
type ReviewRepository interface {
	List(ctx context.Context, filter ReviewFilter) ([]models.Review, error)
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ExistsForUserProduct(ctx context.Context, userID, productID uint) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
}
