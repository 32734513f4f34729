package repositories

import (
	"context"

	"storefront/internal/models"
)

// CollectionRepository defines the interface for product collection data access.
// Collections are returned with their products loaded.
type CollectionRepository interface {
	List(ctx context.Context, filter CollectionFilter) ([]models.Collection, error)
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	// Create inserts the collection and links it to collection.Products atomically.
	Create(ctx context.Context, collection *models.Collection) error
	// Update saves name and text and replaces the product links atomically.
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
}
