package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are returned with their user and positions loaded.
type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	// Create inserts the order row and all of order.Positions atomically.
	Create(ctx context.Context, order *models.Order) error
	// Replace saves the order's status and total and swaps its position set
	// for order.Positions atomically. The owner is never written.
	Replace(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uint) error
}
