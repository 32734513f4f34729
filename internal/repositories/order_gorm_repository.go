package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func (r *GORMOrderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Positions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// List retrieves the orders matching filter, ordered by ID.
func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.withRelations(ctx)
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ProductID != 0 {
		q = q.Where("id IN (?)", r.db.WithContext(ctx).Model(&models.OrderPosition{}).
			Select("order_id").
			Where("product_id = ?", filter.ProductID))
	}

	var orders []models.Order
	err := q.Scopes(
		iexact("status", filter.StatusIExact),
		decimalRange("total_amount", filter.TotalAmount),
		dateRange("created_at", filter.CreatedAt),
		dateRange("updated_at", filter.UpdatedAt),
	).Order("id ASC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withRelations(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// Create inserts the order first, then bulk-inserts its positions, in one transaction.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	positions := order.Positions
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Positions").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return insertPositions(tx, order.ID, positions)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, order)
}

// Replace updates the order row and swaps its positions in one transaction.
func (r *GORMOrderRepository) Replace(ctx context.Context, order *models.Order) error {
	positions := order.Positions
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{ID: order.ID}).
			Select("status", "total_amount").
			Updates(&models.Order{Status: order.Status, TotalAmount: order.TotalAmount})
		if res.Error != nil {
			return fmt.Errorf("failed to update order %d: %w", order.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order with ID %d: %w", order.ID, ErrNotFound)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderPosition{}).Error; err != nil {
			return fmt.Errorf("failed to clear positions of order %d: %w", order.ID, err)
		}
		return insertPositions(tx, order.ID, positions)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, order)
}

func (r *GORMOrderRepository) reload(ctx context.Context, order *models.Order) error {
	saved, err := r.GetByID(ctx, order.ID)
	if err != nil {
		return err
	}
	*order = *saved
	return nil
}

// Delete removes an order and its positions in one transaction.
func (r *GORMOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderPosition{}).Error; err != nil {
			return fmt.Errorf("failed to delete positions of order %d: %w", id, err)
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func insertPositions(tx *gorm.DB, orderID uint, positions []models.OrderPosition) error {
	if len(positions) == 0 {
		return nil
	}
	for i := range positions {
		positions[i].ID = 0
		positions[i].OrderID = orderID
	}
	if err := tx.Omit("Product").Create(&positions).Error; err != nil {
		return fmt.Errorf("failed to insert positions of order %d: %w", orderID, err)
	}
	return nil
}
