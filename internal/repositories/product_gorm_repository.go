package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves the products matching filter, ordered by ID.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Scopes(
			iexact("name", filter.NameIExact),
			icontains("name", filter.NameIContains),
			icontains("description", filter.DescriptionIContains),
			decimalRange("price", filter.Price),
		).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByIDs retrieves every existing product whose ID is in ids.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "description", "price").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product together with the rows referencing it.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{&models.Review{}, &models.OrderPosition{}, &models.CollectionProduct{}} {
			if err := tx.Where("product_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete rows referencing product %d: %w", id, err)
			}
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
