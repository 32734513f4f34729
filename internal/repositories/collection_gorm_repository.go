package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMCollectionRepository is a GORM implementation of CollectionRepository.
// Product links live in the explicit collection_products junction table.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{
		db: db,
	}
}

func (r *GORMCollectionRepository) withProducts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("products.id ASC")
	})
}

func (r *GORMCollectionRepository) List(ctx context.Context, filter CollectionFilter) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.withProducts(ctx).
		Scopes(
			iexact("name", filter.NameIExact),
			icontains("name", filter.NameIContains),
		).
		Order("id ASC").
		Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

func (r *GORMCollectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := r.withProducts(ctx).First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("collection with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collection by ID %d: %w", id, err)
	}
	return &collection, nil
}

func (r *GORMCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	products := collection.Products
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Create(collection).Error; err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return linkProducts(tx, collection.ID, products)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, collection)
}

func (r *GORMCollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	products := collection.Products
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Collection{ID: collection.ID}).
			Select("name", "text").
			Updates(&models.Collection{Name: collection.Name, Text: collection.Text})
		if res.Error != nil {
			return fmt.Errorf("failed to update collection %d: %w", collection.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("collection with ID %d: %w", collection.ID, ErrNotFound)
		}
		if err := tx.Where("collection_id = ?", collection.ID).Delete(&models.CollectionProduct{}).Error; err != nil {
			return fmt.Errorf("failed to unlink products of collection %d: %w", collection.ID, err)
		}
		return linkProducts(tx, collection.ID, products)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, collection)
}

func (r *GORMCollectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionProduct{}).Error; err != nil {
			return fmt.Errorf("failed to unlink products of collection %d: %w", id, err)
		}
		res := tx.Delete(&models.Collection{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete collection: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("collection with ID %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMCollectionRepository) reload(ctx context.Context, collection *models.Collection) error {
	saved, err := r.GetByID(ctx, collection.ID)
	if err != nil {
		return err
	}
	*collection = *saved
	return nil
}

func linkProducts(tx *gorm.DB, collectionID uint, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	links := make([]models.CollectionProduct, 0, len(products))
	for _, p := range products {
		links = append(links, models.CollectionProduct{CollectionID: collectionID, ProductID: p.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link products to collection %d: %w", collectionID, err)
	}
	return nil
}
