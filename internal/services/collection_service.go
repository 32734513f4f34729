package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/permissions"
	"storefront/internal/repositories"
)

// CollectionInput is the payload of a collection create or update.
type CollectionInput struct {
	Name       string
	Text       string
	ProductIDs []uint
}

// CollectionService composes curated product collections.
type CollectionService struct {
	collectionRepo repositories.CollectionRepository
	productRepo    repositories.ProductRepository
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(collectionRepo repositories.CollectionRepository, productRepo repositories.ProductRepository) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		productRepo:    productRepo,
	}
}

func (s *CollectionService) ListCollections(ctx context.Context, filter repositories.CollectionFilter) ([]models.Collection, error) {
	return s.collectionRepo.List(ctx, filter)
}

func (s *CollectionService) GetCollection(ctx context.Context, id uint) (*models.Collection, error) {
	return s.collectionRepo.GetByID(ctx, id)
}

// CreateCollection stores a collection whose product set is exactly the
// resolved input ids.
func (s *CollectionService) CreateCollection(ctx context.Context, actor permissions.Actor, input CollectionInput) (*models.Collection, error) {
	if err := permissions.Allow(actor, permissions.Collection, permissions.Create); err != nil {
		return nil, err
	}
	products, err := resolveProducts(ctx, s.productRepo, "products", input.ProductIDs)
	if err != nil {
		return nil, err
	}

	collection := &models.Collection{
		Name:     input.Name,
		Text:     input.Text,
		Products: products,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return collection, nil
}

// UpdateCollection renames a collection and replaces its product set.
func (s *CollectionService) UpdateCollection(ctx context.Context, actor permissions.Actor, id uint, input CollectionInput) (*models.Collection, error) {
	if err := permissions.Allow(actor, permissions.Collection, permissions.Update); err != nil {
		return nil, err
	}
	collection, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := resolveProducts(ctx, s.productRepo, "products", input.ProductIDs)
	if err != nil {
		return nil, err
	}

	collection.Name = input.Name
	collection.Text = input.Text
	collection.Products = products
	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to update collection %d: %w", id, err)
	}
	return collection, nil
}

func (s *CollectionService) DeleteCollection(ctx context.Context, actor permissions.Actor, id uint) error {
	if err := permissions.Allow(actor, permissions.Collection, permissions.Delete); err != nil {
		return err
	}
	return s.collectionRepo.Delete(ctx, id)
}
