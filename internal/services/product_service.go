package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/permissions"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

var maxProductPrice = decimal.NewFromInt(999999)

// ProductInput is the payload of a product create or update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves the products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.List(ctx, filter)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product. Staff only.
func (s *ProductService) CreateProduct(ctx context.Context, actor permissions.Actor, input ProductInput) (*models.Product, error) {
	if err := permissions.Allow(actor, permissions.Product, permissions.Create); err != nil {
		return nil, err
	}
	if err := checkPrice(input.Price); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct overwrites an existing product. Staff only.
func (s *ProductService) UpdateProduct(ctx context.Context, actor permissions.Actor, id uint, input ProductInput) (*models.Product, error) {
	if err := permissions.Allow(actor, permissions.Product, permissions.Update); err != nil {
		return nil, err
	}
	if err := checkPrice(input.Price); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID. Staff only.
func (s *ProductService) DeleteProduct(ctx context.Context, actor permissions.Actor, id uint) error {
	if err := permissions.Allow(actor, permissions.Product, permissions.Delete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// checkPrice enforces decimal(8,2): 0 <= price <= 999999 with at most two decimals.
func checkPrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return NewValidationError("price", CodeInvalidPrice, "Ensure this value is greater than or equal to 0.")
	case price.GreaterThan(maxProductPrice):
		return NewValidationError("price", CodeInvalidPrice, "Ensure this value is less than or equal to 999999.")
	case !price.Equal(price.Round(2)):
		return NewValidationError("price", CodeInvalidPrice, "Ensure that there are no more than 2 decimal places.")
	}
	return nil
}
