package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// resolveProducts checks that ids are pairwise distinct and all exist, and
// returns the products in the order of ids.
func resolveProducts(ctx context.Context, repo repositories.ProductRepository, field string, ids []uint) ([]models.Product, error) {
	seen := make(map[uint]bool, len(ids))
	var duplicates []uint
	for _, id := range ids {
		if seen[id] {
			duplicates = append(duplicates, id)
		}
		seen[id] = true
	}
	if len(duplicates) > 0 {
		return nil, &ValidationError{
			Field:      field,
			Code:       CodeDuplicateProduct,
			Message:    "products should be unique",
			ProductIDs: duplicates,
		}
	}

	found, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	products := make([]models.Product, 0, len(ids))
	var unknown []uint
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		products = append(products, p)
	}
	if len(unknown) > 0 {
		return nil, &ValidationError{
			Field:      field,
			Code:       CodeUnknownProduct,
			Message:    "wrong product_id",
			ProductIDs: unknown,
		}
	}
	return products, nil
}
