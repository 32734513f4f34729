package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/permissions"
	"storefront/internal/repositories"
)

// ReviewInput carries the review fields of a create or update request.
// Nil fields were absent from the payload.
type ReviewInput struct {
	ProductID *uint
	Text      *string
	Rating    *int
}

// ReviewService enforces one review per user per product.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// ListReviews retrieves the reviews matching filter. Reviews are public.
func (s *ReviewService) ListReviews(ctx context.Context, filter repositories.ReviewFilter) ([]models.Review, error) {
	return s.reviewRepo.List(ctx, filter)
}

// GetReview retrieves a single review by its ID.
func (s *ReviewService) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

// CreateReview stores a review authored by actor.
func (s *ReviewService) CreateReview(ctx context.Context, actor permissions.Actor, input ReviewInput) (*models.Review, error) {
	if err := permissions.Allow(actor, permissions.Review, permissions.Create); err != nil {
		return nil, err
	}
	if input.ProductID == nil {
		return nil, NewValidationError("product_id", CodeRequired, "This field is required.")
	}
	if input.Rating == nil {
		return nil, NewValidationError("rating", CodeRequired, "This field is required.")
	}
	if err := checkRating(*input.Rating); err != nil {
		return nil, err
	}
	if err := s.checkProduct(ctx, *input.ProductID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForUserProduct(ctx, actor.UserID, *input.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("product_id", CodeDuplicateReview, "Maximum one review per user per product")
	}

	review := &models.Review{
		UserID:    actor.UserID,
		ProductID: *input.ProductID,
		Rating:    *input.Rating,
	}
	if input.Text != nil {
		review.Text = *input.Text
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, translateDuplicate(err)
	}
	return review, nil
}

// UpdateReview changes a review in place. Moving it onto a product its
// author already reviewed is rejected; re-saving the current product is not.
func (s *ReviewService) UpdateReview(ctx context.Context, actor permissions.Actor, id uint, input ReviewInput) (*models.Review, error) {
	review, err := s.load(ctx, actor, permissions.Update, id)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := checkRating(*input.Rating); err != nil {
			return nil, err
		}
		review.Rating = *input.Rating
	}
	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.ProductID != nil && *input.ProductID != review.ProductID {
		if err := s.checkProduct(ctx, *input.ProductID); err != nil {
			return nil, err
		}
		exists, err := s.reviewRepo.ExistsForUserProduct(ctx, review.UserID, *input.ProductID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, NewValidationError("product_id", CodeDuplicateReview, "You already reviewed this product")
		}
		review.ProductID = *input.ProductID
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, translateDuplicate(err)
	}
	return review, nil
}

// DeleteReview removes a review owned by actor, or any review for staff.
func (s *ReviewService) DeleteReview(ctx context.Context, actor permissions.Actor, id uint) error {
	if _, err := s.load(ctx, actor, permissions.Delete, id); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, id)
}

func (s *ReviewService) load(ctx context.Context, actor permissions.Actor, act permissions.Action, id uint) (*models.Review, error) {
	if err := permissions.Allow(actor, permissions.Review, act); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.AllowObject(actor, permissions.Review, act, review.UserID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) checkProduct(ctx context.Context, productID uint) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &ValidationError{Field: "product_id", Code: CodeUnknownProduct, Message: "Wrong product_id", ProductIDs: []uint{productID}}
		}
		return fmt.Errorf("failed to look up product %d: %w", productID, err)
	}
	return nil
}

func checkRating(rating int) error {
	if rating < 1 || rating > 5 {
		return NewValidationError("rating", CodeInvalidRating, "rating must be between 1 and 5")
	}
	return nil
}

// translateDuplicate maps a unique-index rejection lost to a concurrent write.
func translateDuplicate(err error) error {
	if errors.Is(err, repositories.ErrDuplicateReview) {
		return NewValidationError("product_id", CodeDuplicateReview, "Maximum one review per user per product")
	}
	return err
}
