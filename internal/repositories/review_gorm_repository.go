package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateReview is returned when the (user, product) unique index rejects a write.
var ErrDuplicateReview = errors.New("review for this user and product already exists")

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

func (r *GORMReviewRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Preload("Product")
}

func (r *GORMReviewRepository) List(ctx context.Context, filter ReviewFilter) ([]models.Review, error) {
	q := r.withRelations(ctx)
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ProductID != 0 {
		q = q.Where("product_id = ?", filter.ProductID)
	}

	var reviews []models.Review
	if err := q.Scopes(dateRange("created_at", filter.CreatedAt)).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *GORMReviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.withRelations(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %d: %w", id, err)
	}
	return &review, nil
}

func (r *GORMReviewRepository) ExistsForUserProduct(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up review of user %d for product %d: %w", userID, productID, err)
	}
	return count > 0, nil
}

func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("User", "Product").Create(review).Error; err != nil {
		return translateReviewError("failed to create review", err)
	}
	return r.reload(ctx, review)
}

// Update writes product, text and rating. The author is never changed.
func (r *GORMReviewRepository) Update(ctx context.Context, review *models.Review) error {
	res := r.db.WithContext(ctx).Model(&models.Review{ID: review.ID}).
		Select("product_id", "text", "rating").
		Updates(&models.Review{ProductID: review.ProductID, Text: review.Text, Rating: review.Rating})
	if res.Error != nil {
		return translateReviewError("failed to update review", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d: %w", review.ID, ErrNotFound)
	}
	return r.reload(ctx, review)
}

func (r *GORMReviewRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMReviewRepository) reload(ctx context.Context, review *models.Review) error {
	saved, err := r.GetByID(ctx, review.ID)
	if err != nil {
		return err
	}
	*review = *saved
	return nil
}

func translateReviewError(msg string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", msg, ErrDuplicateReview)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
