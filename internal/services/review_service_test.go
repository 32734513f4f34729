package services_test

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/permissions"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func id(n uint) *uint { return &n }

func newReviewService() (*services.ReviewService, *MockReviewRepository, *MockProductRepository) {
	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	return services.NewReviewService(reviewRepo, productRepo), reviewRepo, productRepo
}

func TestReviewService_CreateReview(t *testing.T) {
	service, reviewRepo, productRepo := newReviewService()

	productRepo.On("GetByID", mock.Anything, uint(1)).Return(&productA, nil).Once()
	reviewRepo.On("ExistsForUserProduct", mock.Anything, customer.UserID, uint(1)).Return(false, nil).Once()
	reviewRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.UserID == customer.UserID && r.ProductID == 1 && r.Rating == 5 && r.Text == "foo bar"
	})).Return(nil).Once()

	review, err := service.CreateReview(context.Background(), customer, services.ReviewInput{
		ProductID: id(1), Text: str("foo bar"), Rating: qty(5),
	})

	require.NoError(t, err)
	assert.Equal(t, customer.UserID, review.UserID)
	reviewRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	service, reviewRepo, productRepo := newReviewService()

	productRepo.On("GetByID", mock.Anything, uint(1)).Return(&productA, nil).Once()
	reviewRepo.On("ExistsForUserProduct", mock.Anything, customer.UserID, uint(1)).Return(true, nil).Once()

	_, err := service.CreateReview(context.Background(), customer, services.ReviewInput{ProductID: id(1), Rating: qty(4)})

	assert.ErrorIs(t, err, services.ErrDuplicateReview)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_CreateReview_UniqueIndexRace(t *testing.T) {
	service, reviewRepo, productRepo := newReviewService()

	productRepo.On("GetByID", mock.Anything, uint(1)).Return(&productA, nil).Once()
	reviewRepo.On("ExistsForUserProduct", mock.Anything, customer.UserID, uint(1)).Return(false, nil).Once()
	reviewRepo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("failed to create review: %w", repositories.ErrDuplicateReview)).Once()

	_, err := service.CreateReview(context.Background(), customer, services.ReviewInput{ProductID: id(1), Rating: qty(4)})

	assert.ErrorIs(t, err, services.ErrDuplicateReview)
}

func TestReviewService_CreateReview_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		actor permissions.Actor
		input services.ReviewInput
		want  error
	}{
		{"anonymous", permissions.Actor{}, services.ReviewInput{ProductID: id(1), Rating: qty(5)}, permissions.ErrAuthenticationRequired},
		{"rating zero", customer, services.ReviewInput{ProductID: id(1), Rating: qty(0)}, services.ErrInvalidRating},
		{"rating six", customer, services.ReviewInput{ProductID: id(1), Rating: qty(6)}, services.ErrInvalidRating},
		{"missing rating", customer, services.ReviewInput{ProductID: id(1)}, services.ErrRequired},
		{"missing product", customer, services.ReviewInput{Rating: qty(3)}, services.ErrRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, reviewRepo, productRepo := newReviewService()

			_, err := service.CreateReview(context.Background(), tt.actor, tt.input)

			assert.ErrorIs(t, err, tt.want)
			productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestReviewService_CreateReview_UnknownProduct(t *testing.T) {
	service, reviewRepo, productRepo := newReviewService()

	productRepo.On("GetByID", mock.Anything, uint(77)).Return(nil, fmt.Errorf("product with ID 77: %w", repositories.ErrNotFound)).Once()

	_, err := service.CreateReview(context.Background(), customer, services.ReviewInput{ProductID: id(77), Rating: qty(3)})

	assert.ErrorIs(t, err, services.ErrUnknownProduct)
	reviewRepo.AssertNotCalled(t, "ExistsForUserProduct", mock.Anything, mock.Anything, mock.Anything)
}

func existingReview() *models.Review {
	return &models.Review{ID: 3, UserID: customer.UserID, ProductID: 1, Text: "ok", Rating: 3}
}

func TestReviewService_UpdateReview_SameProductAllowed(t *testing.T) {
	service, reviewRepo, productRepo := newReviewService()

	reviewRepo.On("GetByID", mock.Anything, uint(3)).Return(existingReview(), nil).Once()
	reviewRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.ProductID == 1 && r.Rating == 5 && r.Text == "better"
	})).Return(nil).Once()

	review, err := service.UpdateReview(context.Background(), customer, 3, services.ReviewInput{
		ProductID: id(1), Text: str("better"), Rating: qty(5),
	})

	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_UpdateReview_SwitchToReviewedProduct(t *testing.T) {
	service, reviewRepo, productRepo := newReviewService()

	reviewRepo.On("GetByID", mock.Anything, uint(3)).Return(existingReview(), nil).Once()
	productRepo.On("GetByID", mock.Anything, uint(2)).Return(&productB, nil).Once()
	reviewRepo.On("ExistsForUserProduct", mock.Anything, customer.UserID, uint(2)).Return(true, nil).Once()

	_, err := service.UpdateReview(context.Background(), customer, 3, services.ReviewInput{ProductID: id(2)})

	assert.ErrorIs(t, err, services.ErrDuplicateReview)
	reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReviewService_UpdateReview_SwitchToFreshProduct(t *testing.T) {
	service, reviewRepo, productRepo := newReviewService()

	reviewRepo.On("GetByID", mock.Anything, uint(3)).Return(existingReview(), nil).Once()
	productRepo.On("GetByID", mock.Anything, uint(2)).Return(&productB, nil).Once()
	reviewRepo.On("ExistsForUserProduct", mock.Anything, customer.UserID, uint(2)).Return(false, nil).Once()
	reviewRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.ProductID == 2 && r.UserID == customer.UserID
	})).Return(nil).Once()

	review, err := service.UpdateReview(context.Background(), admin, 3, services.ReviewInput{ProductID: id(2)})

	require.NoError(t, err)
	assert.Equal(t, customer.UserID, review.UserID)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_UpdateReview_Rejections(t *testing.T) {
	service, reviewRepo, _ := newReviewService()
	reviewRepo.On("GetByID", mock.Anything, uint(3)).Return(existingReview(), nil)

	_, err := service.UpdateReview(context.Background(), other, 3, services.ReviewInput{Rating: qty(1)})
	assert.ErrorIs(t, err, permissions.ErrPermissionDenied)

	_, err = service.UpdateReview(context.Background(), customer, 3, services.ReviewInput{Rating: qty(9)})
	assert.ErrorIs(t, err, services.ErrInvalidRating)

	_, err = service.UpdateReview(context.Background(), permissions.Actor{}, 3, services.ReviewInput{Rating: qty(1)})
	assert.ErrorIs(t, err, permissions.ErrAuthenticationRequired)

	reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReviewService_DeleteReview(t *testing.T) {
	service, reviewRepo, _ := newReviewService()
	reviewRepo.On("GetByID", mock.Anything, uint(3)).Return(existingReview(), nil)
	reviewRepo.On("Delete", mock.Anything, uint(3)).Return(nil).Once()

	assert.ErrorIs(t, service.DeleteReview(context.Background(), other, 3), permissions.ErrPermissionDenied)
	assert.NoError(t, service.DeleteReview(context.Background(), admin, 3))
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_ListReviews(t *testing.T) {
	service, reviewRepo, _ := newReviewService()
	filter := repositories.ReviewFilter{ProductID: 1}
	reviewRepo.On("List", mock.Anything, filter).Return([]models.Review{*existingReview()}, nil).Once()

	reviews, err := service.ListReviews(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	reviewRepo.AssertExpectations(t)
}
