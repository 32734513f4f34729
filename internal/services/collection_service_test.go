package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/permissions"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCollectionService() (*services.CollectionService, *MockCollectionRepository, *MockProductRepository) {
	collectionRepo := new(MockCollectionRepository)
	productRepo := new(MockProductRepository)
	return services.NewCollectionService(collectionRepo, productRepo), collectionRepo, productRepo
}

func TestCollectionService_CreateCollection(t *testing.T) {
	service, collectionRepo, productRepo := newCollectionService()

	productRepo.On("GetByIDs", mock.Anything, []uint{2, 1}).Return([]models.Product{productA, productB}, nil).Once()
	collectionRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Collection) bool {
		return c.Name == "Summer" && len(c.Products) == 2
	})).Return(nil).Once()

	collection, err := service.CreateCollection(context.Background(), admin, services.CollectionInput{
		Name: "Summer", Text: "hot picks", ProductIDs: []uint{2, 1},
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Product{productA, productB}, collection.Products)
	collectionRepo.AssertExpectations(t)
}

func TestCollectionService_CreateCollection_Rejections(t *testing.T) {
	service, collectionRepo, productRepo := newCollectionService()
	productRepo.On("GetByIDs", mock.Anything, []uint{1, 50, 51}).Return([]models.Product{productA}, nil).Once()

	_, err := service.CreateCollection(context.Background(), customer, services.CollectionInput{Name: "x", ProductIDs: []uint{1}})
	assert.ErrorIs(t, err, permissions.ErrPermissionDenied)

	_, err = service.CreateCollection(context.Background(), permissions.Actor{}, services.CollectionInput{Name: "x", ProductIDs: []uint{1}})
	assert.ErrorIs(t, err, permissions.ErrAuthenticationRequired)

	_, err = service.CreateCollection(context.Background(), admin, services.CollectionInput{Name: "x", ProductIDs: []uint{1, 2, 1}})
	assert.ErrorIs(t, err, services.ErrDuplicateProduct)

	_, err = service.CreateCollection(context.Background(), admin, services.CollectionInput{Name: "x", ProductIDs: []uint{1, 50, 51}})
	assert.ErrorIs(t, err, services.ErrUnknownProduct)
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []uint{50, 51}, verr.ProductIDs)
	assert.Contains(t, verr.Error(), "wrong product_id")

	collectionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCollectionService_UpdateCollection_ReplacesProducts(t *testing.T) {
	service, collectionRepo, productRepo := newCollectionService()

	collectionRepo.On("GetByID", mock.Anything, uint(4)).
		Return(&models.Collection{ID: 4, Name: "Old", Products: []models.Product{productA}}, nil).Once()
	productRepo.On("GetByIDs", mock.Anything, []uint{2}).Return([]models.Product{productB}, nil).Once()
	collectionRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *models.Collection) bool {
		return c.ID == 4 && c.Name == "New" && len(c.Products) == 1 && c.Products[0].ID == 2
	})).Return(nil).Once()

	collection, err := service.UpdateCollection(context.Background(), admin, 4, services.CollectionInput{
		Name: "New", ProductIDs: []uint{2},
	})

	require.NoError(t, err)
	assert.Equal(t, "New", collection.Name)
	collectionRepo.AssertExpectations(t)
}

func TestCollectionService_DeleteCollection(t *testing.T) {
	service, collectionRepo, _ := newCollectionService()
	collectionRepo.On("Delete", mock.Anything, uint(4)).Return(nil).Once()

	assert.ErrorIs(t, service.DeleteCollection(context.Background(), customer, 4), permissions.ErrPermissionDenied)
	assert.NoError(t, service.DeleteCollection(context.Background(), admin, 4))
	collectionRepo.AssertExpectations(t)
}
