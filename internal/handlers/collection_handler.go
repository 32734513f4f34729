package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CollectionProductRequest names one member of a collection.
type CollectionProductRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

// CollectionRequest is the body of a collection create or update. The
// products key is required but may hold an empty list.
type CollectionRequest struct {
	Name     string                     `json:"name" validate:"required,max=64"`
	Text     string                     `json:"text"`
	Products []CollectionProductRequest `json:"products" validate:"required,dive"`
}

// CollectionHandler handles HTTP requests for product collections.
type CollectionHandler struct {
	service  *services.CollectionService
	validate *validator.Validate
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the collection routes with the Fiber app.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	collectionRoutes := router.Group("/product-collections")
	collectionRoutes.Get("/", h.HandleGetCollections)
	collectionRoutes.Get("/:id", h.HandleGetCollectionByID)
	collectionRoutes.Post("/", h.HandleCreateCollection)
	collectionRoutes.Put("/:id", h.HandleUpdateCollection)
	collectionRoutes.Delete("/:id", h.HandleDeleteCollection)
}

func (h *CollectionHandler) HandleGetCollections(c *fiber.Ctx) error {
	filter, err := collectionFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	collections, err := h.service.ListCollections(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collections)
}

func (h *CollectionHandler) HandleGetCollectionByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	collection, err := h.service.GetCollection(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collection)
}

func (h *CollectionHandler) HandleCreateCollection(c *fiber.Ctx) error {
	var req CollectionRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	collection, err := h.service.CreateCollection(c.UserContext(), middleware.ActorFrom(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

func (h *CollectionHandler) HandleUpdateCollection(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CollectionRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	collection, err := h.service.UpdateCollection(c.UserContext(), middleware.ActorFrom(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collection)
}

func (h *CollectionHandler) HandleDeleteCollection(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCollection(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r CollectionRequest) input() services.CollectionInput {
	ids := make([]uint, len(r.Products))
	for i, p := range r.Products {
		ids[i] = p.ProductID
	}
	return services.CollectionInput{Name: r.Name, Text: r.Text, ProductIDs: ids}
}
