package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductRequest is the body of a product create or update.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=128"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists products matching the query filters.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.CreateProduct(c.UserContext(), middleware.ActorFrom(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct overwrites an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ProductRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), middleware.ActorFrom(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product along with its reviews, order
// positions and collection memberships.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
	}
}
