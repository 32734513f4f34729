package handlers

import (
	"encoding/json"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PositionRequest is one requested product line. Quantity defaults to 1.
type PositionRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"`
}

// OrderRequest is the body of an order create or update. Status stays raw
// so that an explicit null is told apart from an absent key.
type OrderRequest struct {
	Products []PositionRequest `json:"products" validate:"required,dive"`
	Status   json.RawMessage   `json:"status"`
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Put("/:id", h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// HandleGetOrders lists the caller's orders, or every order for staff.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	orders, err := h.service.ListOrders(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.service.GetOrder(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order owned by the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req OrderRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	order, err := h.service.CreateOrder(c.UserContext(), middleware.ActorFrom(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrder replaces the positions of an order and, for staff, its status.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req OrderRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	order, err := h.service.UpdateOrder(c.UserContext(), middleware.ActorFrom(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder deletes an order and its positions.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteOrder(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r OrderRequest) input() services.OrderInput {
	positions := make([]services.PositionInput, len(r.Products))
	for i, p := range r.Products {
		positions[i] = services.PositionInput{ProductID: p.ProductID, Quantity: p.Quantity}
	}
	input := services.OrderInput{Positions: positions, StatusSet: len(r.Status) > 0}
	if input.StatusSet && string(r.Status) != "null" {
		var status string
		if err := json.Unmarshal(r.Status, &status); err != nil {
			// Non-string values are kept verbatim and fail status validation.
			status = string(r.Status)
		}
		input.Status = &status
	}
	return input
}
