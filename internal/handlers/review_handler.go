package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewRequest is the body of a review create or update. Absent fields
// are left unchanged on update.
type ReviewRequest struct {
	ProductID *uint   `json:"product_id"`
	Text      *string `json:"text"`
	Rating    *int    `json:"rating"`
}

type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	reviewRoutes := router.Group("/product-reviews")
	reviewRoutes.Get("/", h.HandleGetReviews)
	reviewRoutes.Get("/:id", h.HandleGetReviewByID)
	reviewRoutes.Post("/", h.HandleCreateReview)
	reviewRoutes.Put("/:id", h.HandleUpdateReview)
	reviewRoutes.Delete("/:id", h.HandleDeleteReview)
}

func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	filter, err := reviewFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	reviews, err := h.service.ListReviews(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) HandleGetReviewByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	review, err := h.service.GetReview(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	review, err := h.service.CreateReview(c.UserContext(), middleware.ActorFrom(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ReviewRequest
	if err := decodeBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	review, err := h.service.UpdateReview(c.UserContext(), middleware.ActorFrom(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteReview(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r ReviewRequest) input() services.ReviewInput {
	return services.ReviewInput{ProductID: r.ProductID, Text: r.Text, Rating: r.Rating}
}
