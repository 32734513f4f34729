package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/permissions"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// maxOrderTotal is the largest value a decimal(10,2) total can hold.
var maxOrderTotal = decimal.RequireFromString("99999999.99")

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	PublishEvent(eventType string, payload interface{}) error
}

// PositionInput is a requested (product, quantity) line. A nil Quantity means 1.
type PositionInput struct {
	ProductID uint
	Quantity  *int
}

// OrderInput is the validated payload of an order create or update.
type OrderInput struct {
	Positions []PositionInput
	// Status holds the requested status. StatusSet marks a status key that
	// was present in the payload even when its value was null.
	Status    *string
	StatusSet bool
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// ListOrders returns the orders visible to actor. Non-staff actors only see their own.
func (s *OrderService) ListOrders(ctx context.Context, actor permissions.Actor, filter repositories.OrderFilter) ([]models.Order, error) {
	if err := permissions.Allow(actor, permissions.Order, permissions.List); err != nil {
		return nil, err
	}
	if permissions.ScopeToOwner(actor, permissions.Order) {
		filter.UserID = actor.UserID
	}
	return s.orderRepo.List(ctx, filter)
}

// GetOrder retrieves a single order owned by actor, or any order for staff.
func (s *OrderService) GetOrder(ctx context.Context, actor permissions.Actor, id uint) (*models.Order, error) {
	return s.load(ctx, actor, permissions.Retrieve, id)
}

// CreateOrder prices the requested positions and stores the order with its
// positions. The order always belongs to actor and starts as NEW.
func (s *OrderService) CreateOrder(ctx context.Context, actor permissions.Actor, input OrderInput) (*models.Order, error) {
	if err := permissions.Allow(actor, permissions.Order, permissions.Create); err != nil {
		return nil, err
	}
	if _, err := checkStatus(actor, input); err != nil {
		return nil, err
	}
	positions, total, err := s.pricePositions(ctx, input.Positions)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:      actor.UserID,
		Status:      models.OrderStatusNew,
		TotalAmount: total,
		Positions:   positions,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish(models.OrderEventCreated, order)
	return order, nil
}

// UpdateOrder replaces the positions of an existing order in place and
// recomputes its total. Only staff may change the status; the owner never changes.
func (s *OrderService) UpdateOrder(ctx context.Context, actor permissions.Actor, id uint, input OrderInput) (*models.Order, error) {
	order, err := s.load(ctx, actor, permissions.Update, id)
	if err != nil {
		return nil, err
	}
	status, err := checkStatus(actor, input)
	if err != nil {
		return nil, err
	}
	positions, total, err := s.pricePositions(ctx, input.Positions)
	if err != nil {
		return nil, err
	}

	if status != "" {
		order.Status = status
	}
	order.TotalAmount = total
	order.Positions = positions
	if err := s.orderRepo.Replace(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", id, err)
	}

	s.publish(models.OrderEventUpdated, order)
	return order, nil
}

// DeleteOrder removes an order and its positions.
func (s *OrderService) DeleteOrder(ctx context.Context, actor permissions.Actor, id uint) error {
	order, err := s.load(ctx, actor, permissions.Delete, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}

	s.publish(models.OrderEventDeleted, order)
	return nil
}

func (s *OrderService) load(ctx context.Context, actor permissions.Actor, act permissions.Action, id uint) (*models.Order, error) {
	if err := permissions.Allow(actor, permissions.Order, act); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.AllowObject(actor, permissions.Order, act, order.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// checkStatus rejects any status from a non-staff actor, whatever its value,
// null included.
func checkStatus(actor permissions.Actor, input OrderInput) (models.OrderStatus, error) {
	status := input.Status
	if status == nil && !input.StatusSet {
		return "", nil
	}
	if !actor.Staff {
		return "", NewValidationError("status", CodeStatusReadOnly, "Status is read-only for users")
	}
	if status == nil {
		return "", NewValidationError("status", CodeInvalidStatus, "This field may not be null.")
	}
	s := models.OrderStatus(*status)
	if !s.Valid() {
		return "", NewValidationError("status", CodeInvalidStatus, fmt.Sprintf("%q is not a valid choice", *status))
	}
	return s, nil
}

// pricePositions validates the requested positions against the catalog and
// sums price × quantity using current prices.
func (s *OrderService) pricePositions(ctx context.Context, inputs []PositionInput) ([]models.OrderPosition, decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, decimal.Zero, NewValidationError("products", CodeRequired, "at least one product is required")
	}

	ids := make([]uint, len(inputs))
	quantities := make([]int, len(inputs))
	for i, in := range inputs {
		ids[i] = in.ProductID
		quantities[i] = 1
		if in.Quantity != nil {
			quantities[i] = *in.Quantity
		}
		if quantities[i] < 1 {
			return nil, decimal.Zero, NewValidationError("products", CodeInvalidQuantity, "quantity must be at least 1")
		}
	}

	products, err := resolveProducts(ctx, s.productRepo, "products", ids)
	if err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	positions := make([]models.OrderPosition, len(products))
	for i, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(quantities[i]))))
		positions[i] = models.OrderPosition{ProductID: p.ID, Quantity: quantities[i]}
	}
	total = total.Round(2)
	if total.GreaterThan(maxOrderTotal) {
		return nil, decimal.Zero, NewValidationError("total_amount", CodeTotalOverflow, "order total exceeds "+maxOrderTotal.StringFixed(2))
	}
	return positions, total, nil
}

// publish sends an order event after the write has committed. Delivery
// failures are logged and never fail the request.
func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.events == nil {
		return
	}
	event := models.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Positions:   order.Positions,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.events.PublishEvent(eventType, event); err != nil {
		log.Printf("Warning: failed to publish %s event for order %d: %v", eventType, order.ID, err)
		return
	}
	log.Printf("Published %s event for order %d", eventType, order.ID)
}
