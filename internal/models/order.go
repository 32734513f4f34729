package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the processing state of an order.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDone       OrderStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusDone:
		return true
	}
	return false
}

// OrderPosition represents a single product line within an order.
type OrderPosition struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	OrderID   uint    `json:"-" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null;index"`
	Product   Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int     `json:"quantity" gorm:"not null;default:1"`
}

// Order represents a customer order.
type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"-" gorm:"not null;index"`
	User        User            `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	Positions   []OrderPosition `json:"products" gorm:"constraint:OnDelete:CASCADE"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(16);not null;default:'NEW'"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderEvent is published to the message broker when an order changes.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"order_id"`
	UserID      uint            `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Positions   []OrderPosition `json:"products,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

const (
	OrderEventCreated = "order.created"
	OrderEventUpdated = "order.updated"
	OrderEventDeleted = "order.deleted"
)
