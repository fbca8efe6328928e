package domain

import "time"

// OrderStatus tracks an order through the shop.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAccepted  OrderStatus = "ACCEPTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a customer's purchase of a single menu.
type Order struct {
	ID         string
	UserID     string
	MenuID     string
	Quantity   int
	TotalPrice int64
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderView joins an order with the menu and customer it refers to.
type OrderView struct {
	Order
	MenuName         string
	MenuPrice        int64
	CustomerNickname string
}
