package dto

import (
	"time"

	"github.com/spec-kit/ordering-service/internal/domain"
)

// CreateOrderRequest payload.
type CreateOrderRequest struct {
	MenuID   string `json:"menuId" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0,lte=10000"`
}

// UpdateOrderStatusRequest payload. Status values are checked by the
// service so that an unknown status reports InvalidOrderStatus.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderMenu is the menu part of an order view.
type OrderMenu struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// OrderCustomer is the customer part of an owner's order view.
type OrderCustomer struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// OrderResponse payload.
type OrderResponse struct {
	ID         string             `json:"id"`
	Menu       OrderMenu          `json:"menu"`
	Customer   *OrderCustomer     `json:"user,omitempty"`
	Quantity   int                `json:"quantity"`
	TotalPrice int64              `json:"totalPrice"`
	Status     domain.OrderStatus `json:"orderType"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// OrderFromView maps an order view; withCustomer adds the customer block.
func OrderFromView(v domain.OrderView, withCustomer bool) OrderResponse {
	resp := OrderResponse{
		ID:         v.ID,
		Menu:       OrderMenu{Name: v.MenuName, Price: v.MenuPrice},
		Quantity:   v.Quantity,
		TotalPrice: v.TotalPrice,
		Status:     v.Status,
		CreatedAt:  v.CreatedAt,
	}
	if withCustomer {
		resp.Customer = &OrderCustomer{ID: v.UserID, Nickname: v.CustomerNickname}
	}
	return resp
}
