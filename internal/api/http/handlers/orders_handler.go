package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ordering-service/internal/api/dto"
	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/service"
)

// OrdersHandler exposes order endpoints for customers and owners.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// PlaceOrder POST /api/orders.
func (h *OrdersHandler) PlaceOrder(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.CreateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	order, err := h.orders.PlaceOrder(c.UserContext(), caller.UserID, req.MenuID, req.Quantity)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "order placed",
		"data": fiber.Map{
			"id":         order.ID,
			"totalPrice": order.TotalPrice,
			"orderType":  order.Status,
		},
	})
}

// ListCustomerOrders GET /api/orders/customer.
func (h *OrdersHandler) ListCustomerOrders(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	views, err := h.orders.ListCustomerOrders(c.UserContext(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderItems(views, false)})
}

// ListAllOrders GET /api/orders/owner.
func (h *OrdersHandler) ListAllOrders(c *fiber.Ctx) error {
	views, err := h.orders.ListAllOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderItems(views, true)})
}

// UpdateStatus PATCH /api/orders/:orderId/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return err
	}
	var req dto.UpdateOrderStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), caller.UserID, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "order status updated",
		"data":    fiber.Map{"id": order.ID, "orderType": order.Status},
	})
}

func orderItems(views []domain.OrderView, withCustomer bool) []dto.OrderResponse {
	items := make([]dto.OrderResponse, 0, len(views))
	for _, v := range views {
		items = append(items, dto.OrderFromView(v, withCustomer))
	}
	return items
}
