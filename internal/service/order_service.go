package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/events"
	"github.com/spec-kit/ordering-service/internal/repository"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// OrderService coordinates customer orders and owner status changes.
type OrderService struct {
	orders     repository.OrderRepository
	menus      repository.MenuRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	MenuRepo   repository.MenuRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:     deps.OrderRepo,
		menus:      deps.MenuRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// PlaceOrder records a PENDING order priced from the current menu price.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID, menuID string, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, errorutil.New(errorutil.KindInvalidDataFormat)
	}
	menu, err := s.menus.GetByID(ctx, menuID)
	if err != nil {
		return nil, lookupErr(err, errorutil.KindMenuNotFound)
	}
	if menu.Price > 0 && int64(quantity) > math.MaxInt64/menu.Price {
		return nil, errorutil.New(errorutil.KindInvalidDataFormat)
	}

	order := &domain.Order{
		UserID:     customerID,
		MenuID:     menu.ID,
		Quantity:   quantity,
		TotalPrice: menu.Price * int64(quantity),
		Status:     domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errorutil.MapError(err)
	}

	s.publish(ctx, events.EventOrderPlaced, order.ID, events.Actor{UserID: customerID, Role: domain.RoleCustomer},
		events.OrderPlacedPayload{MenuID: menu.ID, Quantity: quantity, TotalPrice: order.TotalPrice})
	return order, nil
}

// ListCustomerOrders returns the caller's own orders, newest first.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID string) ([]domain.OrderView, error) {
	views, err := s.orders.ListByUser(ctx, customerID)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return views, nil
}

// ListAllOrders returns every order with its customer, newest first.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]domain.OrderView, error) {
	views, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return views, nil
}

// UpdateStatus moves an order to status on behalf of an owner.
func (s *OrderService) UpdateStatus(ctx context.Context, ownerID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, errorutil.New(errorutil.KindInvalidOrderStatus)
	}
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, lookupErr(err, errorutil.KindOrderNotFound)
	}
	updated, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, lookupErr(err, errorutil.KindOrderNotFound)
	}

	if current.Status != updated.Status {
		s.publish(ctx, events.EventOrderStatusChanged, orderID, events.Actor{UserID: ownerID, Role: domain.RoleOwner},
			events.OrderStatusChangedPayload{OldStatus: current.Status, NewStatus: updated.Status})
	}
	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, eventType events.EventType, orderID string, actor events.Actor, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
