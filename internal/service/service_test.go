package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ordering-service/internal/auth"
	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/events"
	"github.com/spec-kit/ordering-service/internal/repository/memory"
)

type fixture struct {
	store      *memory.Store
	tokens     *auth.TokenManager
	auth       *AuthService
	catalog    *CatalogService
	orders     *OrderService
	dispatcher events.Dispatcher
	published  []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tokens, err := auth.NewTokenManager("svc-access", "svc-refresh", 50*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	f := &fixture{store: store, tokens: tokens, dispatcher: events.NewInMemoryDispatcher(nil)}
	record := func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	}
	f.dispatcher.Subscribe(events.EventOrderPlaced, record)
	f.dispatcher.Subscribe(events.EventOrderStatusChanged, record)

	f.auth = NewAuthService(store.Users(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil)
	f.catalog = NewCatalogService(store.Categories(), store.Menus())
	f.orders = NewOrderService(OrderDependencies{
		OrderRepo:  store.Orders(),
		MenuRepo:   store.Menus(),
		Dispatcher: f.dispatcher,
	})
	return f
}

func (f *fixture) signUp(t *testing.T, nickname string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.auth.SignUp(context.Background(), SignUpInput{Nickname: nickname, Password: "password99", Role: string(role)})
	require.NoError(t, err)
	return u
}

func (f *fixture) menu(t *testing.T, price int64) *domain.Menu {
	t.Helper()
	ctx := context.Background()
	cat, err := f.catalog.CreateCategory(ctx, "Coffee")
	require.NoError(t, err)
	m, err := f.catalog.CreateMenu(ctx, cat.ID, MenuInput{Name: "Latte", Description: "milk", Image: "latte.png", Price: price})
	require.NoError(t, err)
	return m
}
