// Package memory holds map-backed repositories used when no Postgres DSN is
// configured and in tests. They mirror the Postgres implementations' errors:
// a miss is pgx.ErrNoRows and a taken nickname is a unique violation.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/repository"
)

// Store is a single in-memory database shared by all repositories so that
// order views can join menus and users.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[string]domain.User
	categories map[string]domain.Category
	menus      map[string]domain.Menu
	orders     map[string]domain.Order
	seq        int64
	created    map[string]int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:        func() time.Time { return time.Now().UTC() },
		users:      map[string]domain.User{},
		categories: map[string]domain.Category{},
		menus:      map[string]domain.Menu{},
		orders:     map[string]domain.Order{},
		created:    map[string]int64{},
	}
}

// Users returns a UserRepository view of the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Categories returns a CategoryRepository view of the store.
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }

// Menus returns a MenuRepository view of the store.
func (s *Store) Menus() repository.MenuRepository { return menuRepo{s} }

// Orders returns an OrderRepository view of the store.
func (s *Store) Orders() repository.OrderRepository { return orderRepo{s} }

// stamp assigns an id and timestamps; callers hold the write lock.
func (s *Store) stamp() (string, time.Time) {
	id := uuid.NewString()
	s.seq++
	s.created[id] = s.seq
	return id, s.now()
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Nickname == user.Nickname {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_nickname_key"}
		}
	}
	id, now := r.s.stamp()
	user.ID, user.CreatedAt, user.UpdatedAt = id, now, now
	r.s.users[id] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r userRepo) GetByNickname(_ context.Context, nickname string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Nickname == nickname {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, now := r.s.stamp()
	category.ID, category.CreatedAt, category.UpdatedAt = id, now, now
	category.Order = len(r.s.categories) + 1
	r.s.categories[id] = *category
	return nil
}

func (r categoryRepo) Update(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.categories[category.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name, existing.Order, existing.UpdatedAt = category.Name, category.Order, r.s.now()
	r.s.categories[category.ID] = existing
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.categories, id)
	for menuID, m := range r.s.menus {
		if m.CategoryID == id {
			r.s.deleteMenuLocked(menuID)
		}
	}
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r categoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return r.s.created[out[i].ID] < r.s.created[out[j].ID]
	})
	return out, nil
}

type menuRepo struct{ s *Store }

func (r menuRepo) Create(_ context.Context, menu *domain.Menu) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[menu.CategoryID]; !ok {
		return &pgconn.PgError{Code: "23503", ConstraintName: "menus_category_id_fkey"}
	}
	count := 0
	for _, m := range r.s.menus {
		if m.CategoryID == menu.CategoryID {
			count++
		}
	}
	id, now := r.s.stamp()
	menu.ID, menu.CreatedAt, menu.UpdatedAt = id, now, now
	menu.Order = count + 1
	r.s.menus[id] = *menu
	return nil
}

func (r menuRepo) Update(_ context.Context, menu *domain.Menu) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.menus[menu.ID]
	if !ok || existing.CategoryID != menu.CategoryID {
		return pgx.ErrNoRows
	}
	existing.Name = menu.Name
	existing.Description = menu.Description
	existing.Price = menu.Price
	existing.Order = menu.Order
	existing.Status = menu.Status
	existing.UpdatedAt = r.s.now()
	r.s.menus[menu.ID] = existing
	return nil
}

func (r menuRepo) Delete(_ context.Context, categoryID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.menus[id]
	if !ok || m.CategoryID != categoryID {
		return pgx.ErrNoRows
	}
	r.s.deleteMenuLocked(id)
	return nil
}

func (s *Store) deleteMenuLocked(id string) {
	delete(s.menus, id)
	for orderID, o := range s.orders {
		if o.MenuID == id {
			delete(s.orders, orderID)
		}
	}
}

func (r menuRepo) GetByID(_ context.Context, id string) (*domain.Menu, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.menus[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (r menuRepo) GetInCategory(ctx context.Context, categoryID, id string) (*domain.Menu, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.CategoryID != categoryID {
		return nil, pgx.ErrNoRows
	}
	return m, nil
}

func (r menuRepo) ListByCategory(_ context.Context, categoryID string) ([]domain.Menu, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Menu
	for _, m := range r.s.menus {
		if m.CategoryID == categoryID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return r.s.created[out[i].ID] < r.s.created[out[j].ID]
	})
	return out, nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, userOK := r.s.users[order.UserID]
	_, menuOK := r.s.menus[order.MenuID]
	if !userOK || !menuOK {
		return &pgconn.PgError{Code: "23503", ConstraintName: "orders_fkey"}
	}
	id, now := r.s.stamp()
	order.ID, order.CreatedAt, order.UpdatedAt = id, now, now
	r.s.orders[id] = *order
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &o, nil
}

func (r orderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	o.Status, o.UpdatedAt = status, r.s.now()
	r.s.orders[id] = o
	return &o, nil
}

func (r orderRepo) ListByUser(_ context.Context, userID string) ([]domain.OrderView, error) {
	return r.views(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (r orderRepo) ListAll(_ context.Context) ([]domain.OrderView, error) {
	return r.views(func(domain.Order) bool { return true }), nil
}

// views returns matching orders newest first.
func (r orderRepo) views(match func(domain.Order) bool) []domain.OrderView {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.OrderView
	for _, o := range r.s.orders {
		if !match(o) {
			continue
		}
		m := r.s.menus[o.MenuID]
		u := r.s.users[o.UserID]
		out = append(out, domain.OrderView{
			Order:            o,
			MenuName:         m.Name,
			MenuPrice:        m.Price,
			CustomerNickname: u.Nickname,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return r.s.created[out[i].ID] > r.s.created[out[j].ID]
	})
	return out
}
