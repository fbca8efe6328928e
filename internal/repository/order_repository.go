package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ordering-service/internal/domain"
)

// OrderRepository manages customer orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.OrderView, error)
	ListAll(ctx context.Context) ([]domain.OrderView, error)
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository builds the repository.
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, menu_id, quantity, total_price, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (user_id, menu_id, quantity, total_price, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		order.UserID,
		order.MenuID,
		order.Quantity,
		order.TotalPrice,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	const query = `
        UPDATE orders SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, status, id))
}

const orderViewQuery = `
        SELECT o.id, o.user_id, o.menu_id, o.quantity, o.total_price, o.status, o.created_at, o.updated_at,
               m.name, m.price, u.nickname
        FROM orders o
        JOIN menus m ON m.id = o.menu_id
        JOIN users u ON u.id = o.user_id`

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.OrderView, error) {
	return r.listViews(ctx, orderViewQuery+` WHERE o.user_id=$1 ORDER BY o.created_at DESC`, userID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	return r.listViews(ctx, orderViewQuery+` ORDER BY o.created_at DESC`)
}

func (r *orderRepository) listViews(ctx context.Context, query string, args ...any) ([]domain.OrderView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderView
	for rows.Next() {
		var v domain.OrderView
		if err := rows.Scan(
			&v.ID,
			&v.UserID,
			&v.MenuID,
			&v.Quantity,
			&v.TotalPrice,
			&v.Status,
			&v.CreatedAt,
			&v.UpdatedAt,
			&v.MenuName,
			&v.MenuPrice,
			&v.CustomerNickname,
		); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.MenuID,
		&o.Quantity,
		&o.TotalPrice,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
