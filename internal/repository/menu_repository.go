package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ordering-service/internal/domain"
)

// MenuRepository manages menu persistence. Lookups are scoped to a category.
type MenuRepository interface {
	Create(ctx context.Context, menu *domain.Menu) error
	Update(ctx context.Context, menu *domain.Menu) error
	Delete(ctx context.Context, categoryID, id string) error
	GetByID(ctx context.Context, id string) (*domain.Menu, error)
	GetInCategory(ctx context.Context, categoryID, id string) (*domain.Menu, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Menu, error)
}

type menuRepository struct {
	db DBTX
}

// NewMenuRepository builds the repository.
func NewMenuRepository(db DBTX) MenuRepository {
	return &menuRepository{db: db}
}

const menuColumns = `id, category_id, name, description, image, price, "order", status, created_at, updated_at`

func (r *menuRepository) Create(ctx context.Context, menu *domain.Menu) error {
	const query = `
        INSERT INTO menus (category_id, name, description, image, price, "order", status)
        VALUES ($1, $2, $3, $4, $5, (SELECT COUNT(*) FROM menus WHERE category_id = $1) + 1, $6)
        RETURNING id, "order", created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		menu.CategoryID,
		menu.Name,
		menu.Description,
		menu.Image,
		menu.Price,
		menu.Status,
	).Scan(&menu.ID, &menu.Order, &menu.CreatedAt, &menu.UpdatedAt)
}

func (r *menuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	const query = `
        UPDATE menus SET name=$1, description=$2, price=$3, "order"=$4, status=$5, updated_at=NOW()
        WHERE id=$6 AND category_id=$7`
	cmd, err := r.db.Exec(ctx, query,
		menu.Name,
		menu.Description,
		menu.Price,
		menu.Order,
		menu.Status,
		menu.ID,
		menu.CategoryID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *menuRepository) Delete(ctx context.Context, categoryID, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM menus WHERE id=$1 AND category_id=$2`, id, categoryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *menuRepository) GetByID(ctx context.Context, id string) (*domain.Menu, error) {
	return scanMenu(r.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id=$1`, id))
}

func (r *menuRepository) GetInCategory(ctx context.Context, categoryID, id string) (*domain.Menu, error) {
	return scanMenu(r.db.QueryRow(ctx,
		`SELECT `+menuColumns+` FROM menus WHERE id=$1 AND category_id=$2`, id, categoryID))
}

func (r *menuRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Menu, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+menuColumns+` FROM menus WHERE category_id=$1 ORDER BY "order" ASC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Menu
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *menu)
	}
	return result, rows.Err()
}

func scanMenu(row pgx.Row) (*domain.Menu, error) {
	var m domain.Menu
	if err := row.Scan(
		&m.ID,
		&m.CategoryID,
		&m.Name,
		&m.Description,
		&m.Image,
		&m.Price,
		&m.Order,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
