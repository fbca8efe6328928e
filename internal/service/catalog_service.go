package service

import (
	"context"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/repository"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// CatalogService manages categories and the menus inside them.
type CatalogService struct {
	categories repository.CategoryRepository
	menus      repository.MenuRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(categories repository.CategoryRepository, menus repository.MenuRepository) *CatalogService {
	return &CatalogService{categories: categories, menus: menus}
}

// MenuInput describes menu fields set on creation.
type MenuInput struct {
	Name        string
	Description string
	Image       string
	Price       int64
}

// MenuUpdate describes menu fields replaced on update.
type MenuUpdate struct {
	Name        string
	Description string
	Price       int64
	Order       int
	Status      domain.MenuStatus
}

// CreateCategory appends a category to the display order.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, errorutil.MapError(err)
	}
	return category, nil
}

// ListCategories returns categories in display order.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return categories, nil
}

// UpdateCategory renames and repositions a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string, order int) error {
	if err := s.categories.Update(ctx, &domain.Category{ID: id, Name: name, Order: order}); err != nil {
		return lookupErr(err, errorutil.KindCategoryNotFound)
	}
	return nil
}

// DeleteCategory removes a category and, through the schema, its menus.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return lookupErr(err, errorutil.KindCategoryNotFound)
	}
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return lookupErr(err, errorutil.KindCategoryNotFound)
	}
	return nil
}

// CreateMenu adds a FOR_SALE menu at the end of the category.
func (s *CatalogService) CreateMenu(ctx context.Context, categoryID string, in MenuInput) (*domain.Menu, error) {
	if in.Price < 0 {
		return nil, errorutil.New(errorutil.KindInvalidMenuPrice)
	}
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	menu := &domain.Menu{
		CategoryID:  categoryID,
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		Status:      domain.MenuStatusForSale,
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, errorutil.MapError(err)
	}
	return menu, nil
}

// ListMenus returns the menus of a category in display order.
func (s *CatalogService) ListMenus(ctx context.Context, categoryID string) ([]domain.Menu, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	menus, err := s.menus.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return menus, nil
}

// GetMenu returns one menu of a category.
func (s *CatalogService) GetMenu(ctx context.Context, categoryID, menuID string) (*domain.Menu, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	menu, err := s.menus.GetInCategory(ctx, categoryID, menuID)
	if err != nil {
		return nil, lookupErr(err, errorutil.KindMenuNotFound)
	}
	return menu, nil
}

// UpdateMenu replaces the mutable fields of a menu.
func (s *CatalogService) UpdateMenu(ctx context.Context, categoryID, menuID string, in MenuUpdate) error {
	if in.Price < 0 {
		return errorutil.New(errorutil.KindInvalidMenuPrice)
	}
	if !in.Status.Valid() {
		return errorutil.New(errorutil.KindInvalidDataFormat)
	}
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return err
	}
	err := s.menus.Update(ctx, &domain.Menu{
		ID:          menuID,
		CategoryID:  categoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Order:       in.Order,
		Status:      in.Status,
	})
	if err != nil {
		return lookupErr(err, errorutil.KindMenuNotFound)
	}
	return nil
}

// DeleteMenu removes a menu from its category.
func (s *CatalogService) DeleteMenu(ctx context.Context, categoryID, menuID string) error {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return err
	}
	if err := s.menus.Delete(ctx, categoryID, menuID); err != nil {
		return lookupErr(err, errorutil.KindMenuNotFound)
	}
	return nil
}
