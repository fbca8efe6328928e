package dto

import (
	"time"

	"github.com/spec-kit/ordering-service/internal/domain"
)

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Order *int   `json:"order" validate:"required"`
}

// CategoryResponse payload.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CreateMenuRequest payload. Price is a pointer so a missing price is told
// apart from a zero price.
type CreateMenuRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required"`
	Price       *int64 `json:"price" validate:"required,lte=1000000000000"`
}

// UpdateMenuRequest payload.
type UpdateMenuRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       *int64 `json:"price" validate:"required,lte=1000000000000"`
	Order       *int   `json:"order" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=FOR_SALE SOLD_OUT"`
}

// MenuSummary is a list entry.
type MenuSummary struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Image  string            `json:"image"`
	Price  int64             `json:"price"`
	Order  int               `json:"order"`
	Status domain.MenuStatus `json:"status"`
}

// MenuDetail includes the description.
type MenuDetail struct {
	MenuSummary
	CategoryID  string    `json:"categoryId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryFromDomain maps a category.
func CategoryFromDomain(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Order: c.Order}
}

// MenuSummaryFromDomain maps a menu to its list entry.
func MenuSummaryFromDomain(m domain.Menu) MenuSummary {
	return MenuSummary{ID: m.ID, Name: m.Name, Image: m.Image, Price: m.Price, Order: m.Order, Status: m.Status}
}

// MenuDetailFromDomain maps a menu to its detail view.
func MenuDetailFromDomain(m domain.Menu) MenuDetail {
	return MenuDetail{
		MenuSummary: MenuSummaryFromDomain(m),
		CategoryID:  m.CategoryID,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
