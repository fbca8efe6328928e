package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ordering-service/internal/api/dto"
	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/internal/service"
)

// CatalogHandler exposes category and menu endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateCategory POST /api/categories.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "category created",
		"data":    dto.CategoryFromDomain(*category),
	})
}

// ListCategories GET /api/categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.CategoryFromDomain(category))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateCategory PATCH /api/categories/:categoryId.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := idParam(c, "categoryId")
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.catalog.UpdateCategory(c.UserContext(), categoryID, req.Name, *req.Order); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "category updated"})
}

// DeleteCategory DELETE /api/categories/:categoryId.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := idParam(c, "categoryId")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteCategory(c.UserContext(), categoryID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}

// CreateMenu POST /api/categories/:categoryId/menus.
func (h *CatalogHandler) CreateMenu(c *fiber.Ctx) error {
	categoryID, err := idParam(c, "categoryId")
	if err != nil {
		return err
	}
	var req dto.CreateMenuRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	menu, err := h.catalog.CreateMenu(c.UserContext(), categoryID, service.MenuInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       *req.Price,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "menu created",
		"data":    dto.MenuDetailFromDomain(*menu),
	})
}

// ListMenus GET /api/categories/:categoryId/menus.
func (h *CatalogHandler) ListMenus(c *fiber.Ctx) error {
	categoryID, err := idParam(c, "categoryId")
	if err != nil {
		return err
	}
	menus, err := h.catalog.ListMenus(c.UserContext(), categoryID)
	if err != nil {
		return err
	}
	items := make([]dto.MenuSummary, 0, len(menus))
	for _, menu := range menus {
		items = append(items, dto.MenuSummaryFromDomain(menu))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetMenu GET /api/categories/:categoryId/menus/:menuId.
func (h *CatalogHandler) GetMenu(c *fiber.Ctx) error {
	categoryID, menuID, err := menuParams(c)
	if err != nil {
		return err
	}
	menu, err := h.catalog.GetMenu(c.UserContext(), categoryID, menuID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MenuDetailFromDomain(*menu)})
}

// UpdateMenu PATCH /api/categories/:categoryId/menus/:menuId.
func (h *CatalogHandler) UpdateMenu(c *fiber.Ctx) error {
	categoryID, menuID, err := menuParams(c)
	if err != nil {
		return err
	}
	var req dto.UpdateMenuRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	err = h.catalog.UpdateMenu(c.UserContext(), categoryID, menuID, service.MenuUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Order:       *req.Order,
		Status:      domain.MenuStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "menu updated"})
}

// DeleteMenu DELETE /api/categories/:categoryId/menus/:menuId.
func (h *CatalogHandler) DeleteMenu(c *fiber.Ctx) error {
	categoryID, menuID, err := menuParams(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteMenu(c.UserContext(), categoryID, menuID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "menu deleted"})
}

func menuParams(c *fiber.Ctx) (string, string, error) {
	categoryID, err := idParam(c, "categoryId")
	if err != nil {
		return "", "", err
	}
	menuID, err := idParam(c, "menuId")
	if err != nil {
		return "", "", err
	}
	return categoryID, menuID, nil
}
