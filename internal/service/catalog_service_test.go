package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ordering-service/internal/domain"
	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	coffee, err := f.catalog.CreateCategory(ctx, "Coffee")
	require.NoError(t, err)
	tea, err := f.catalog.CreateCategory(ctx, "Tea")
	require.NoError(t, err)
	assert.Equal(t, 2, tea.Order)

	require.NoError(t, f.catalog.UpdateCategory(ctx, tea.ID, "Teas", 0))
	list, err := f.catalog.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Teas", list[0].Name)
	assert.Equal(t, coffee.ID, list[1].ID)

	require.NoError(t, f.catalog.DeleteCategory(ctx, coffee.ID))
	err = f.catalog.DeleteCategory(ctx, coffee.ID)
	assert.Equal(t, errorutil.KindCategoryNotFound, errorutil.KindOf(err))
	err = f.catalog.UpdateCategory(ctx, coffee.ID, "x", 1)
	assert.Equal(t, errorutil.KindCategoryNotFound, errorutil.KindOf(err))
}

func TestMenuRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalog.CreateCategory(ctx, "Coffee")
	require.NoError(t, err)

	_, err = f.catalog.CreateMenu(ctx, cat.ID, MenuInput{Name: "Latte", Price: -1})
	assert.Equal(t, errorutil.KindInvalidMenuPrice, errorutil.KindOf(err))

	_, err = f.catalog.CreateMenu(ctx, "missing", MenuInput{Name: "Latte", Price: 100})
	assert.Equal(t, errorutil.KindCategoryNotFound, errorutil.KindOf(err))

	menu, err := f.catalog.CreateMenu(ctx, cat.ID, MenuInput{Name: "Latte", Description: "milk", Image: "l.png", Price: 4500})
	require.NoError(t, err)
	assert.Equal(t, domain.MenuStatusForSale, menu.Status)
	assert.Equal(t, 1, menu.Order)

	err = f.catalog.UpdateMenu(ctx, cat.ID, menu.ID, MenuUpdate{Name: "Latte", Price: 4800, Order: 1, Status: domain.MenuStatusSoldOut})
	require.NoError(t, err)
	got, err := f.catalog.GetMenu(ctx, cat.ID, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4800), got.Price)
	assert.Equal(t, domain.MenuStatusSoldOut, got.Status)

	err = f.catalog.UpdateMenu(ctx, cat.ID, menu.ID, MenuUpdate{Name: "Latte", Price: 1, Status: "GONE"})
	assert.Equal(t, errorutil.KindInvalidDataFormat, errorutil.KindOf(err))

	_, err = f.catalog.GetMenu(ctx, cat.ID, "missing")
	assert.Equal(t, errorutil.KindMenuNotFound, errorutil.KindOf(err))

	require.NoError(t, f.catalog.DeleteMenu(ctx, cat.ID, menu.ID))
	menus, err := f.catalog.ListMenus(ctx, cat.ID)
	require.NoError(t, err)
	assert.Empty(t, menus)
}
