package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftkart/storefront/internal/models"
)

func TestAddToCart_MergesRepeatedAdds(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "widget", Slug: "widget", Price: 100, Stock: 10, IsActive: true})

	for i := 0; i < 3; i++ {
		_, err := svc.Add(ctx, 1, p.ID, 1)
		require.NoError(t, err)
	}

	var items []models.CartItem
	require.NoError(t, r.DB.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, uint(3), items[0].Quantity)
}

func TestAddToCart_ProductMissingOrInactive(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	inactive := seedProduct(t, r, models.Product{Name: "gone", Slug: "gone", Price: 10, Stock: 5, IsActive: false})

	_, err := svc.Add(ctx, 1, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Add(ctx, 1, inactive.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToCart_InsufficientStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "scarce", Slug: "scarce", Price: 10, Stock: 3, IsActive: true})

	_, err := svc.Add(ctx, 1, p.ID, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Merged quantity beyond stock is also rejected.
	_, err = svc.Add(ctx, 1, p.ID, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, p.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var item models.CartItem
	require.NoError(t, r.DB.Where("user_id = ? AND product_id = ?", 1, p.ID).First(&item).Error)
	assert.Equal(t, uint(2), item.Quantity)
}

func TestAddToCart_SnapshotsEffectivePrice(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "deal", Slug: "deal", Price: 100, DiscountPrice: ptr(80), Stock: 5, IsActive: true})

	line, err := svc.Add(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 80.0, line.Price)
}

func TestUpdateQuantity_InsufficientStockLeavesLineUnchanged(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "scarce", Slug: "scarce", Price: 10, Stock: 5, IsActive: true})
	line, err := svc.Add(ctx, 1, p.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, 1, line.ID, 10)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var item models.CartItem
	require.NoError(t, r.DB.First(&item, line.ID).Error)
	assert.Equal(t, uint(2), item.Quantity)
}

func TestUpdateQuantity_InactiveProductPurgesLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "fading", Slug: "fading", Price: 10, Stock: 5, IsActive: true})
	line, err := svc.Add(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)

	_, err = svc.UpdateQuantity(ctx, 1, line.ID, 2)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("id = ?", line.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateQuantity_OtherUsersLineIsNotFound(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "widget", Slug: "widget", Price: 10, Stock: 5, IsActive: true})
	line, err := svc.Add(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, 2, line.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "widget", Slug: "widget", Price: 10, Stock: 5, IsActive: true})
	line, err := svc.Add(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1, line.ID))
	assert.ErrorIs(t, svc.Remove(ctx, 1, line.ID), ErrNotFound)

	// Clearing an empty cart is a no-op success.
	removed, err := svc.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestGetCart_SummaryAndSelfHealing(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	a := seedProduct(t, r, models.Product{Name: "A", Slug: "a", Price: 100, DiscountPrice: ptr(80), Stock: 5, IsActive: true})
	b := seedProduct(t, r, models.Product{Name: "B", Slug: "b", Price: 50, Stock: 1, IsActive: true})
	dead := seedProduct(t, r, models.Product{Name: "dead", Slug: "dead", Price: 10, Stock: 5, IsActive: true})

	_, err := svc.Add(ctx, 1, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, b.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, dead.ID, 1)
	require.NoError(t, err)

	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", dead.ID).Update("is_active", false).Error)

	view, err := svc.Get(ctx, 1)
	require.NoError(t, err)

	assert.Len(t, view.Items, 2)
	assert.Equal(t, uint(3), view.Summary.TotalItems)
	assert.Equal(t, 210.0, view.Summary.TotalAmount)
	assert.Equal(t, 40.0, view.Summary.TotalSavings)
	assert.Equal(t, 2, view.Summary.ItemCount)

	// The stale line is gone from the store, not just filtered.
	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("user_id = ? AND product_id = ?", 1, dead.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestValidate_SuccessTotal(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	a := seedProduct(t, r, models.Product{Name: "A", Slug: "a", Price: 100, DiscountPrice: ptr(80), Stock: 5, IsActive: true})
	b := seedProduct(t, r, models.Product{Name: "B", Slug: "b", Price: 50, Stock: 1, IsActive: true})

	_, err := svc.Add(ctx, 1, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, b.ID, 1)
	require.NoError(t, err)

	res, err := svc.Validate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 2, res.ValidItemsCount)
	assert.Equal(t, 210.0, res.TotalAmount)
}

func TestValidate_ReportsPerLineFailures(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	scarce := seedProduct(t, r, models.Product{Name: "scarce", Slug: "scarce", Price: 10, Stock: 5, IsActive: true})
	fading := seedProduct(t, r, models.Product{Name: "fading", Slug: "fading", Price: 10, Stock: 5, IsActive: true})

	scarceLine, err := svc.Add(ctx, 1, scarce.ID, 5)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, fading.ID, 1)
	require.NoError(t, err)

	// Stock drops and a product goes inactive after the adds.
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", scarce.ID).Update("stock", 2).Error)
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", fading.ID).Update("is_active", false).Error)

	res, err := svc.Validate(ctx, 1)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 2)

	var stockErr *LineError
	for i := range res.Errors {
		if res.Errors[i].ItemID == scarceLine.ID {
			stockErr = &res.Errors[i]
		}
	}
	require.NotNil(t, stockErr)
	assert.Equal(t, "scarce", stockErr.ProductName)
	assert.Equal(t, uint(5), stockErr.RequestedQuantity)
	assert.Equal(t, uint(2), stockErr.AvailableStock)

	// Quantities are never mutated by validation.
	var item models.CartItem
	require.NoError(t, r.DB.First(&item, scarceLine.ID).Error)
	assert.Equal(t, uint(5), item.Quantity)
}

func TestValidate_EmptyCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, err := svc.Validate(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBulkUpdate_PartialSuccess(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "widget", Slug: "widget", Price: 10, Stock: 5, IsActive: true})
	line, err := svc.Add(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	res, err := svc.BulkUpdate(ctx, 1, []BulkUpdateItem{
		{ID: line.ID, Quantity: 3},
		{ID: 999, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)

	var item models.CartItem
	require.NoError(t, r.DB.First(&item, line.ID).Error)
	assert.Equal(t, uint(3), item.Quantity)
}
