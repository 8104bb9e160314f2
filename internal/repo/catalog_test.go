package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swiftkart/storefront/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.CartItem{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return &GormRepo{DB: db}
}

func TestAdjustStock_GuardRejectsOverdraw(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	p := models.Product{Name: "widget", Slug: "widget", Price: 10, Stock: 2, IsActive: true}
	require.NoError(t, r.DB.Create(&p).Error)

	ok, err := r.AdjustStock(ctx, p.ID, -2)
	require.NoError(t, err)
	assert.True(t, ok)

	// Stock is now 0; any further decrement must bounce off the guard.
	ok, err = r.AdjustStock(ctx, p.ID, -1)
	require.NoError(t, err)
	assert.False(t, ok)

	var got models.Product
	require.NoError(t, r.DB.First(&got, p.ID).Error)
	assert.Equal(t, uint(0), got.Stock)

	ok, err = r.AdjustStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.DB.First(&got, p.ID).Error)
	assert.Equal(t, uint(5), got.Stock)
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	r := newTestRepo(t)

	ok, err := r.AdjustStock(context.Background(), 999, -1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetCartLines_JoinsLiveProducts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	p := models.Product{Name: "widget", Slug: "widget", Price: 10, Stock: 5, IsActive: true}
	require.NoError(t, r.DB.Create(&p).Error)
	require.NoError(t, r.DB.Create(&models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 2, Price: 10}).Error)
	require.NoError(t, r.DB.Create(&models.CartItem{UserID: 1, ProductID: 999, Quantity: 1, Price: 1}).Error)

	lines, err := r.GetCartLines(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	byProduct := map[uint]CartLine{}
	for _, ln := range lines {
		byProduct[ln.Item.ProductID] = ln
	}
	require.NotNil(t, byProduct[p.ID].Product)
	assert.Equal(t, "widget", byProduct[p.ID].Product.Name)
	assert.Nil(t, byProduct[999].Product)
}
