package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swiftkart/storefront/internal/config"
	"github.com/swiftkart/storefront/internal/models"
	"github.com/swiftkart/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return &repo.GormRepo{DB: db}
}

func ptr(v float64) *float64 { return &v }

func seedProduct(t *testing.T, r *repo.GormRepo, p models.Product) models.Product {
	t.Helper()
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func seedAddress(t *testing.T, r *repo.GormRepo, userID uint) models.Address {
	t.Helper()
	addr := models.Address{
		UserID:  userID,
		Name:    "Test Buyer",
		Phone:   "9999999999",
		Street:  "42 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		Pincode: "560001",
		Country: "India",
	}
	require.NoError(t, r.DB.Create(&addr).Error)
	return addr
}

func productStock(t *testing.T, r *repo.GormRepo, id uint) uint {
	t.Helper()
	var p models.Product
	require.NoError(t, r.DB.First(&p, id).Error)
	return p.Stock
}
