package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/swiftkart/storefront/internal/models"
)

func (r *GormRepo) GetActiveProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

// AdjustStock applies delta to a product's stock under the guard
// stock + delta >= 0, evaluated by the store in one statement. The
// returned bool is false when the guard rejected the update, which for
// a negative delta means insufficient stock. Every stock mutation in
// the system goes through this method.
func (r *GormRepo) AdjustStock(ctx context.Context, productID uint, delta int64) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) GetAddress(ctx context.Context, id, userID uint) (*models.Address, error) {
	var addr models.Address
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}
