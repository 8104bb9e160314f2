package repo

import (
	"context"

	"github.com/swiftkart/storefront/internal/models"
)

// CartLine pairs a cart row with its live product. Product is nil when
// the referenced row no longer exists.
type CartLine struct {
	Item    models.CartItem
	Product *models.Product
}

func (r *GormRepo) GetCartItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetCartLines loads a user's cart joined with live product rows. With
// lock set, the cart rows are read under SELECT ... FOR UPDATE so that
// two checkouts racing on one cart serialize on the same rows.
func (r *GormRepo) GetCartLines(ctx context.Context, userID uint, lock bool) ([]CartLine, error) {
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if lock {
		q = r.forUpdate(q)
	}

	var items []models.CartItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := r.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CartLine{Item: it, Product: products[it.ProductID]})
	}
	return lines, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, id, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) FindCartLine(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) UpdateCartItem(ctx context.Context, item *models.CartItem, quantity uint, price float64) error {
	return r.DB.WithContext(ctx).Model(item).
		Updates(map[string]interface{}{"quantity": quantity, "price": price}).Error
}

// DeleteCartItem removes one line scoped to its owner; returns false
// when no such line existed.
func (r *GormRepo) DeleteCartItem(ctx context.Context, id, userID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteCartItemsByID purges cart rows by primary key, used when a read
// discovers lines whose product vanished or went inactive.
func (r *GormRepo) DeleteCartItemsByID(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartItem{}).Error
}

// ClearCart deletes every line of a user's cart and reports how many
// rows went away. Clearing an empty cart is a no-op success.
func (r *GormRepo) ClearCart(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
