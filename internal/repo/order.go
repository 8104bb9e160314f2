package repo

import (
	"context"

	"github.com/swiftkart/storefront/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) GetOrderByNumber(ctx context.Context, number string, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("order_number = ? AND user_id = ?", number, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate locks the order row for a status transition and
// loads its items separately; gorm cannot combine Preload with a
// locking clause without locking the joined rows too.
func (r *GormRepo) GetOrderForUpdate(ctx context.Context, number string, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.forUpdate(r.DB.WithContext(ctx)).
		Where("order_number = ? AND user_id = ?", number, userID).
		First(&order).Error; err != nil {
		return nil, err
	}

	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderByNumberAny(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", number).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

type OrderFilter struct {
	UserID uint   // 0 means any user
	Status string // empty means any status
	Limit  int
	Offset int
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
