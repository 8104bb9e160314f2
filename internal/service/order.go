package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/swiftkart/storefront/internal/models"
	"github.com/swiftkart/storefront/internal/repo"
)

const orderNumberAttempts = 3

type OrderService struct {
	Repo *repo.GormRepo

	// Now is swappable for tests; zero value falls back to time.Now.
	Now func() time.Time
}

type CreateOrderRequest struct {
	AddressID     uint   `json:"address_id"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create converts the user's cart into a persisted order. The whole
// sequence runs in one store transaction: the stock decrement, the
// order and its items, and the cart clear become visible together or
// not at all. Stock is consumed through the conditional AdjustStock
// guard, so a concurrent checkout of the last unit loses cleanly with
// ErrInsufficientStock instead of driving stock negative.
func (s *OrderService) Create(ctx context.Context, userID uint, req CreateOrderRequest) (*models.Order, error) {
	if req.AddressID == 0 {
		return nil, fmt.Errorf("%w: address_id required", ErrValidation)
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment method", ErrValidation)
	}

	var order *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetAddress(ctx, req.AddressID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: address not found", ErrNotFound)
			}
			return err
		}

		lines, err := tx.GetCartLines(ctx, userID, true)
		if err != nil {
			return err
		}

		active := lines[:0]
		for _, ln := range lines {
			if ln.Product != nil && ln.Product.IsActive {
				active = append(active, ln)
			}
		}
		if len(active) == 0 {
			return ErrEmptyCart
		}

		var totalAmount float64
		items := make([]models.OrderItem, 0, len(active))

		for _, ln := range active {
			ok, err := tx.AdjustStock(ctx, ln.Product.ID, -int64(ln.Item.Quantity))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: insufficient stock for %s", ErrInsufficientStock, ln.Product.Name)
			}

			// Billing price is recomputed from the live product row,
			// never taken from the cart snapshot.
			price := ln.Product.EffectivePrice()
			lineTotal := price * float64(ln.Item.Quantity)
			totalAmount += lineTotal

			items = append(items, models.OrderItem{
				ProductID: ln.Product.ID,
				Quantity:  ln.Item.Quantity,
				Price:     price,
				LineTotal: lineTotal,
			})
		}

		number, err := s.nextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}

		order = &models.Order{
			OrderNumber:   number,
			UserID:        userID,
			AddressID:     req.AddressID,
			TotalAmount:   round2(totalAmount),
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			Items:         items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		if _, err := tx.ClearCart(ctx, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel flips a pending or confirmed order to cancelled and puts every
// ordered quantity back on stock, the exact inverse of Create's
// decrement. Items and total stay untouched for audit.
func (s *OrderService) Cancel(ctx context.Context, userID uint, orderNumber string) (*models.Order, error) {
	var order *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, orderNumber, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order not found", ErrNotFound)
			}
			return err
		}

		if !models.CancellableStatus(order.Status) {
			return fmt.Errorf("%w: order cannot be cancelled at this stage", ErrInvalidState)
		}

		if err := tx.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled); err != nil {
			return err
		}

		for _, item := range order.Items {
			if _, err := tx.AdjustStock(ctx, item.ProductID, int64(item.Quantity)); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, userID uint, orderNumber string) (*models.Order, error) {
	order, err := s.Repo.GetOrderByNumber(ctx, orderNumber, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, f repo.OrderFilter) (int64, []models.Order, error) {
	if f.Status != "" && !models.ValidOrderStatus(f.Status) {
		return 0, nil, fmt.Errorf("%w: invalid status filter", ErrValidation)
	}
	return s.Repo.ListOrders(ctx, f)
}

// UpdateStatus is the administrative overwrite: any of the six statuses
// may be set, with no stock side effects. Stock changes belong to
// Create and Cancel only.
func (s *OrderService) UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: invalid order status", ErrValidation)
	}

	order, err := s.Repo.GetOrderByNumberAny(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}

	if err := s.Repo.UpdateOrderStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// nextOrderNumber builds a timestamp+random identifier and retries a
// couple of times on collision; the unique index on order_number is the
// backstop.
func (s *OrderService) nextOrderNumber(ctx context.Context, tx *repo.GormRepo) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := fmt.Sprintf("SK%d%03d", s.now().UnixMilli(), rand.Intn(1000))
		exists, err := tx.OrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("order number generation exhausted %d attempts", orderNumberAttempts)
}
