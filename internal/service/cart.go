package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/swiftkart/storefront/internal/models"
	"github.com/swiftkart/storefront/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

type CartLineView struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  uint            `json:"quantity"`
	Price     float64         `json:"price"`
	Product   *models.Product `json:"product"`
}

type CartSummary struct {
	TotalItems   uint    `json:"total_items"`
	TotalAmount  float64 `json:"total_amount"`
	TotalSavings float64 `json:"total_savings"`
	ItemCount    int     `json:"item_count"`
}

type CartView struct {
	Items   []CartLineView `json:"items"`
	Summary CartSummary    `json:"summary"`
}

type LineError struct {
	ItemID            uint   `json:"item_id"`
	ProductName       string `json:"product_name,omitempty"`
	RequestedQuantity uint   `json:"requested_quantity,omitempty"`
	AvailableStock    uint   `json:"available_stock,omitempty"`
	Message           string `json:"message"`
}

type ValidationResult struct {
	Valid           bool        `json:"valid"`
	ValidItemsCount int         `json:"valid_items_count"`
	TotalAmount     float64     `json:"total_amount"`
	Errors          []LineError `json:"errors,omitempty"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func lineView(item models.CartItem, p *models.Product) CartLineView {
	return CartLineView{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Product:   p,
	}
}

// Get returns the cart joined with live product data. Lines whose
// product vanished or went inactive are deleted on the way out and
// excluded from the summary.
func (s *CartService) Get(ctx context.Context, userID uint) (*CartView, error) {
	lines, err := s.Repo.GetCartLines(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: []CartLineView{}}
	var stale []uint

	for _, ln := range lines {
		if ln.Product == nil || !ln.Product.IsActive {
			stale = append(stale, ln.Item.ID)
			continue
		}
		view.Items = append(view.Items, lineView(ln.Item, ln.Product))

		view.Summary.TotalItems += ln.Item.Quantity
		view.Summary.TotalAmount += ln.Product.EffectivePrice() * float64(ln.Item.Quantity)
		view.Summary.TotalSavings += ln.Product.UnitSavings() * float64(ln.Item.Quantity)
	}
	view.Summary.ItemCount = len(view.Items)
	view.Summary.TotalAmount = round2(view.Summary.TotalAmount)
	view.Summary.TotalSavings = round2(view.Summary.TotalSavings)

	if err := s.Repo.DeleteCartItemsByID(ctx, stale); err != nil {
		return nil, err
	}
	return view, nil
}

// Count backs the header badge: item quantities summed over lines whose
// product is still active.
func (s *CartService) Count(ctx context.Context, userID uint) (totalItems uint, itemCount int, err error) {
	lines, err := s.Repo.GetCartLines(ctx, userID, false)
	if err != nil {
		return 0, 0, err
	}
	for _, ln := range lines {
		if ln.Product == nil || !ln.Product.IsActive {
			continue
		}
		totalItems += ln.Item.Quantity
		itemCount++
	}
	return totalItems, itemCount, nil
}

// Add merges into an existing (user, product) line or creates one, and
// snapshots the current effective price onto the line either way.
func (s *CartService) Add(ctx context.Context, userID, productID, quantity uint) (*CartLineView, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.Repo.GetActiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found or unavailable", ErrNotFound)
		}
		return nil, err
	}

	if product.Stock < quantity {
		return nil, fmt.Errorf("%w: only %d items available in stock", ErrInsufficientStock, product.Stock)
	}

	existing, err := s.Repo.FindCartLine(ctx, userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if product.Stock < newQuantity {
			var remaining uint
			if product.Stock > existing.Quantity {
				remaining = product.Stock - existing.Quantity
			}
			return nil, fmt.Errorf("%w: cannot add %d more, only %d more available",
				ErrInsufficientStock, quantity, remaining)
		}
		if err := s.Repo.UpdateCartItem(ctx, existing, newQuantity, product.EffectivePrice()); err != nil {
			return nil, err
		}
		existing.Quantity = newQuantity
		existing.Price = product.EffectivePrice()
		v := lineView(*existing, product)
		return &v, nil
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     product.EffectivePrice(),
	}
	if err := s.Repo.CreateCartItem(ctx, &item); err != nil {
		return nil, err
	}
	v := lineView(item, product)
	return &v, nil
}

// UpdateQuantity overwrites a line's quantity. A line whose product went
// inactive is removed here rather than left to rot (self-healing read).
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID, quantity uint) (*CartLineView, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	item, err := s.Repo.GetCartItem(ctx, lineID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item not found", ErrNotFound)
		}
		return nil, err
	}

	product, err := s.Repo.GetActiveProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, derr := s.Repo.DeleteCartItem(ctx, item.ID, userID); derr != nil {
				return nil, derr
			}
			return nil, fmt.Errorf("%w: product is no longer available", ErrProductUnavailable)
		}
		return nil, err
	}

	if product.Stock < quantity {
		return nil, fmt.Errorf("%w: only %d items available in stock", ErrInsufficientStock, product.Stock)
	}

	if err := s.Repo.UpdateCartItem(ctx, item, quantity, product.EffectivePrice()); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	item.Price = product.EffectivePrice()
	v := lineView(*item, product)
	return &v, nil
}

func (s *CartService) Remove(ctx context.Context, userID, lineID uint) error {
	deleted, err := s.Repo.DeleteCartItem(ctx, lineID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: cart item not found", ErrNotFound)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) (int64, error) {
	return s.Repo.ClearCart(ctx, userID)
}

// Validate is the pre-checkout gate: every line is re-checked against
// live product state without touching quantities. Inactive lines are
// purged, stock shortfalls are reported per line.
func (s *CartService) Validate(ctx context.Context, userID uint) (*ValidationResult, error) {
	lines, err := s.Repo.GetCartLines(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	res := &ValidationResult{}
	var stale []uint

	for _, ln := range lines {
		if ln.Product == nil || !ln.Product.IsActive {
			stale = append(stale, ln.Item.ID)
			res.Errors = append(res.Errors, LineError{
				ItemID:  ln.Item.ID,
				Message: "product is no longer available",
			})
			continue
		}
		if ln.Product.Stock < ln.Item.Quantity {
			res.Errors = append(res.Errors, LineError{
				ItemID:            ln.Item.ID,
				ProductName:       ln.Product.Name,
				RequestedQuantity: ln.Item.Quantity,
				AvailableStock:    ln.Product.Stock,
				Message:           fmt.Sprintf("only %d items available for %s", ln.Product.Stock, ln.Product.Name),
			})
			continue
		}
		res.ValidItemsCount++
		res.TotalAmount += ln.Product.EffectivePrice() * float64(ln.Item.Quantity)
	}
	res.TotalAmount = round2(res.TotalAmount)
	res.Valid = len(res.Errors) == 0

	if err := s.Repo.DeleteCartItemsByID(ctx, stale); err != nil {
		return nil, err
	}
	return res, nil
}

type BulkUpdateItem struct {
	ID       uint `json:"id"`
	Quantity uint `json:"quantity"`
}

type BulkItemResult struct {
	ItemID  uint `json:"item_id"`
	Success bool `json:"success"`
}

type BulkUpdateResult struct {
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Results      []BulkItemResult `json:"results"`
	Errors       []LineError      `json:"errors,omitempty"`
}

// BulkUpdate applies quantity overwrites item by item and reports the
// outcome per item. This is the one operation with partial success:
// failed items do not abort the rest.
func (s *CartService) BulkUpdate(ctx context.Context, userID uint, items []BulkUpdateItem) (*BulkUpdateResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	res := &BulkUpdateResult{Results: []BulkItemResult{}}
	for _, upd := range items {
		if upd.Quantity == 0 {
			res.Errors = append(res.Errors, LineError{ItemID: upd.ID, Message: "quantity must be at least 1"})
			continue
		}
		if _, err := s.UpdateQuantity(ctx, userID, upd.ID, upd.Quantity); err != nil {
			res.Errors = append(res.Errors, LineError{ItemID: upd.ID, Message: err.Error()})
			continue
		}
		res.Results = append(res.Results, BulkItemResult{ItemID: upd.ID, Success: true})
	}
	res.SuccessCount = len(res.Results)
	res.ErrorCount = len(res.Errors)
	return res, nil
}
