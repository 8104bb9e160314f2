package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:buyer"   json:"role"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name          string    `gorm:"not null"                    json:"name"`
	Slug          string    `gorm:"uniqueIndex;not null"        json:"slug"`
	Description   string    `json:"description"`
	Price         float64   `gorm:"not null"                    json:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	Stock         uint      `gorm:"not null;default:0"          json:"stock"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"is_active"`
	SellerID      uint      `gorm:"index"                       json:"seller_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EffectivePrice is the price a buyer actually pays: the discount price
// when one is set below the list price, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}

// UnitSavings is the per-unit discount when one applies, zero otherwise.
func (p *Product) UnitSavings() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		return p.Price - *p.DiscountPrice
	}
	return 0
}

type Address struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint   `gorm:"index;not null"           json:"user_id"`
	Name      string `gorm:"not null"                 json:"name"`
	Phone     string `gorm:"not null"                 json:"phone"`
	Street    string `gorm:"not null"                 json:"street"`
	City      string `gorm:"not null"                 json:"city"`
	State     string `gorm:"not null"                 json:"state"`
	Pincode   string `gorm:"not null"                 json:"pincode"`
	Country   string `gorm:"not null;default:India"   json:"country"`
	IsDefault bool   `gorm:"default:false"            json:"is_default"`
}

// CartItem holds at most one row per (user, product); repeated adds merge
// into the existing row. Price is the effective price snapshotted at the
// last add or update. The snapshot is for display only, checkout always
// recomputes from the live product row.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                   json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity>0"        json:"quantity"`
	Price     float64   `gorm:"not null"                                   json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var PaymentMethods = []string{"cod", "razorpay", "card", "upi"}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// CancellableStatus reports whether an order in the given status may
// still be cancelled by its owner.
func CancellableStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement"       json:"id"`
	OrderNumber   string      `gorm:"uniqueIndex;not null"           json:"order_number"`
	UserID        uint        `gorm:"index;not null"                 json:"user_id"`
	AddressID     uint        `gorm:"not null"                       json:"address_id"`
	TotalAmount   float64     `gorm:"not null"                       json:"total_amount"`
	Status        string      `gorm:"not null;default:pending;index" json:"status"`
	PaymentStatus string      `gorm:"not null;default:pending"       json:"payment_status"`
	PaymentMethod string      `gorm:"not null"                       json:"payment_method"`
	Notes         string      `json:"notes,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"             json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem freezes quantity and unit price at order time. Rows are never
// mutated after creation, cancellation keeps them for audit.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uint    `gorm:"index;not null"            json:"order_id"`
	ProductID uint    `gorm:"index;not null"            json:"product_id"`
	Quantity  uint    `gorm:"not null;check:quantity>0" json:"quantity"`
	Price     float64 `gorm:"not null"                  json:"price"`
	LineTotal float64 `gorm:"not null"                  json:"line_total"`
}
