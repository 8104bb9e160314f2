package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/swiftkart/storefront/internal/config"
	"github.com/swiftkart/storefront/internal/models"
)

func ptr(v float64) *float64 { return &v }

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	users := []models.User{
		{Email: "admin@swiftkart.local", PasswordHash: hash("admin123"), Role: "admin"},
		{Email: "seller@swiftkart.local", PasswordHash: hash("seller123"), Role: "seller"},
		{Email: "buyer@swiftkart.local", PasswordHash: hash("buyer123"), Role: "buyer"},
	}
	for i := range users {
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			log.Fatalf("seed user %s: %v", users[i].Email, err)
		}
	}

	seller := users[1]
	buyer := users[2]

	products := []models.Product{
		{Name: "Wireless Headphones", Slug: "wireless-headphones", Description: "Over-ear, 30h battery", Price: 2999, DiscountPrice: ptr(2499), Stock: 50, IsActive: true, SellerID: seller.ID},
		{Name: "Mechanical Keyboard", Slug: "mechanical-keyboard", Description: "Hot-swappable switches", Price: 4999, Stock: 25, IsActive: true, SellerID: seller.ID},
		{Name: "USB-C Cable", Slug: "usb-c-cable", Description: "1m braided", Price: 399, DiscountPrice: ptr(299), Stock: 200, IsActive: true, SellerID: seller.ID},
		{Name: "Laptop Stand", Slug: "laptop-stand", Description: "Aluminium, foldable", Price: 1499, Stock: 40, IsActive: true, SellerID: seller.ID},
		{Name: "Retired Gadget", Slug: "retired-gadget", Description: "No longer sold", Price: 999, Stock: 0, IsActive: false, SellerID: seller.ID},
	}
	for i := range products {
		if err := db.Where("slug = ?", products[i].Slug).FirstOrCreate(&products[i]).Error; err != nil {
			log.Fatalf("seed product %s: %v", products[i].Slug, err)
		}
	}

	address := models.Address{
		UserID:    buyer.ID,
		Name:      "Demo Buyer",
		Phone:     "9999999999",
		Street:    "42 MG Road",
		City:      "Bengaluru",
		State:     "Karnataka",
		Pincode:   "560001",
		Country:   "India",
		IsDefault: true,
	}
	if err := db.Where("user_id = ? AND is_default = ?", buyer.ID, true).FirstOrCreate(&address).Error; err != nil {
		log.Fatalf("seed address: %v", err)
	}

	log.Printf("seed complete: %d users, %d products, 1 address", len(users), len(products))
}
