package service

import "errors"

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrNotFound           = errors.New("not found")           // 404
	ErrInsufficientStock  = errors.New("insufficient stock")  // 400
	ErrProductUnavailable = errors.New("product unavailable") // 404
	ErrEmptyCart          = errors.New("cart is empty")       // 400
	ErrInvalidState       = errors.New("invalid state")       // 400
)
