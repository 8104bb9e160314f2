package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/swiftkart/storefront/internal/service"
)

// Envelope is the response shape the frontend consumes on every route.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func respondOK(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

func respondFail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Success: false, Message: message})
}

func respondFailWith(c echo.Context, code int, message string, errs interface{}) error {
	return c.JSON(code, Envelope{Success: false, Message: message, Errors: errs})
}

// statusFor maps service sentinel errors to HTTP codes; anything
// unrecognized is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrProductUnavailable):
		return 404
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidState):
		return 400
	default:
		return 500
	}
}
