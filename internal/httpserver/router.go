package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftkart/storefront/internal/jwtauth"
)

type Deps struct {
	CartHandler  *CartHTTP
	OrderHandler *OrderHTTP
	JWTSecret    []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	cart := v1.Group("/cart", jwtauth.RequireLogin(d.JWTSecret))
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/count", d.CartHandler.GetCartCount)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.PUT("/update/:id", d.CartHandler.UpdateCartItem)
	cart.PUT("/bulk-update", d.CartHandler.BulkUpdateCart)
	cart.DELETE("/remove/:id", d.CartHandler.RemoveFromCart)
	cart.DELETE("/clear", d.CartHandler.ClearCart)
	cart.POST("/validate", d.CartHandler.ValidateCart)

	orders := v1.Group("/orders", jwtauth.RequireLogin(d.JWTSecret))
	orders.POST("/create", d.OrderHandler.CreateOrder)
	orders.GET("/my-orders", d.OrderHandler.GetMyOrders)
	orders.GET("/:orderNumber", d.OrderHandler.GetOrder)
	orders.PUT("/:orderNumber/cancel", d.OrderHandler.CancelOrder)

	admin := v1.Group("/orders/admin", jwtauth.RequireAdmin(d.JWTSecret))
	admin.GET("/all", d.OrderHandler.GetAllOrders)
	admin.PUT("/:orderNumber/status", d.OrderHandler.UpdateOrderStatus)
}
