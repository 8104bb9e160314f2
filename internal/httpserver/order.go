package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/swiftkart/storefront/internal/jwtauth"
	"github.com/swiftkart/storefront/internal/logging"
	"github.com/swiftkart/storefront/internal/mykafka"
	"github.com/swiftkart/storefront/internal/repo"
	"github.com/swiftkart/storefront/internal/service"
	"github.com/swiftkart/storefront/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) publish(c echo.Context, userID uint, event map[string]interface{}) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, strconv.FormatUint(uint64(userID), 10), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	var req service.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return respondFail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, id.UserID, req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			l.Error("create_order_error", "status", status, "error", err)
			return respondFail(c, status, "failed to create order")
		}
		l.Warn("create_order_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	h.publish(c, id.UserID, map[string]interface{}{
		"type":         "order_created",
		"user_id":      id.UserID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	})

	l.Info("create_order_success", "order_number", order.OrderNumber)
	return respondOK(c, http.StatusCreated, "order created successfully", order)
}

func (h *OrderHTTP) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.List(ctx, repo.OrderFilter{
		UserID: id.UserID,
		Status: c.QueryParam("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		status := statusFor(err)
		l.Warn("get_my_orders_error", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			return respondFail(c, status, "failed to fetch orders")
		}
		return respondFail(c, status, err.Error())
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"orders": orders,
		"pagination": map[string]interface{}{
			"current_page":   page,
			"total_pages":    (total + int64(limit) - 1) / int64(limit),
			"total_items":    total,
			"items_per_page": limit,
		},
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.Get(ctx, id.UserID, c.Param("orderNumber"))
	if err != nil {
		status := statusFor(err)
		l.Warn("get_order_error", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			return respondFail(c, status, "failed to fetch order")
		}
		return respondFail(c, status, err.Error())
	}

	return respondOK(c, http.StatusOK, "", order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.Cancel(ctx, id.UserID, c.Param("orderNumber"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			l.Error("cancel_order_error", "status", status, "error", err)
			return respondFail(c, status, "failed to cancel order")
		}
		l.Warn("cancel_order_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	h.publish(c, id.UserID, map[string]interface{}{
		"type":         "order_cancelled",
		"user_id":      id.UserID,
		"order_number": order.OrderNumber,
	})

	l.Info("cancel_order_success", "order_number", order.OrderNumber)
	return respondOK(c, http.StatusOK, "order cancelled successfully", order)
}

func (h *OrderHTTP) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_all")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 20)
	offset, limit := util.Calculate(page, size)

	var userFilter uint
	if v := c.QueryParam("user_id"); v != "" {
		userFilter = uint(parseIntDefault(v, 0))
	}

	total, orders, err := h.Svc.List(ctx, repo.OrderFilter{
		UserID: userFilter,
		Status: c.QueryParam("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		status := statusFor(err)
		l.Warn("get_all_orders_error", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			return respondFail(c, status, "failed to fetch orders")
		}
		return respondFail(c, status, err.Error())
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"orders": orders,
		"pagination": map[string]interface{}{
			"current_page":   page,
			"total_pages":    (total + int64(limit) - 1) / int64(limit),
			"total_items":    total,
			"items_per_page": limit,
		},
	})
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_status")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "error", err)
		return respondFail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, c.Param("orderNumber"), req.Status)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			l.Error("update_order_status_error", "status", status, "error", err)
			return respondFail(c, status, "failed to update order status")
		}
		l.Warn("update_order_status_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	h.publish(c, order.UserID, map[string]interface{}{
		"type":         "order_status_updated",
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})

	l.Info("update_order_status_success", "order_number", order.OrderNumber, "new_status", order.Status)
	return respondOK(c, http.StatusOK, "order status updated successfully", order)
}
