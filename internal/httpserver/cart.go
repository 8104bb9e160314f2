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
	"github.com/swiftkart/storefront/internal/service"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) publish(c echo.Context, userID uint, event map[string]interface{}) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicCartEvents, strconv.FormatUint(uint64(userID), 10), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.Get(ctx, id.UserID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return respondFail(c, http.StatusInternalServerError, "failed to fetch cart")
	}

	return respondOK(c, http.StatusOK, "", view)
}

func (h *CartHTTP) GetCartCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	totalItems, itemCount, err := h.Svc.Count(ctx, id.UserID)
	if err != nil {
		l.Error("get_cart_count_error", "status", 500, "error", err)
		return respondFail(c, http.StatusInternalServerError, "failed to get cart count")
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"total_items": totalItems,
		"item_count":  itemCount,
	})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return respondFail(c, http.StatusBadRequest, "invalid body")
	}

	line, err := h.Svc.Add(ctx, id.UserID, req.ProductID, req.Quantity)
	if err != nil {
		status := statusFor(err)
		l.Warn("add_to_cart_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	h.publish(c, id.UserID, map[string]interface{}{
		"type":       "cart_item_added",
		"user_id":    id.UserID,
		"product_id": line.ProductID,
		"quantity":   line.Quantity,
	})

	l.Info("add_to_cart_success", "product_id", line.ProductID)
	return respondOK(c, http.StatusCreated, "item added to cart successfully", line)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}
	lineID, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return respondFail(c, http.StatusBadRequest, "invalid body")
	}

	line, err := h.Svc.UpdateQuantity(ctx, id.UserID, lineID, req.Quantity)
	if err != nil {
		status := statusFor(err)
		l.Warn("update_cart_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	h.publish(c, id.UserID, map[string]interface{}{
		"type":     "cart_item_updated",
		"user_id":  id.UserID,
		"item_id":  line.ID,
		"quantity": line.Quantity,
	})

	l.Info("update_cart_success", "item_id", line.ID)
	return respondOK(c, http.StatusOK, "cart item updated successfully", line)
}

func (h *CartHTTP) BulkUpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.bulk_update")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	var req struct {
		Items []service.BulkUpdateItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("bulk_update_cart_error", "status", 400, "error", err)
		return respondFail(c, http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.BulkUpdate(ctx, id.UserID, req.Items)
	if err != nil {
		status := statusFor(err)
		l.Warn("bulk_update_cart_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	if res.ErrorCount > 0 {
		l.Info("bulk_update_cart_partial", "success", res.SuccessCount, "errors", res.ErrorCount)
		return c.JSON(http.StatusMultiStatus, Envelope{
			Success: false,
			Message: "bulk update completed with some errors",
			Data:    res,
		})
	}

	l.Info("bulk_update_cart_success", "count", res.SuccessCount)
	return respondOK(c, http.StatusOK, "bulk update successful", res)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}
	lineID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Remove(ctx, id.UserID, lineID); err != nil {
		status := statusFor(err)
		l.Warn("remove_from_cart_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	h.publish(c, id.UserID, map[string]interface{}{
		"type":    "cart_item_removed",
		"user_id": id.UserID,
		"item_id": lineID,
	})

	l.Info("remove_from_cart_success", "item_id", lineID)
	return respondOK(c, http.StatusOK, "item removed from cart successfully", nil)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	removed, err := h.Svc.Clear(ctx, id.UserID)
	if err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return respondFail(c, http.StatusInternalServerError, "failed to clear cart")
	}

	h.publish(c, id.UserID, map[string]interface{}{
		"type":    "cart_cleared",
		"user_id": id.UserID,
		"removed": removed,
	})

	l.Info("clear_cart_success", "removed", removed)
	return respondOK(c, http.StatusOK, "cart cleared successfully", map[string]interface{}{
		"items_removed": removed,
	})
}

func (h *CartHTTP) ValidateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.validate")

	id, err := jwtauth.MustIdentity(c)
	if err != nil {
		return err
	}

	res, err := h.Svc.Validate(ctx, id.UserID)
	if err != nil {
		status := statusFor(err)
		l.Warn("validate_cart_error", "status", status, "error", err)
		return respondFail(c, status, err.Error())
	}

	if !res.Valid {
		l.Info("validate_cart_failed", "errors", len(res.Errors))
		return respondFailWith(c, http.StatusBadRequest, "cart validation failed", res.Errors)
	}

	l.Info("validate_cart_success", "total", res.TotalAmount)
	return respondOK(c, http.StatusOK, "cart validation successful", map[string]interface{}{
		"valid_items_count": res.ValidItemsCount,
		"total_amount":      res.TotalAmount,
	})
}
