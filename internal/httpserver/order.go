package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minishop/backend/internal/logging"
	"github.com/minishop/backend/internal/middleware"
	"github.com/minishop/backend/internal/mykafka"
	"github.com/minishop/backend/internal/service"
	"github.com/minishop/backend/internal/transport"
	"github.com/minishop/backend/internal/util"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	userID, err := middleware.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Place(ctx, userID, req)
	if err != nil {
		return serviceError(err, "Failed to place order")
	}

	h.publish(c, order.ID.String(), map[string]any{
		"type":     "order_placed",
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalPrice,
	})

	l.Info("place_order_success", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_my_orders")

	userID, err := middleware.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	orders, err := h.Svc.MyOrders(ctx, userID)
	if err != nil {
		l.Error("get_my_orders_error", "status", 500, "error", err)
		return serviceError(err, "Failed to fetch orders")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_all_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	orders, meta, err := h.Svc.AllOrders(ctx, page, limit)
	if err != nil {
		l.Error("get_all_orders_error", "status", 500, "error", err)
		return serviceError(err, "Failed to fetch all orders")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":       orders,
		"pagination": meta,
	})
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order_status")

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return serviceError(err, "Failed to update order")
	}

	h.publish(c, order.ID.String(), map[string]any{
		"type":     "order_status_changed",
		"order_id": order.ID,
		"status":   order.Status,
	})

	l.Info("update_order_status_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}
