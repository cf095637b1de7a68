package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minishop/backend/internal/es"
	"github.com/minishop/backend/internal/logging"
	"github.com/minishop/backend/internal/mykafka"
	"github.com/minishop/backend/internal/service"
	"github.com/minishop/backend/internal/transport"
	"github.com/minishop/backend/internal/util"
)

type ProductHandler struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
	Indexer  *es.Indexer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	q := transport.ListProductsQuery{
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:    util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize),
	}

	items, meta, err := h.Svc.List(ctx, q)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return serviceError(err, "Failed to fetch products")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":       items,
		"pagination": meta,
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "error", err)
		return serviceError(err, "Failed to fetch product")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Create(ctx, req)
	if err != nil {
		return serviceError(err, "Failed to create product")
	}

	h.Indexer.IndexProduct(ctx, prod)
	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return serviceError(err, "Failed to update product")
	}

	h.Indexer.IndexProduct(ctx, prod)
	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	l.Info("update_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id := c.Param("id")
	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(err, "Failed to delete product")
	}

	h.Indexer.DeleteProduct(ctx, id)
	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}
