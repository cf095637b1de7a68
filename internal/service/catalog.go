package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/minishop/backend/internal/logging"
	"github.com/minishop/backend/internal/models"
	"github.com/minishop/backend/internal/repo"
	"github.com/minishop/backend/internal/transport"
	"github.com/minishop/backend/internal/util"
)

// sortColumns is the allow-list of catalog sort fields; anything else
// silently falls back to createdAt.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"stock":     "stock",
}

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) List(ctx context.Context, q transport.ListProductsQuery) ([]models.Product, *transport.Pagination, error) {
	page, limit, offset := util.Clamp(q.Page, q.Limit)

	field, direction, _ := strings.Cut(q.Sort, ":")
	col, ok := sortColumns[field]
	if !ok {
		col = "created_at"
	}

	filter := repo.ProductFilter{
		NameLike: strings.TrimSpace(q.Q),
		Category: strings.TrimSpace(q.Category),
		SortCol:  col,
		SortDesc: direction != "asc",
		Offset:   offset,
		Limit:    limit,
	}

	total, items, err := s.Repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return items, &transport.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: util.Pages(total, limit),
	}, nil
}

func (s *CatalogService) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: Invalid product id", ErrValidation)
	}

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: Product not found", ErrNotFound)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if req.Name == "" || req.Price == nil {
		return nil, fmt.Errorf("%w: name and price are required", ErrValidation)
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrValidation)
	}
	if err := validPrice(*req.Price); err != nil {
		return nil, err
	}

	stock := 0
	if req.Stock != nil {
		if err := validStock(*req.Stock); err != nil {
			return nil, err
		}
		stock = *req.Stock
	}

	prod := models.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Stock:       stock,
		Category:    strings.TrimSpace(req.Category),
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		l.Error("create_product_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return nil, err
	}
	return &prod, nil
}

func (s *CatalogService) Update(ctx context.Context, rawID string, req transport.UpdateProductRequest) (*models.Product, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: Invalid product id", ErrValidation)
	}

	if req.Price != nil {
		if err := validPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := validStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Name != nil && len(strings.TrimSpace(*req.Name)) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrValidation)
	}

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: Product not found", ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		prod.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) Delete(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("%w: Invalid product id", ErrValidation)
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: Product not found", ErrNotFound)
		}
		return err
	}
	return nil
}

func validPrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}
	return nil
}

func validStock(s int) error {
	if s < 0 {
		return fmt.Errorf("%w: stock must be a non-negative integer", ErrValidation)
	}
	return nil
}
