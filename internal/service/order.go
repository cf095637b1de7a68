package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/minishop/backend/internal/logging"
	"github.com/minishop/backend/internal/models"
	"github.com/minishop/backend/internal/repo"
	"github.com/minishop/backend/internal/transport"
	"github.com/minishop/backend/internal/util"
)

var allowedStatuses = map[string]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusShipped:   true,
	models.OrderStatusDelivered: true,
}

type OrderService struct {
	Repo *repo.GormRepo
}

// Place prices the order against the catalog as read right now. There is no
// lock against concurrent price updates between the read and the write:
// last-read-wins is the accepted contract.
func (s *OrderService) Place(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items array is required", ErrValidation)
	}

	type line struct {
		productID uuid.UUID
		quantity  int
	}
	lines := make([]line, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: Invalid product id", ErrValidation)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: Quantity must be a positive integer", ErrValidation)
		}
		lines = append(lines, line{productID: id, quantity: it.Quantity})
	}

	distinct := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, ln := range lines {
		if !seen[ln.productID] {
			seen[ln.productID] = true
			distinct = append(distinct, ln.productID)
		}
	}

	products, err := s.Repo.FindProductsByIDs(ctx, distinct)
	if err != nil {
		l.Error("place_order_error", "status", 500, "reason", "cannot fetch products", "error", err)
		return nil, err
	}
	if len(products) != len(distinct) {
		return nil, fmt.Errorf("%w: One or more products not found", ErrValidation)
	}

	priceMap := make(map[uuid.UUID]float64, len(products))
	for _, p := range products {
		priceMap[p.ID] = p.Price
	}

	var total float64
	items := make([]models.OrderItem, 0, len(lines))
	for _, ln := range lines {
		unit := priceMap[ln.productID]
		lineTotal := unit * float64(ln.quantity)
		items = append(items, models.OrderItem{
			ProductID: ln.productID,
			Quantity:  ln.quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}

	order := models.Order{
		UserID:     userID,
		Items:      items,
		TotalPrice: total,
		Status:     models.OrderStatusPending,
	}
	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		l.Error("place_order_error", "status", 500, "reason", "cannot create order", "error", err)
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) AllOrders(ctx context.Context, page, limit int) ([]models.Order, *transport.Pagination, error) {
	normPage, normLimit, offset := util.Clamp(page, limit)

	total, orders, err := s.Repo.ListAllOrders(ctx, offset, normLimit)
	if err != nil {
		return nil, nil, err
	}

	return orders, &transport.Pagination{
		Page:  normPage,
		Limit: normLimit,
		Total: total,
		Pages: util.Pages(total, normLimit),
	}, nil
}

// UpdateStatus checks the new status against the allowed set only; any
// transition between allowed values is accepted, backward ones included.
func (s *OrderService) UpdateStatus(ctx context.Context, rawID, status string) (*models.Order, error) {
	if !allowedStatuses[status] {
		return nil, fmt.Errorf("%w: Invalid status", ErrValidation)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: Invalid order id", ErrValidation)
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
		}
		return nil, err
	}

	if err := s.Repo.UpdateOrderStatus(ctx, order, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
