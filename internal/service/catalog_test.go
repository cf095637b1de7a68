package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/minishop/backend/internal/models"
	"github.com/minishop/backend/internal/transport"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func seedProducts(t *testing.T, svc *CatalogService, n int) []models.Product {
	t.Helper()
	out := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		prod, err := svc.Create(context.Background(), transport.CreateProductRequest{
			Name:     fmt.Sprintf("Widget %03d", i),
			Price:    floatPtr(float64(i) + 0.5),
			Stock:    intPtr(i),
			Category: "widgets",
		})
		require.NoError(t, err)
		out = append(out, *prod)
	}
	return out
}

func TestCreateProductValidation(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	cases := []transport.CreateProductRequest{
		{Price: floatPtr(1)},                                // missing name
		{Name: "Widget"},                                    // missing price
		{Name: "Widget", Price: floatPtr(-1)},               // negative price
		{Name: "W", Price: floatPtr(1)},                     // name too short
		{Name: "Widget", Price: floatPtr(1), Stock: intPtr(-1)}, // negative stock
	}
	for _, req := range cases {
		_, err := svc.Create(ctx, req)
		require.ErrorIs(t, err, ErrValidation, "req: %+v", req)
	}
}

func TestCreateProductDefaults(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}

	prod, err := svc.Create(context.Background(), transport.CreateProductRequest{
		Name:  "  Widget  ",
		Price: floatPtr(9.99),
	})
	require.NoError(t, err)
	require.Equal(t, "Widget", prod.Name)
	require.Equal(t, 0, prod.Stock)
	require.NotEqual(t, uuid.Nil, prod.ID)
}

func TestListPaginationPartition(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	seedProducts(t, svc, 45)

	seen := make(map[uuid.UUID]bool)
	for page := 1; page <= 3; page++ {
		items, meta, err := svc.List(context.Background(), transport.ListProductsQuery{Page: page, Limit: 20})
		require.NoError(t, err)
		require.Equal(t, int64(45), meta.Total)
		require.Equal(t, int64(3), meta.Pages)
		require.Equal(t, page, meta.Page)
		require.Equal(t, 20, meta.Limit)
		for _, it := range items {
			require.False(t, seen[it.ID], "page overlap on %s", it.ID)
			seen[it.ID] = true
		}
	}
	require.Len(t, seen, 45, "pages must partition all records")
}

func TestListFilters(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	for _, p := range []struct {
		name, category string
	}{
		{"Red Mug", "kitchen"},
		{"Blue Mug", "kitchen"},
		{"Desk Lamp", "office"},
	} {
		_, err := svc.Create(ctx, transport.CreateProductRequest{
			Name: p.name, Price: floatPtr(5), Category: p.category,
		})
		require.NoError(t, err)
	}

	items, meta, err := svc.List(ctx, transport.ListProductsQuery{Q: "mug"})
	require.NoError(t, err)
	require.Equal(t, int64(2), meta.Total)
	for _, it := range items {
		require.Contains(t, it.Name, "Mug")
	}

	_, meta, err = svc.List(ctx, transport.ListProductsQuery{Category: "office"})
	require.NoError(t, err)
	require.Equal(t, int64(1), meta.Total)

	_, meta, err = svc.List(ctx, transport.ListProductsQuery{Q: "mug", Category: "office"})
	require.NoError(t, err)
	require.Equal(t, int64(0), meta.Total)
}

func TestListDegradesOnJunkQuery(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	seedProducts(t, svc, 3)

	items, meta, err := svc.List(context.Background(), transport.ListProductsQuery{
		Page:  -5,
		Limit: 100000,
		Sort:  "__proto__:sideways",
	})
	require.NoError(t, err)
	require.Equal(t, 1, meta.Page)
	require.Equal(t, 100, meta.Limit)
	require.Len(t, items, 3)
}

func TestListSort(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	for i, price := range []float64{30, 10, 20} {
		_, err := svc.Create(ctx, transport.CreateProductRequest{
			Name: fmt.Sprintf("Item %d", i), Price: floatPtr(price),
		})
		require.NoError(t, err)
	}

	items, _, err := svc.List(ctx, transport.ListProductsQuery{Sort: "price:asc"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, float64(10), items[0].Price)
	require.Equal(t, float64(30), items[2].Price)

	items, _, err = svc.List(ctx, transport.ListProductsQuery{Sort: "price:desc"})
	require.NoError(t, err)
	require.Equal(t, float64(30), items[0].Price)
}

func TestGetProduct(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	prods := seedProducts(t, svc, 1)
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)

	got1, err := svc.Get(ctx, prods[0].ID.String())
	require.NoError(t, err)
	got2, err := svc.Get(ctx, prods[0].ID.String())
	require.NoError(t, err)

	b1, _ := json.Marshal(got1)
	b2, _ := json.Marshal(got2)
	require.Equal(t, b1, b2, "repeated reads must be byte-identical")
}

func TestUpdateProduct(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	prods := seedProducts(t, svc, 1)
	ctx := context.Background()

	updated, err := svc.Update(ctx, prods[0].ID.String(), transport.UpdateProductRequest{
		Name:  strPtr("Renamed"),
		Price: floatPtr(42),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, float64(42), updated.Price)
	require.Equal(t, prods[0].Stock, updated.Stock, "untouched fields keep their values")

	_, err = svc.Update(ctx, prods[0].ID.String(), transport.UpdateProductRequest{Price: floatPtr(-1)})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, prods[0].ID.String(), transport.UpdateProductRequest{Stock: intPtr(-1)})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, uuid.NewString(), transport.UpdateProductRequest{Name: strPtr("Ghost")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "nope", transport.UpdateProductRequest{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteProduct(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	prods := seedProducts(t, svc, 1)
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, "nope"), ErrValidation)
	require.ErrorIs(t, svc.Delete(ctx, uuid.NewString()), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, prods[0].ID.String()))

	_, err := svc.Get(ctx, prods[0].ID.String())
	require.ErrorIs(t, err, ErrNotFound)
}
