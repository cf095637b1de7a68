package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/minishop/backend/internal/config"
	"github.com/minishop/backend/internal/models"
)

const ProductIndex = "products"

func NewClient(cfg config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

// Indexer mirrors catalog mutations into the search index. Index upkeep is
// best effort: failures are logged and never fail the originating request.
type Indexer struct {
	Client *elasticsearch.Client
	Index  string
	Log    *slog.Logger
}

func (ix *Indexer) IndexProduct(ctx context.Context, prod *models.Product) {
	if ix == nil || ix.Client == nil {
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(prod); err != nil {
		ix.Log.Error("es index encode error", "product_id", prod.ID, "error", err)
		return
	}

	res, err := ix.Client.Index(
		ix.Index,
		&buf,
		ix.Client.Index.WithDocumentID(prod.ID.String()),
		ix.Client.Index.WithContext(ctx),
	)
	if err != nil {
		ix.Log.Error("es index error", "product_id", prod.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		ix.Log.Error("es index error", "product_id", prod.ID, "status", res.Status())
	}
}

func (ix *Indexer) DeleteProduct(ctx context.Context, id string) {
	if ix == nil || ix.Client == nil {
		return
	}

	res, err := ix.Client.Delete(ix.Index, id, ix.Client.Delete.WithContext(ctx))
	if err != nil {
		ix.Log.Error("es delete error", "product_id", id, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		ix.Log.Error("es delete error", "product_id", id, "status", res.Status())
	}
}
