package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/onlineboutique/checkout/internal/checkout"
	"github.com/onlineboutique/checkout/internal/pkg/cache"
)

// productCacheTTL bounds how stale a cached product may get. The
// catalog is read-mostly; price changes show up within this window.
const productCacheTTL = 5 * time.Minute

// CatalogClient talks to the product catalog service, memoizing
// products in Redis.
type CatalogClient struct {
	base
	cache cache.Cache // nil disables caching
}

// NewCatalogClient builds a catalog adapter for the service at url.
// httpClient and c may be nil.
func NewCatalogClient(url string, httpClient *http.Client, c cache.Cache) *CatalogClient {
	return &CatalogClient{base: newBase(url, httpClient), cache: c}
}

var _ checkout.ProductCatalog = (*CatalogClient)(nil)

func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (checkout.Product, error) {
	if cached, ok := c.fromCache(ctx, productID); ok {
		return cached, nil
	}

	var product checkout.Product
	err := c.getJSON(ctx, "/api/v1/products/"+productID, &product)
	var herr *httpError
	if errors.As(err, &herr) && herr.status == http.StatusNotFound {
		return checkout.Product{}, fmt.Errorf("catalog service: %s: %w", productID, checkout.ErrProductNotFound)
	}
	if err != nil {
		return checkout.Product{}, fmt.Errorf("catalog service: %w", err)
	}

	c.toCache(ctx, productID, product)
	return product, nil
}

// fromCache returns the cached product if present. Cache failures are
// treated as misses; the catalog call is the source of truth.
func (c *CatalogClient) fromCache(ctx context.Context, productID string) (checkout.Product, bool) {
	if c.cache == nil {
		return checkout.Product{}, false
	}
	raw, err := c.cache.Get(ctx, c.cache.Key("product", productID))
	if err != nil || raw == "" {
		return checkout.Product{}, false
	}
	var product checkout.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return checkout.Product{}, false
	}
	return product, true
}

func (c *CatalogClient) toCache(ctx context.Context, productID string, product checkout.Product) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, c.cache.Key("product", productID), string(payload), productCacheTTL)
}
