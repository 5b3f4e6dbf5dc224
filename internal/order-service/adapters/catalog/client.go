// Package catalog is the order ledger's HTTP client for the products
// service. The ledger reads current price and stock at order-creation time
// only; it never mutates catalog state.
package catalog

import (
	"context"

	"ecommerce-platform/internal/order-service/app"
	"ecommerce-platform/internal/pkg/httpx"
)

// HTTPClient implements app.Catalog against the products service REST API.
type HTTPClient struct {
	rest *httpx.Client
}

var _ app.Catalog = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{rest: httpx.NewClient(baseURL)}
}

// Product fetches one product record. A missing product surfaces as
// NotFound; a transport failure as DependencyUnavailable.
func (c *HTTPClient) Product(ctx context.Context, id string) (*app.Product, error) {
	var product app.Product
	if err := c.rest.Get(ctx, "/api/products/"+id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
