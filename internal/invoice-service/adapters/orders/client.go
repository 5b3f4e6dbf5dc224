// Package orders is the invoicing service's HTTP client for the orders
// service. Invoices snapshot the order total at generation time.
package orders

import (
	"context"

	"ecommerce-platform/internal/invoice-service/app"
	"ecommerce-platform/internal/pkg/httpx"
)

// HTTPClient implements app.Orders against the orders service REST API.
type HTTPClient struct {
	rest *httpx.Client
}

var _ app.Orders = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{rest: httpx.NewClient(baseURL)}
}

func (c *HTTPClient) Order(ctx context.Context, id string) (*app.Order, error) {
	var order app.Order
	if err := c.rest.Get(ctx, "/api/orders/"+id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
