// Package orders is the payment ledger's HTTP client for the orders
// service, used to verify charge amounts against order totals.
package orders

import (
	"context"

	"ecommerce-platform/internal/payment-service/app"
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
