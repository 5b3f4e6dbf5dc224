package httpx

import "ecommerce-platform/internal/order-service/domain"

type CreateOrderRequest struct {
	ClientID        string             `json:"clientId"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress domain.Address     `json:"shippingAddress"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
