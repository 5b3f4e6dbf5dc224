package domain

import (
	"math"
	"time"
)

// Order is the aggregate root: the order row plus its owned line items,
// persisted as one unit. Total is a frozen snapshot of the catalog prices
// at creation time and is never recomputed.
type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	ClientID        string      `json:"clientId"`
	Items           []OrderItem `json:"items"`
	Status          Status      `json:"status"`
	Total           float64     `json:"total"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentID       string      `json:"paymentId,omitempty"`
	InvoiceID       string      `json:"invoiceId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderItem is one product+quantity entry. Price is the unit price captured
// at order time, Total is price × quantity.
type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// Address is the shipping destination. All four fields are required.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// MissingFields returns the names of required address fields left empty.
func (a Address) MissingFields() []string {
	var missing []string
	if a.Street == "" {
		missing = append(missing, "shippingAddress.street")
	}
	if a.City == "" {
		missing = append(missing, "shippingAddress.city")
	}
	if a.PostalCode == "" {
		missing = append(missing, "shippingAddress.postalCode")
	}
	if a.Country == "" {
		missing = append(missing, "shippingAddress.country")
	}
	return missing
}

// Status is the order lifecycle state. Transitions are deliberately
// unconstrained: any status may follow any other, and cancellation is a
// plain status overwrite.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus maps a wire string onto a known status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
