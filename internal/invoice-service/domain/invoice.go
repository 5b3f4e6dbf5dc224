// Package domain holds the invoicing entities.
package domain

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// TaxRate is the flat rate applied to every invoice subtotal.
const TaxRate = 0.20

// Invoice is a billing document derived from an order at generation
// time. Amounts are frozen when the invoice is issued.
type Invoice struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	OrderID       string    `json:"orderId"`
	ClientID      string    `json:"clientId"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	Status        Status    `json:"status"`
	IssuedAt      time.Time `json:"issuedAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusIssued    Status = "ISSUED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewInvoiceNumber builds a reference like INV-1714060800000-4F7K2A.
// The millisecond timestamp plus a random suffix keeps collisions
// improbable without coordination.
func NewInvoiceNumber() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = numberAlphabet[rand.IntN(len(numberAlphabet))]
	}
	return fmt.Sprintf("INV-%d-%s", time.Now().UnixMilli(), suffix)
}

// Round2 rounds a monetary amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
