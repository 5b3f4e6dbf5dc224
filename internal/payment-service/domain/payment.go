// Package domain holds the payment ledger entities.
package domain

import (
	"time"

	"ecommerce-platform/internal/pkg/apperr"
)

// Payment is one charge attempt against an order. A failed attempt is
// persisted too, so the ledger records declines as well as captures.
type Payment struct {
	ID            string         `json:"id"`
	OrderID       string         `json:"orderId"`
	Amount        float64        `json:"amount"`
	Method        Method         `json:"method"`
	Status        Status         `json:"status"`
	TransactionID string         `json:"transactionId,omitempty"`
	FailureReason string         `json:"failureReason,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Method is the payment instrument.
type Method string

const (
	MethodCreditCard   Method = "CREDIT_CARD"
	MethodDebitCard    Method = "DEBIT_CARD"
	MethodPayPal       Method = "PAYPAL"
	MethodStripe       Method = "STRIPE"
	MethodBankTransfer Method = "BANK_TRANSFER"
)

// ParseMethod validates a wire-level method string.
func ParseMethod(raw string) (Method, error) {
	switch m := Method(raw); m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal, MethodStripe, MethodBankTransfer:
		return m, nil
	default:
		return "", apperr.Validation("unknown payment method "+raw, "method")
	}
}

// Status is the charge lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusRefunded   Status = "REFUNDED"
)
