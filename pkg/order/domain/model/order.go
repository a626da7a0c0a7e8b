package model

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidPayment = errors.New("invalid payment details")
	ErrEmptyOrder     = errors.New("cannot submit an empty order")
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "tunai"
	PaymentTransfer PaymentMethod = "transfer"
)

type PaymentDetails struct {
	Method        PaymentMethod `json:"paymentMethod"`
	CashAmount    int64         `json:"cashAmount,omitempty"`
	TransferProof string        `json:"transferProof,omitempty"`
}

type OrderItem struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type OrderRequest struct {
	Items         []OrderItem   `json:"items"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CashAmount    int64         `json:"cashAmount,omitempty"`
	TransferProof string        `json:"transferProof,omitempty"`
}

// OrderRecord is the server's committed view of the order, returned for
// receipt rendering. The ID and timestamp are server-assigned.
type OrderRecord struct {
	ID        string      `json:"id"`
	Total     int64       `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
	Items     []OrderItem `json:"items"`
}

// API is the external order endpoint. It performs the authoritative stock
// decrement and may reject an order the terminal believed was valid; it does
// not guarantee idempotency, so a failed submission is never retried here.
type API interface {
	Submit(ctx context.Context, req OrderRequest) (*OrderRecord, error)
}
