package payments

import (
	"context"
	"errors"
)

var ErrNoPaymentRef = errors.New("reservation has no payment reference")

type RefundRequest struct {
	ReservationID string
	CustomerID    string
	OfferingID    string
	PaymentRef    string
	// Amount is the offering price in minor units. Zero refunds the whole charge.
	Amount int64
}

// RefundGateway asks the payment provider to return a captured payment.
type RefundGateway interface {
	RequestRefund(ctx context.Context, req RefundRequest) error
}

// Nop accepts every refund request without doing anything.
type Nop struct{}

func (Nop) RequestRefund(context.Context, RefundRequest) error { return nil }
