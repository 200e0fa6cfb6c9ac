package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

type refundCreator interface {
	Create(ctx context.Context, params *stripe.RefundCreateParams) (*stripe.Refund, error)
}

// StripeGateway refunds the PaymentIntent recorded as the reservation's
// payment reference.
type StripeGateway struct {
	refunds refundCreator
}

func NewStripeGateway(secretKey string) *StripeGateway {
	sc := stripe.NewClient(secretKey)
	return &StripeGateway{refunds: sc.V1Refunds}
}

func (g *StripeGateway) RequestRefund(ctx context.Context, req RefundRequest) error {
	if req.PaymentRef == "" {
		return ErrNoPaymentRef
	}

	params := &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(req.PaymentRef),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	if req.Amount > 0 {
		params.Amount = stripe.Int64(req.Amount)
	}
	params.SetIdempotencyKey("refund-" + req.ReservationID)
	params.AddMetadata("reservation_id", req.ReservationID)

	refund, err := g.refunds.Create(ctx, params)
	if err != nil {
		return fmt.Errorf("stripe refund for %s: %w", req.ReservationID, err)
	}
	if refund.Status == stripe.RefundStatusFailed || refund.Status == stripe.RefundStatusCanceled {
		return fmt.Errorf("stripe refund %s ended %s", refund.ID, refund.Status)
	}
	return nil
}
