package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"marketplace/internal/events"
)

type fakeRefunds struct {
	params *stripe.RefundCreateParams
	refund *stripe.Refund
	err    error
}

func (f *fakeRefunds) Create(_ context.Context, params *stripe.RefundCreateParams) (*stripe.Refund, error) {
	f.params = params
	return f.refund, f.err
}

type capturePublisher struct {
	events []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.events = append(c.events, e)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func TestStripeGateway_RefundsPaymentIntent(t *testing.T) {
	fake := &fakeRefunds{refund: &stripe.Refund{ID: "re_1", Status: stripe.RefundStatusSucceeded}}
	g := &StripeGateway{refunds: fake}

	err := g.RequestRefund(context.Background(), RefundRequest{ReservationID: "r1", PaymentRef: "pi_123", Amount: 5000})
	require.NoError(t, err)

	require.NotNil(t, fake.params)
	assert.Equal(t, "pi_123", *fake.params.PaymentIntent)
	assert.Equal(t, int64(5000), *fake.params.Amount)
	assert.Equal(t, "refund-r1", *fake.params.IdempotencyKey)
	assert.Equal(t, "r1", fake.params.Metadata["reservation_id"])
}

func TestStripeGateway_Failures(t *testing.T) {
	g := &StripeGateway{refunds: &fakeRefunds{}}
	assert.ErrorIs(t, g.RequestRefund(context.Background(), RefundRequest{ReservationID: "r1"}), ErrNoPaymentRef)

	apiErr := errors.New("charge already refunded")
	g = &StripeGateway{refunds: &fakeRefunds{err: apiErr}}
	assert.ErrorIs(t, g.RequestRefund(context.Background(), RefundRequest{ReservationID: "r1", PaymentRef: "pi_1"}), apiErr)

	g = &StripeGateway{refunds: &fakeRefunds{refund: &stripe.Refund{ID: "re_2", Status: stripe.RefundStatusFailed}}}
	assert.Error(t, g.RequestRefund(context.Background(), RefundRequest{ReservationID: "r1", PaymentRef: "pi_1"}))
}

func TestBrokerGateway_PublishesRefundRequested(t *testing.T) {
	pub := &capturePublisher{}
	g := NewBrokerGateway(pub)

	require.NoError(t, g.RequestRefund(context.Background(), RefundRequest{ReservationID: "r1", CustomerID: "c1", PaymentRef: "pi_1"}))
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.RefundRequested, pub.events[0].Type)
	assert.Equal(t, "pi_1", pub.events[0].PaymentRef)
}
