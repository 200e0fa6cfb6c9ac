package payments

import (
	"context"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/events"
)

// BrokerGateway hands refunds to a downstream payment worker by publishing a
// refund_requested event.
type BrokerGateway struct {
	publisher events.Publisher
}

func NewBrokerGateway(publisher events.Publisher) *BrokerGateway {
	return &BrokerGateway{publisher: publisher}
}

func (g *BrokerGateway) RequestRefund(ctx context.Context, req RefundRequest) error {
	return g.publisher.Publish(ctx, events.Event{
		Type:          events.RefundRequested,
		ReservationID: req.ReservationID,
		OfferingID:    req.OfferingID,
		CustomerID:    req.CustomerID,
		Status:        domain.ReservationCancelled,
		PaymentStatus: domain.PaymentRefunded,
		PaymentRef:    req.PaymentRef,
		OccurredAt:    time.Now().UTC(),
	})
}
