package events

import (
	"context"
	"time"

	"marketplace/internal/domain"
)

type Type string

const (
	ReservationCreated   Type = "reservation.created"
	ReservationConfirmed Type = "reservation.confirmed"
	ReservationCancelled Type = "reservation.cancelled"
	PaymentCaptured      Type = "reservation.payment_captured"
	RefundRequested      Type = "reservation.refund_requested"
)

// Event is the JSON document written to the broker. Events are keyed by
// reservation id so one reservation's events stay ordered.
type Event struct {
	Type          Type                     `json:"type"`
	ReservationID string                   `json:"reservation_id"`
	OfferingID    string                   `json:"offering_id"`
	CustomerID    string                   `json:"customer_id"`
	ActorID       string                   `json:"actor_id,omitempty"`
	Status        domain.ReservationStatus `json:"status"`
	PaymentStatus domain.PaymentStatus     `json:"payment_status"`
	PaymentRef    string                   `json:"payment_ref,omitempty"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

func FromReservation(t Type, r *domain.Reservation, actorID string) Event {
	return Event{
		Type:          t,
		ReservationID: r.ID,
		OfferingID:    r.OfferingID,
		CustomerID:    r.CustomerID,
		ActorID:       actorID,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		PaymentRef:    r.PaymentRef,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
